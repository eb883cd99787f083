// Package catalog holds the built-in domain groups: the social platforms a
// user can toggle individually and the content categories that default on.
package catalog

import (
	"sort"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
)

// platformDomains mirrors the shipped platform list. Order within a group is
// preserved in the hosts file, so keep the primary domain first.
var platformDomains = map[string][]string{
	"facebook": {
		"facebook.com", "www.facebook.com", "fb.com", "www.fb.com",
		"m.facebook.com", "mbasic.facebook.com", "messenger.com", "www.messenger.com",
	},
	"instagram": {
		"instagram.com", "www.instagram.com", "cdninstagram.com", "instagr.am",
	},
	"twitter": {
		"twitter.com", "www.twitter.com", "x.com", "www.x.com",
		"t.co", "twimg.com",
	},
	"youtube": {
		"youtube.com", "www.youtube.com", "m.youtube.com", "youtu.be",
		"youtube-nocookie.com", "yt.be",
	},
	"tiktok": {
		"tiktok.com", "www.tiktok.com", "m.tiktok.com", "tiktokcdn.com", "tiktokv.com",
	},
	"reddit": {
		"reddit.com", "www.reddit.com", "old.reddit.com", "redd.it", "redditmedia.com",
	},
	"snapchat": {
		"snapchat.com", "www.snapchat.com", "snap.com", "sc-cdn.net",
	},
	"linkedin": {
		"linkedin.com", "www.linkedin.com", "licdn.com", "lnkd.in",
	},
}

// categoryDomains are the content categories. These are representative seed
// lists; the import operation can extend a category from external blocklists.
var categoryDomains = map[string][]string{
	"adult-content": {
		"pornhub.com", "www.pornhub.com", "xvideos.com", "www.xvideos.com",
		"xnxx.com", "www.xnxx.com", "xhamster.com", "www.xhamster.com",
		"redtube.com", "youporn.com", "spankbang.com", "chaturbate.com",
		"onlyfans.com", "www.onlyfans.com", "stripchat.com", "livejasmin.com",
		"brazzers.com", "youjizz.com", "tube8.com", "rule34.xxx",
	},
	"gambling": {
		"bet365.com", "www.bet365.com", "betway.com", "williamhill.com",
		"pokerstars.com", "www.pokerstars.com", "888casino.com", "888poker.com",
		"stake.com", "www.stake.com", "roobet.com", "betfair.com",
		"draftkings.com", "fanduel.com", "bwin.com", "unibet.com",
		"ladbrokes.com", "paddypower.com", "betsson.com", "1xbet.com",
	},
}

// enforced categories reset to enabled whenever state is loaded; turning them
// off is a deliberate, password-gated act that does not survive a restart.
var enforced = map[string]bool{
	"adult-content": true,
	"gambling":      true,
}

// Groups returns every built-in group with its default enabled flag (all
// built-ins default to blocked), platforms first, sorted by name.
func Groups() []domain.Group {
	out := make([]domain.Group, 0, len(platformDomains)+len(categoryDomains))
	for _, name := range sortedKeys(platformDomains) {
		g, _ := domain.NewGroup(name, domain.GroupPlatform, platformDomains[name], true)
		out = append(out, g)
	}
	for _, name := range sortedKeys(categoryDomains) {
		g, _ := domain.NewGroup(name, domain.GroupCategory, categoryDomains[name], true)
		out = append(out, g)
	}
	return out
}

// Lookup returns a built-in group by name.
func Lookup(name string) (domain.Group, bool) {
	if domains, ok := platformDomains[name]; ok {
		g, _ := domain.NewGroup(name, domain.GroupPlatform, domains, true)
		return g, true
	}
	if domains, ok := categoryDomains[name]; ok {
		g, _ := domain.NewGroup(name, domain.GroupCategory, domains, true)
		return g, true
	}
	return domain.Group{}, false
}

// Enforced reports whether a group's enabled flag is forced back on at load.
func Enforced(name string) bool { return enforced[name] }

// Builtin adapts the package-level catalog to the interfaces services consume.
type Builtin struct{}

func (Builtin) Groups() []domain.Group { return Groups() }

func (Builtin) Lookup(name string) (domain.Group, bool) { return Lookup(name) }

func (Builtin) Enforced(name string) bool { return Enforced(name) }

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
