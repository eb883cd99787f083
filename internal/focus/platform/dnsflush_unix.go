//go:build !windows && !darwin

package platform

// Most distributions either run systemd-resolved or no local cache at all, in
// which case hosts changes apply immediately and the flush is a harmless miss.
func flushCommands() [][]string {
	return [][]string{
		{"resolvectl", "flush-caches"},
		{"systemd-resolve", "--flush-caches"},
	}
}
