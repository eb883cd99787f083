package domain

import (
	"fmt"
	"net"
	"strings"
)

// Entry is a single managed redirect line inside the hosts file.
// Serialized form: "<ip> <domain>  # <group>". One domain per line.
type Entry struct {
	IP     string // redirect target, e.g. "127.0.0.1"
	Domain string // canonical domain being redirected
	Group  string // owning group name, written as the line tag
}

// NewEntry constructs an Entry and validates its fields.
func NewEntry(ip, domain, group string) (Entry, error) {
	e := Entry{
		IP:     strings.TrimSpace(ip),
		Domain: strings.ToLower(strings.TrimSpace(domain)),
		Group:  strings.TrimSpace(group),
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Validate checks the Entry for required fields.
func (e Entry) Validate() error {
	if net.ParseIP(e.IP) == nil {
		return fmt.Errorf("entry redirect IP is invalid: %q", e.IP)
	}
	if e.Domain == "" {
		return fmt.Errorf("entry domain must not be empty")
	}
	if strings.ContainsAny(e.Domain, " \t#") {
		return fmt.Errorf("entry domain must not contain whitespace or '#': %q", e.Domain)
	}
	if e.Group == "" {
		return fmt.Errorf("entry group must not be empty")
	}
	return nil
}

// String renders the entry in hosts-file line format.
func (e Entry) String() string {
	return fmt.Sprintf("%s %s  # %s", e.IP, e.Domain, e.Group)
}
