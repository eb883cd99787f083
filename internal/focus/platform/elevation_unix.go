//go:build !windows

package platform

import "os"

// IsElevated reports whether the process can write root-owned files such as
// /etc/hosts.
func IsElevated() bool {
	return os.Geteuid() == 0
}
