package platform

func flushCommands() [][]string {
	return [][]string{
		{"dscacheutil", "-flushcache"},
		{"killall", "-HUP", "mDNSResponder"},
	}
}
