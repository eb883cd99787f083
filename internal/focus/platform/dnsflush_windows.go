package platform

func flushCommands() [][]string {
	return [][]string{
		{"ipconfig", "/flushdns"},
	}
}
