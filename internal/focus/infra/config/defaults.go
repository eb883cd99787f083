package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// defaultHostsPath returns the OS hosts file location.
func defaultHostsPath() string {
	if runtime.GOOS == "windows" {
		root := os.Getenv("SystemRoot")
		if root == "" {
			root = `C:\Windows`
		}
		return filepath.Join(root, "System32", "drivers", "etc", "hosts")
	}
	return "/etc/hosts"
}

// defaultDataDir is where state and backups live when not overridden.
func defaultDataDir() string {
	if runtime.GOOS == "windows" {
		if pd := os.Getenv("ProgramData"); pd != "" {
			return filepath.Join(pd, "DeepFocus")
		}
		return `C:\ProgramData\DeepFocus`
	}
	return "/var/lib/deepfocus"
}

func defaultBackupDir() string {
	return filepath.Join(defaultDataDir(), "backups")
}

func defaultStatePath() string {
	return filepath.Join(defaultDataDir(), "state.db")
}
