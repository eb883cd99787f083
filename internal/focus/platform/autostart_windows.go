package platform

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// EnableAutostart registers the executable under the current user's Run key
// so protection starts at login.
func EnableAutostart(appName, exePath string) error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("opening run key: %w", err)
	}
	defer key.Close()

	if err := key.SetStringValue(appName, fmt.Sprintf("%q --background", exePath)); err != nil {
		return fmt.Errorf("writing run entry: %w", err)
	}
	return nil
}

// DisableAutostart removes the Run key entry. A missing entry is a no-op.
func DisableAutostart(appName string) error {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("opening run key: %w", err)
	}
	defer key.Close()

	err = key.DeleteValue(appName)
	if err != nil && err != registry.ErrNotExist {
		return fmt.Errorf("removing run entry: %w", err)
	}
	return nil
}

// AutostartEnabled reports whether the Run key entry exists.
func AutostartEnabled(appName string) bool {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer key.Close()

	_, _, err = key.GetStringValue(appName)
	return err == nil
}
