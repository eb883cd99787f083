//go:build !windows

package platform

import "errors"

// ErrAutostartUnsupported is returned on platforms without login-item
// integration; the service manager covers boot startup there.
var ErrAutostartUnsupported = errors.New("autostart is only supported on Windows")

func EnableAutostart(appName, exePath string) error { return ErrAutostartUnsupported }

func DisableAutostart(appName string) error { return ErrAutostartUnsupported }

func AutostartEnabled(appName string) bool { return false }
