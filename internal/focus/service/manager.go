// Package service integrates the protection loop with the OS service manager
// (Windows SCM, launchd, systemd) so blocking survives logout and reboot.
package service

import (
	"context"
	"fmt"

	"github.com/kardianos/service"
)

// RunApp is set by the app package at init time; it builds the application
// and runs the protection loop until the context is cancelled. Injected as a
// variable to avoid an import cycle (app imports this package for the CLI).
var RunApp func(ctx context.Context) error

// Manager wraps a kardianos service handle around the application.
type Manager struct {
	service service.Service
	program *program
}

// program adapts the application lifecycle to the service.Interface contract.
// Start must not block; the protection loop runs in a goroutine cancelled by
// Stop.
type program struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (p *program) Start(s service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)
		if RunApp != nil {
			_ = RunApp(ctx)
		}
	}()
	return nil
}

func (p *program) Stop(s service.Service) error {
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
	return nil
}

// NewManager builds the service handle. ServiceName is stable so install and
// uninstall always address the same registration.
func NewManager() (*Manager, error) {
	cfg := &service.Config{
		Name:        "deepfocus",
		DisplayName: "DeepFocus Website Blocker",
		Description: "Keeps distracting and harmful websites blocked through the system hosts file.",
		Arguments:   []string{"service", "run"},
		Option: service.KeyValue{
			"RunAtLoad": true,
			"KeepAlive": true,
		},
	}

	prg := &program{}
	svc, err := service.New(prg, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating service: %w", err)
	}
	return &Manager{service: svc, program: prg}, nil
}

func (m *Manager) Install() error { return m.service.Install() }

func (m *Manager) Uninstall() error { return m.service.Uninstall() }

func (m *Manager) Start() error { return m.service.Start() }

func (m *Manager) Stop() error { return m.service.Stop() }

func (m *Manager) Restart() error { return m.service.Restart() }

// Run hands control to the service runtime. Under a service manager this
// blocks until the manager stops us; run interactively it behaves the same
// with signal handling provided by the library.
func (m *Manager) Run() error { return m.service.Run() }

// Status reports the service state as a human-readable string.
func (m *Manager) Status() (string, error) {
	status, err := m.service.Status()
	if err != nil {
		return "unknown", err
	}
	switch status {
	case service.StatusRunning:
		return "running", nil
	case service.StatusStopped:
		return "stopped", nil
	default:
		return "unknown", nil
	}
}
