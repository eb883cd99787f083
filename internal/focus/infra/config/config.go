package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig holds configuration values parsed from environment variables.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// LogFile, when set, redirects log output to a file. The service daemon
	// sets this because Windows services have no console.
	LogFile string `koanf:"log_file"`

	// HostsPath is the system hosts file the synchronizer manages.
	HostsPath string `koanf:"hosts_path" validate:"required"`

	// BackupDir receives timestamped hosts-file snapshots before each write.
	BackupDir string `koanf:"backup_dir" validate:"required"`

	// BackupKeep is how many rotated snapshots to retain.
	BackupKeep uint `koanf:"backup_keep" validate:"required,gte=1"`

	// StatePath is the bbolt database holding group state and settings.
	StatePath string `koanf:"state_path" validate:"required"`

	// RedirectIP is the address managed entries point at.
	RedirectIP string `koanf:"redirect_ip" validate:"required,ip"`

	// Interval is the watchdog reconcile period in seconds.
	Interval uint `koanf:"interval" validate:"required,gte=5"`

	// CacheSize bounds the blocklist decision cache. Zero disables it.
	CacheSize uint `koanf:"cache_size"`

	// FlushDNS controls whether the OS resolver cache is flushed after writes.
	FlushDNS bool `koanf:"flush_dns"`

	// ProcessGuard enables the process kill-loop for named executables.
	ProcessGuard bool `koanf:"process_guard"`

	// GuardProcesses is a comma-separated list of executable names the
	// process guard terminates, e.g. "chrome.exe,msedge.exe".
	GuardProcesses string `koanf:"guard_processes"`
}

// GuardProcessList splits GuardProcesses into trimmed, non-empty names.
func (c *AppConfig) GuardProcessList() []string {
	if strings.TrimSpace(c.GuardProcesses) == "" {
		return nil
	}
	parts := strings.Split(c.GuardProcesses, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// envLoader loads environment variables with the prefix "DEEPFOCUS_",
// transforming keys to lowercase without the prefix. Swappable in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: "DEEPFOCUS_",
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, "DEEPFOCUS_")), value
		},
	}), nil)
}

// Load parses environment variables and returns an AppConfig instance.
// It applies platform defaults and runs validation automatically.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	// Load default values using structs provider.
	k.Load(structs.Provider(AppConfig{
		Env:        "prod",
		LogLevel:   "info",
		HostsPath:  defaultHostsPath(),
		BackupDir:  defaultBackupDir(),
		BackupKeep: 3,
		StatePath:  defaultStatePath(),
		RedirectIP: "127.0.0.1",
		Interval:   30,
		CacheSize:  1000,
		FlushDNS:   true,
	}, "koanf"), nil)

	err := envLoader(k)
	if err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	err = validate.Struct(&cfg)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
