package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/domain"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/platform"
	"github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/repos/blocklist/parsers"
	svcmgr "github.com/Pro-Sifat-Hasan/deepfocus/internal/focus/service"
)

// Wire the service runtime back to the application without an import cycle:
// the service package cannot import app, so it runs the app through this hook.
func init() {
	svcmgr.RunApp = func(ctx context.Context) error {
		a, err := Build()
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Run(ctx)
	}
}

// NewRootCommand assembles the CLI.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Block distracting websites through the system hosts file",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		NewRunCommand(),
		NewStatusCommand(),
		NewEnableCommand(),
		NewDisableCommand(),
		NewCustomCommand(),
		NewCheckCommand(),
		NewSyncCommand(),
		NewBackupsCommand(),
		NewRestoreCommand(),
		NewImportCommand(),
		NewPasswordCommand(),
		NewAutostartCommand(),
		NewServiceCommand(),
	)
	return root
}

// Execute runs the CLI and returns a process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// withApp builds the application for one command invocation.
func withApp(fn func(a *Application) error) error {
	a, err := Build()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run protection in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *Application) error {
				ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
				defer cancel()
				return a.Run(ctx)
			})
		},
	}
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show group toggles and the active block set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *Application) error {
				st, err := a.Sync.Status()
				if err != nil {
					return err
				}
				fmt.Println("Groups:")
				for _, g := range st.Groups {
					state := "off"
					if g.Enabled {
						state = "on"
					}
					fmt.Printf("  %-15s %-9s %-3s %d domains\n", g.Name, g.Kind, state, g.Domains)
				}
				if len(st.Custom) > 0 {
					fmt.Println("Custom domains:")
					for _, d := range st.Custom {
						fmt.Printf("  %s\n", d)
					}
				}
				fmt.Printf("Managed hosts entries: %d\n", st.Entries)
				if !platform.IsElevated() {
					fmt.Println("Note: not running elevated; applying changes will fail.")
				}
				return nil
			})
		},
	}
}

func NewEnableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <group>",
		Short: "Enable blocking for a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *Application) error {
				if err := a.Sync.EnableGroup(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Printf("Group %s enabled\n", args[0])
				return nil
			})
		},
	}
}

func NewDisableCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "disable <group>",
		Short: "Disable blocking for a group (password-gated when one is set)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *Application) error {
				if err := a.Auth.VerifyGroup(args[0], password); err != nil {
					return err
				}
				if err := a.Sync.DisableGroup(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Printf("Group %s disabled\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password unlocking the group")
	return cmd
}

func NewCustomCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "custom",
		Short: "Manage custom blocked domains",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <domain>",
			Short: "Block a domain and its common variations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(func(a *Application) error {
					if err := a.Sync.AddCustom(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Printf("Domain %s blocked\n", args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <domain>",
			Short: "Unblock a custom domain",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(func(a *Application) error {
					if err := a.Sync.RemoveCustom(cmd.Context(), args[0]); err != nil {
						return err
					}
					fmt.Printf("Domain %s unblocked\n", args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List custom blocked domains",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(func(a *Application) error {
					custom, err := a.Store.CustomDomains()
					if err != nil {
						return err
					}
					if len(custom) == 0 {
						fmt.Println("No custom domains")
						return nil
					}
					for _, d := range custom {
						fmt.Println(d)
					}
					return nil
				})
			},
		},
	)
	return cmd
}

func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <domain>",
		Short: "Report whether a domain is in the active block set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *Application) error {
				if err := a.Sync.RefreshIndex(); err != nil {
					return err
				}
				d := a.Sync.Check(args[0])
				if d.Blocked {
					fmt.Printf("%s is blocked (group %s, rule %s)\n", args[0], d.Group, d.MatchedRule)
				} else {
					fmt.Printf("%s is not blocked\n", args[0])
				}
				return nil
			})
		},
	}
}

func NewSyncCommand() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the hosts file with the configured block set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *Application) error {
				res, err := a.Sync.Reconcile(cmd.Context(), force)
				if err != nil {
					return err
				}
				if res.Changed || force {
					fmt.Printf("Hosts file updated, %d entries\n", res.Entries)
				} else {
					fmt.Printf("Already in sync, %d entries\n", res.Entries)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "rewrite even when already in sync")
	return cmd
}

func NewBackupsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List hosts file snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *Application) error {
				snaps, err := a.Sync.Snapshots()
				if err != nil {
					return err
				}
				if len(snaps) == 0 {
					fmt.Println("No snapshots")
					return nil
				}
				for _, s := range snaps {
					fmt.Printf("%s  %6d bytes  %s\n", s.CreatedAt.Format("2006-01-02 15:04:05"), s.Size, s.Path)
				}
				return nil
			})
		},
	}
}

func NewRestoreCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "restore <snapshot>",
		Short: "Replace the hosts file with a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *Application) error {
				if err := a.Auth.VerifyMain(password); err != nil {
					return err
				}
				if err := a.Sync.Restore(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Println("Hosts file restored")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "main password")
	return cmd
}

func NewImportCommand() *cobra.Command {
	var group, format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a blocklist file into a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *Application) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()

				logger := a.logger
				now := time.Now()
				var rules []domain.Rule
				switch strings.ToLower(format) {
				case "hosts":
					parsed, err := parsers.ParseHostsFile(f, group, logger, now)
					if err != nil {
						return err
					}
					rules = parsed
				case "plain":
					parsed, err := parsers.ParsePlainList(f, group, logger, now)
					if err != nil {
						return err
					}
					rules = parsed
				default:
					return fmt.Errorf("unknown format: %s (want hosts or plain)", format)
				}

				added, err := a.Sync.Import(cmd.Context(), group, rules)
				if err != nil {
					return err
				}
				fmt.Printf("Imported %d new domains into %s (%d parsed)\n", added, group, len(rules))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "target catalog group")
	cmd.Flags().StringVar(&format, "format", "plain", "file format: hosts or plain")
	_ = cmd.MarkFlagRequired("group")
	return cmd
}

func NewPasswordCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Manage the main and per-group passwords",
	}

	set := &cobra.Command{
		Use:   "set <password>",
		Short: "Set the initial main password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *Application) error {
				if !a.Auth.MainPasswordIsDefault() {
					return fmt.Errorf("a main password exists, use 'password change'")
				}
				if err := a.Auth.SetMainPassword(args[0]); err != nil {
					return err
				}
				fmt.Println("Main password set")
				return nil
			})
		},
	}

	change := &cobra.Command{
		Use:   "change <old> <new>",
		Short: "Change the main password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *Application) error {
				if err := a.Auth.ChangeMainPassword(args[0], args[1]); err != nil {
					return err
				}
				fmt.Println("Main password changed")
				return nil
			})
		},
	}

	group := &cobra.Command{
		Use:   "group",
		Short: "Manage per-group passwords",
	}
	group.AddCommand(
		&cobra.Command{
			Use:   "set <group> <password>",
			Short: "Lock a group behind its own password",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(func(a *Application) error {
					if err := a.Auth.SetGroupPassword(args[0], args[1]); err != nil {
						return err
					}
					fmt.Printf("Password set for group %s\n", args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear <group> <password>",
			Short: "Remove a group's password",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(func(a *Application) error {
					if err := a.Auth.ClearGroupPassword(args[0], args[1]); err != nil {
						return err
					}
					fmt.Printf("Password cleared for group %s\n", args[0])
					return nil
				})
			},
		},
	)

	cmd.AddCommand(set, change, group)
	return cmd
}

func NewAutostartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage start-at-login registration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "on",
			Short: "Start protection at login",
			RunE: func(cmd *cobra.Command, args []string) error {
				exe, err := os.Executable()
				if err != nil {
					return err
				}
				if err := platform.EnableAutostart(appName, exe); err != nil {
					return err
				}
				fmt.Println("Autostart enabled")
				return nil
			},
		},
		&cobra.Command{
			Use:   "off",
			Short: "Do not start protection at login",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := platform.DisableAutostart(appName); err != nil {
					return err
				}
				fmt.Println("Autostart disabled")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show autostart registration",
			RunE: func(cmd *cobra.Command, args []string) error {
				if platform.AutostartEnabled(appName) {
					fmt.Println("Autostart is on")
				} else {
					fmt.Println("Autostart is off")
				}
				return nil
			},
		},
	)
	return cmd
}

func NewServiceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the background service",
	}

	action := func(name string, fn func(*svcmgr.Manager) error) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: name + " the background service",
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := svcmgr.NewManager()
				if err != nil {
					return err
				}
				if err := fn(m); err != nil {
					return err
				}
				fmt.Printf("Service %s: ok\n", name)
				return nil
			},
		}
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show service state",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := svcmgr.NewManager()
			if err != nil {
				return err
			}
			st, err := m.Status()
			if err != nil {
				return err
			}
			fmt.Printf("Service status: %s\n", st)
			return nil
		},
	}

	run := &cobra.Command{
		Use:    "run",
		Short:  "Entry point used by the service manager",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := svcmgr.NewManager()
			if err != nil {
				return err
			}
			return m.Run()
		},
	}

	cmd.AddCommand(
		action("install", (*svcmgr.Manager).Install),
		action("uninstall", (*svcmgr.Manager).Uninstall),
		action("start", (*svcmgr.Manager).Start),
		action("stop", (*svcmgr.Manager).Stop),
		action("restart", (*svcmgr.Manager).Restart),
		status,
		run,
	)
	return cmd
}
