package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/vango-dev/hooks/internal/config"
	"github.com/vango-dev/hooks/internal/errors"
	"github.com/vango-dev/hooks/pkg/hooks"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦ ╦┌─┐┌─┐┬┌─┌─┐  ┬  ┌─┐┌┐
  ╠═╣│ ││ │├┴┐└─┐  │  ├─┤├┴┐
  ╩ ╩└─┘└─┘┴ ┴└─┘  ┴─┘┴ ┴└─┘
`

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	debug      bool
	logLevel   string
}

func main() {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "hookslab",
		Short: "Explore a hooks runtime for Go",
		Long: `hookslab drives the hooks runtime: component instances with
ordinal state, memo, ref and effect slots, committed in batches.

  • Scripted demos with per-step batch reports
  • Latency benchmarks for mount, update and flush
  • A live inspector with instance snapshots and a batch stream`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to hooks.json (default: search from the working directory)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		listCmd(),
		demoCmd(flags),
		benchCmd(flags),
		inspectCmd(flags),
		initCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads hooks.json from --config or from the nearest parent
// directory that has one. Without a file the defaults apply. Flags win
// over the file.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case f.configPath != "":
		c, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if _, err := config.FindRoot(wd); err == nil {
			if cfg, err = config.LoadFromDir(wd); err != nil {
				return nil, err
			}
		} else {
			cfg = config.New()
		}
	}

	if f.debug {
		cfg.Debug = true
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the text logger every command writes to stderr.
func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

// newScheduler builds a scheduler from cfg. Metrics go to reg when it is
// non-nil.
func newScheduler(cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) *hooks.Scheduler {
	opts := []hooks.Option{
		hooks.WithLogger(logger.With("component", "hooks")),
		hooks.WithMaxPasses(cfg.MaxPasses),
	}
	if reg != nil {
		opts = append(opts, hooks.WithMetrics(hooks.NewMetrics(
			hooks.WithRegistry(reg),
			hooks.WithNamespace(cfg.Metrics.Namespace),
			hooks.WithSubsystem(cfg.Metrics.Subsystem),
		)))
	}
	return hooks.NewScheduler(opts...)
}

// printBanner prints the hookslab banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
