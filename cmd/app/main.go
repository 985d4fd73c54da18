package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Th0mmi3/auto-comment/internal/application"
	"github.com/Th0mmi3/auto-comment/internal/config"
)

type flags struct {
	envFile     string
	wallet      string
	logFile     string
	logLevel    string
	headless    bool
	requireAuth bool
	seenDB      string
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:           "auto-comment",
		Short:         "Watches the coin board and posts a reply on every new coin.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(f.envFile)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return application.Run(cmd.Context(), cfg)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.envFile, "env-file", "", "path to .env file (default: ./.env if present)")
	fl.StringVar(&f.wallet, "wallet", "", "wallet JSON file (overrides WALLET_FILE)")
	fl.StringVar(&f.logFile, "log-file", "", "log file (overrides LOG_FILE)")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	fl.BoolVar(&f.headless, "headless", true, "run the browser without a window (overrides HEADLESS)")
	fl.BoolVar(&f.requireAuth, "require-auth", false, "exit when wallet login fails (overrides REQUIRE_AUTH)")
	fl.StringVar(&f.seenDB, "seen-db", "", "sqlite file for processed coins (overrides SEEN_DB)")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "address for /metrics, e.g. :9102 (overrides METRICS_ADDR)")
	return cmd
}

// apply перекрывает конфиг только явно переданными флагами.
func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("wallet") {
		cfg.WalletFile = f.wallet
	}
	if fl.Changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fl.Changed("headless") {
		cfg.Headless = f.headless
	}
	if fl.Changed("require-auth") {
		cfg.RequireAuth = f.requireAuth
	}
	if fl.Changed("seen-db") {
		cfg.SeenDB = f.seenDB
	}
	if fl.Changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		stop()
		os.Exit(1)
	}
}
