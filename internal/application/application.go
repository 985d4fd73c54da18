package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/Th0mmi3/auto-comment/internal/agent"
	"github.com/Th0mmi3/auto-comment/internal/board"
	"github.com/Th0mmi3/auto-comment/internal/browser"
	"github.com/Th0mmi3/auto-comment/internal/config"
	"github.com/Th0mmi3/auto-comment/internal/credential"
	"github.com/Th0mmi3/auto-comment/internal/entity"
	"github.com/Th0mmi3/auto-comment/internal/logging"
	"github.com/Th0mmi3/auto-comment/internal/metrics"
	"github.com/Th0mmi3/auto-comment/internal/tracker"
)

// ErrAuthRequired — логин не удался, а конфигурация требует работать только залогиненными.
var ErrAuthRequired = errors.New("wallet login failed and REQUIRE_AUTH is set")

// Run поднимает всё по порядку и крутит цикл до отмены ctx.
// Ошибка означает сбой на старте; штатная остановка по сигналу возвращает nil.
func Run(ctx context.Context, cfg *config.Config) error {
	closeLog, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer closeLog.Close()

	slog.InfoContext(ctx, "script started", "board", cfg.BoardURL, "headless", cfg.Headless)

	// 1. Кошелёк: без него дальше не идём
	slog.InfoContext(ctx, "checking wallet file", "path", cfg.WalletFile)
	wallet, err := credential.Load(cfg.WalletFile)
	if err != nil {
		slog.ErrorContext(ctx, "wallet file unusable", "path", cfg.WalletFile, "err", err)
		return fmt.Errorf("initialization failed: %w", err)
	}
	slog.DebugContext(ctx, "wallet loaded", "public_key", wallet.PublicKey.Text())

	// 2. Seen-set
	seen, closeSeen, err := openTracker(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer closeSeen()

	// 3. Метрики
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, reg); err != nil {
				slog.ErrorContext(ctx, "metrics listener failed", "addr", cfg.MetricsAddr, "err", err)
			}
		}()
	}

	// 4. Браузер
	logging.Status("🔌 Starting browser...")
	svc, err := OpenSession(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		slog.ErrorContext(ctx, "error initializing browser", "err", err)
		return fmt.Errorf("browser launch error: %w", err)
	}
	defer func() {
		slog.Info("closing browser")
		if err := svc.Close(); err != nil {
			slog.Error("error during browser close", "err", err)
			return
		}
		slog.Info("browser closed")
	}()

	// 5. Логин. Неудача фатальна только с RequireAuth
	if err := board.Login(ctx, svc, cfg.LoginURL, wallet, cfg.Timeouts, cfg.Pauses); err != nil {
		slog.ErrorContext(ctx, "wallet login failed", "err", err, "require_auth", cfg.RequireAuth)
		logging.Status("❌ Wallet login failed: %v", err)
		if cfg.RequireAuth {
			return fmt.Errorf("%w: %w", ErrAuthRequired, err)
		}
	} else {
		logging.Status("✅ Logged in with wallet %s", wallet.PublicKey.Text())
	}

	// 6. Цикл
	orch := agent.New(
		NewScanner(cfg, svc, m),
		NewReplier(cfg, svc),
		seen,
		agent.Options{
			PollInterval:    cfg.PollInterval,
			BackoffInterval: cfg.BackoffInterval,
			Limiter:         PostLimiter(cfg.PostsPerMinute),
			Metrics:         m,
		},
	)

	logging.Status("🤖 Watching %s (Ctrl+C to stop)", cfg.BoardURL)
	orch.Run(ctx)

	logging.Status("👋 Interrupted. Exiting...")
	slog.Info("script interrupted, exiting")
	return nil
}

// OpenSession starts the browser with the configured options.
func OpenSession(ctx context.Context, cfg *config.Config) (*browser.Service, error) {
	return browser.Open(ctx, browser.Options{
		Headless:    cfg.Headless,
		ProfileRoot: cfg.ProfileRoot,
		ChromeBin:   cfg.ChromeBin,
	})
}

func NewScanner(cfg *config.Config, drv entity.Driver, m *metrics.Metrics) *board.Scanner {
	return &board.Scanner{
		Driver:      drv,
		BoardURL:    cfg.BoardURL,
		URLTemplate: cfg.CoinURLTemplate,
		Wait:        cfg.Timeouts.Listing,
		Pause:       cfg.Pauses.AfterBoardLoad,
		Metrics:     m,
	}
}

func NewReplier(cfg *config.Config, drv entity.Driver) *board.Replier {
	return &board.Replier{
		Driver:   drv,
		Timeouts: cfg.Timeouts,
		Pauses:   cfg.Pauses,
	}
}

// PostLimiter returns nil when posting is unlimited.
func PostLimiter(perMinute float64) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perMinute/60), 1)
}

func openTracker(ctx context.Context, cfg *config.Config) (agent.Tracker, func(), error) {
	if cfg.SeenDB == "" {
		return tracker.NewSeenSet(), func() {}, nil
	}
	store, err := tracker.OpenSQLite(ctx, cfg.SeenDB)
	if err != nil {
		return nil, nil, err
	}
	slog.InfoContext(ctx, "using persistent seen-set", "path", cfg.SeenDB)
	return store, func() {
		if err := store.Close(); err != nil {
			slog.Error("close seen db", "err", err)
		}
	}, nil
}
