package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Th0mmi3/auto-comment/internal/application"
	"github.com/Th0mmi3/auto-comment/internal/board"
	"github.com/Th0mmi3/auto-comment/internal/browser"
	"github.com/Th0mmi3/auto-comment/internal/config"
	"github.com/Th0mmi3/auto-comment/internal/credential"
	"github.com/Th0mmi3/auto-comment/internal/entity"
	"github.com/Th0mmi3/auto-comment/internal/logging"
)

// session — открытый браузер плюс собранные поверх него сканер и сценарий ответа.
type session struct {
	cfg     *config.Config
	svc     *browser.Service
	scanner *board.Scanner
	replier *board.Replier
}

type probeFlags struct {
	envFile  string
	headless bool
	login    bool
}

func newRootCmd() *cobra.Command {
	f := &probeFlags{}
	root := &cobra.Command{
		Use:           "probe",
		Short:         "Interactive console for checking board selectors against the live site.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				return repl(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.envFile, "env-file", "", "path to .env file")
	// по умолчанию с окном: удобно смотреть, куда кликает сценарий
	pf.BoolVar(&f.headless, "headless", false, "run the browser without a window")
	pf.BoolVar(&f.login, "login", false, "log in with the wallet before running the command")

	root.AddCommand(&cobra.Command{
		Use:   "scan",
		Short: "Scan the board once and print the coins found.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				printCoins(cmd.OutOrStdout(), s.scanner.Scan(ctx))
				return nil
			})
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "reply <id>",
		Short: "Run the reply workflow for one coin id. This posts for real.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, f, func(ctx context.Context, s *session) error {
				res := s.reply(ctx, args[0])
				fmt.Fprintln(cmd.OutOrStdout(), res)
				if !res.OK() {
					return res.Err
				}
				return nil
			})
		},
	})
	return root
}

func withSession(cmd *cobra.Command, f *probeFlags, fn func(ctx context.Context, s *session) error) error {
	cfg, err := config.LoadConfig(f.envFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = f.headless
	} else {
		cfg.Headless = false
	}

	closeLog, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	ctx := cmd.Context()
	fmt.Fprintln(cmd.OutOrStdout(), "🚀 Starting browser...")
	svc, err := application.OpenSession(ctx, cfg)
	if err != nil {
		return fmt.Errorf("browser launch error: %w", err)
	}
	defer svc.Close()

	if f.login {
		wallet, err := credential.Load(cfg.WalletFile)
		if err != nil {
			return err
		}
		if err := board.Login(ctx, svc, cfg.LoginURL, wallet, cfg.Timeouts, cfg.Pauses); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "⚠️ Login failed: %v\n", err)
		}
	}

	return fn(ctx, &session{
		cfg:     cfg,
		svc:     svc,
		scanner: application.NewScanner(cfg, svc, nil),
		replier: application.NewReplier(cfg, svc),
	})
}

func (s *session) reply(ctx context.Context, id string) entity.Result {
	coin := entity.Coin{ID: id, DetailURL: entity.DetailURLFor(s.cfg.CoinURLTemplate, id)}
	return s.replier.Act(ctx, coin)
}

func repl(ctx context.Context, s *session, in io.Reader, out io.Writer) error {
	lines := bufio.NewScanner(in)
	for ctx.Err() == nil {
		fmt.Fprintf(out, "\n🌍 URL: %s\n", s.svc.CurrentURL(ctx))
		fmt.Fprintln(out, "🎮 COMMANDS: [s]=Scan | [r <id>]=Reply | [goto <url>] | [h]=Help | [q]=Quit")
		fmt.Fprint(out, "👉 > ")

		if !lines.Scan() {
			return nil
		}
		parts := strings.Fields(lines.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var actionErr error
		start := time.Now()

		switch cmd {
		case "q", "quit", "exit":
			fmt.Fprintln(out, "👋 Bye.")
			return nil

		case "s", "scan":
			printCoins(out, s.scanner.Scan(ctx))

		case "r", "reply":
			if len(args) != 1 {
				fmt.Fprintln(out, "❌ Usage: r <id>")
				continue
			}
			res := s.reply(ctx, args[0])
			fmt.Fprintln(out, res)
			if !res.OK() {
				actionErr = res.Err
			}

		case "goto", "go":
			if len(args) == 0 {
				fmt.Fprintln(out, "❌ Usage: goto <url>")
				continue
			}
			url := args[0]
			if !strings.HasPrefix(url, "http") {
				url = "https://" + url
			}
			actionErr = s.svc.Navigate(ctx, url)

		case "h", "help", "?":
			printHelp(out)
			continue

		default:
			fmt.Fprintln(out, "❌ Unknown command. Type 'h' for help.")
			continue
		}

		if actionErr != nil {
			fmt.Fprintf(out, "❌ ERROR: %v\n", actionErr)
			continue
		}
		fmt.Fprintf(out, "✅ Done in %v\n", time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func printCoins(out io.Writer, coins []entity.Coin) {
	if len(coins) == 0 {
		fmt.Fprintln(out, "📭 No coins found")
		return
	}
	for i, c := range coins {
		fmt.Fprintf(out, "%3d. [%s] %s  %s\n", i+1, c.ID, c.DisplayName, c.DetailURL)
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, `
📚 COMMANDS:
---------------------------------------------
   s               - scan the board, print coins in board order
   r <id>          - open the coin page and post the reply (real post!)
   goto <url>      - navigate the working tab
   q               - quit
---------------------------------------------`)
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
