// Command client is the reference client composition root (spec.md
// §1): connects, reconciles server state, and drives the auto-pather.
// Rendering and input capture are explicitly out of scope — this is
// the headless core a real game client would embed.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tilemmo/core/internal/client"
	"github.com/tilemmo/core/internal/config"
)

const ConfigPathEnv = "TILEMMO_CLIENT_CONFIG"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := "config/client.yaml"
	if p := os.Getenv(ConfigPathEnv); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadClientConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading client config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	username := cfg.Username
	if username == "" {
		username = promptUsername()
	}

	sess := client.NewSession(slog.Default(), cfg.ServerTCPAddress, cfg.ServerUDPAddress, username)
	if err := sess.Connect(ctx); err != nil {
		return fmt.Errorf("connecting: %w", err)
	}
	slog.Info("connected", "username", username)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sess.RunUDPReadLoop(gctx) })
	g.Go(func() error {
		return sess.RunTCPReadLoop(gctx, func(username, body string) {
			slog.Info("chat", "from", username, "body", body)
		})
	})
	g.Go(func() error { return runPingLoop(gctx, sess) })
	g.Go(func() error { return runAutoPathLoop(gctx, sess) })

	return g.Wait()
}

func runPingLoop(ctx context.Context, sess *client.Session) error {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := sess.SendPing(); err != nil {
				return err
			}
		}
	}
}

// runAutoPathLoop drains whatever route is queued on the session's
// AutoPather at the server's move cooldown cadence (spec.md §4.12).
func runAutoPathLoop(ctx context.Context, sess *client.Session) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if loc, ok := sess.Path.NextStep(now); ok {
				if _, err := sess.SendMove(loc); err != nil {
					return err
				}
			}
		}
	}
}

func promptUsername() string {
	fmt.Print("username: ")
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Scan()
	return scanner.Text()
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
