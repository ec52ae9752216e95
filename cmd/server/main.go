// Command server is the game server composition root: loads config,
// wires the World, loads the map, and runs the listener/reader/
// dispatcher/tick-loop tasks under one errgroup (spec.md §1/§5).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/tilemmo/core/internal/config"
	"github.com/tilemmo/core/internal/gameserver"
	"github.com/tilemmo/core/internal/mapload"
)

const ConfigPathEnv = "TILEMMO_SERVER_CONFIG"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := "config/server.yaml"
	if p := os.Getenv(ConfigPathEnv); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServerConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading server config: %w", err)
	}

	logOpts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}
	var logHandler slog.Handler = slog.NewTextHandler(os.Stdout, logOpts)
	if cfg.LogFormat == "json" {
		logHandler = slog.NewJSONHandler(os.Stdout, logOpts)
	}
	slog.SetDefault(slog.New(logHandler))
	slog.Info("tilemmo server starting", "tcp_port", cfg.TCPPort, "udp_port", cfg.UDPPort)

	tcpLn, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.TCPBindAddress, cfg.TCPPort))
	if err != nil {
		return fmt.Errorf("listening tcp: %w", err)
	}
	defer tcpLn.Close()

	udpAddr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", cfg.UDPBindAddress, cfg.UDPPort))
	if err != nil {
		return fmt.Errorf("resolving udp address: %w", err)
	}
	udpConn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("listening udp: %w", err)
	}
	defer udpConn.Close()

	world := gameserver.NewWorld()
	srv := gameserver.NewServer(slog.Default(), world, tcpLn, udpConn)

	loader, err := mapload.NewTMXLoader(cfg.MapDataPath)
	if err != nil {
		return fmt.Errorf("opening map data %s: %w", cfg.MapDataPath, err)
	}
	if err := srv.LoadMap(loader); err != nil {
		return fmt.Errorf("loading map: %w", err)
	}
	slog.Info("map loaded", "objects", world.Objects.Len())

	return srv.Run(ctx)
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
