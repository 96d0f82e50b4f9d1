package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dm-vev/bluemap/server"
)

const configPath = "config.toml"

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	conf, err := readConfig(log)
	if err != nil {
		log.Error("read config", "err", err)
		os.Exit(1)
	}
	conf.ConsoleInput = os.Stdin
	conf.Reload = func() ([]server.WorldConfig, error) {
		uc, err := server.ReadConfig(configPath)
		if err != nil {
			return nil, err
		}
		worlds, err := uc.WorldConfigs()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
		return worlds, nil
	}

	srv, err := conf.New()
	if err != nil {
		log.Error("create server", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx); err != nil {
		log.Error("run server", "err", err)
		os.Exit(1)
	}
}

func readConfig(log *slog.Logger) (server.Config, error) {
	uc, err := server.ReadConfig(configPath)
	if err != nil {
		return server.Config{}, err
	}
	conf, err := uc.Config(log)
	if err != nil {
		return server.Config{}, fmt.Errorf("%s: %w", configPath, err)
	}
	return conf, nil
}
