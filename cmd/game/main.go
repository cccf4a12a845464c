package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/mooncats/internal/client"
	"github.com/tomz197/mooncats/internal/config"
	"github.com/tomz197/mooncats/internal/sim"
	"golang.org/x/term"
)

func main() {
	configPath := flag.String("config", config.GetEnv(config.EnvConfigPath, ""), "path to a YAML config overriding the defaults")
	logPath := flag.String("log", "", "write logs to this file (the terminal is in raw mode)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "spawner seed")
	flag.Parse()

	logger := config.NewLogger("mooncats")
	logger.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameServer := sim.NewServer(cfg, *seed, logger.WithPrefix("sim"))
	go gameServer.Run(ctx)

	c := client.New(gameServer, cfg, bufio.NewReader(os.Stdin), os.Stdout, client.Options{
		Username: config.GetEnv("USER", "player"),
	})
	if err := c.Run(ctx); err != nil && ctx.Err() == nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
