// Command miniapp-bridge runs either side of a mini app channel over a
// websocket.
//
//	miniapp-bridge host   [-config bridge.toml] [-listen addr] [-dialect name]
//	miniapp-bridge client [-config bridge.toml] [-url ws://...] [-dialect name]
//	miniapp-bridge schema [-dialect name]
//
// The host subcommand accepts frame connections and plays a wallet that
// announces its state and declines transaction requests. The client
// subcommand plays a mini app that reports its URL and logs what the host
// sends. schema prints the JSON Schema of every payload.
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "miniapp-bridge: %v\n", err)
		os.Exit(1)
	}
}

var errUsage = stderrors.New("usage: miniapp-bridge host|client|schema [flags]")

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "path to a TOML config file")
	dialect := fs.String("dialect", "", "wire dialect: flat or namespaced")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn or error")
	listen := fs.String("listen", "", "host: address to accept frames on")
	url := fs.String("url", "", "client: websocket URL of the host")
	metricsAddr := fs.String("metrics", "", "address to serve Prometheus metrics on")

	if err := fs.Parse(rest); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	var flagErr error

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dialect":
			flagErr = stderrors.Join(flagErr, cfg.setDialect(*dialect))
		case "log-level":
			flagErr = stderrors.Join(flagErr, cfg.setLogLevel(*logLevel))
		case "listen":
			cfg.Listen = *listen
		case "url":
			cfg.URL = *url
		case "metrics":
			cfg.MetricsAddr = *metricsAddr
		}
	})

	if flagErr != nil {
		return flagErr
	}

	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	switch cmd {
	case "host":
		return runHost(ctx, cfg, log)
	case "client":
		return runClient(ctx, cfg, log)
	case "schema":
		return runSchema(cfg, stdout)
	default:
		return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
	}
}
