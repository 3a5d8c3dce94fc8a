package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wagiedev/miniapp-sdk-go/internal/config"
	"github.com/wagiedev/miniapp-sdk-go/internal/message"
)

// bridgeConfig is the resolved configuration of either subcommand.
type bridgeConfig struct {
	Dialect     *message.Dialect
	LogLevel    slog.Level
	Listen      string
	Path        string
	URL         string
	MetricsAddr string
	Origins     []string

	// State announced by the host. Under an echoing dialect it is the
	// handshake payload; otherwise it is sent as change messages.
	State message.HandshakePayload

	// ClientURL is reported by the client once the channel is up.
	ClientURL string
}

type fileConfig struct {
	Dialect      string   `toml:"dialect"`
	LogLevel     string   `toml:"log_level"`
	Listen       string   `toml:"listen"`
	Path         string   `toml:"path"`
	URL          string   `toml:"url"`
	MetricsAddr  string   `toml:"metrics_addr"`
	Origins      []string `toml:"origin_patterns"`
	Network      string   `toml:"network"`
	Theme        string   `toml:"theme"`
	HideBalances bool     `toml:"hide_balances"`
	Explorer     string   `toml:"explorer"`
	ClientURL    string   `toml:"client_url"`
}

func defaultConfig() bridgeConfig {
	return bridgeConfig{
		Dialect:  message.DialectFlat,
		LogLevel: slog.LevelInfo,
		Listen:   "127.0.0.1:7400",
		Path:     "/frame",
		URL:      "ws://127.0.0.1:7400/frame",
		State: message.HandshakePayload{
			Network:  message.NetworkMainnet,
			Theme:    message.ThemeLight,
			Explorer: message.ExplorerCardanoscan,
		},
		ClientURL: "/",
	}
}

// loadConfig reads path over the defaults. Keys missing from the file keep
// their default. An empty path yields the defaults.
func loadConfig(path string) (bridgeConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig

	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return bridgeConfig{}, fmt.Errorf("load bridge config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return bridgeConfig{}, fmt.Errorf("load bridge config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("dialect") {
		if err := cfg.setDialect(raw.Dialect); err != nil {
			return bridgeConfig{}, err
		}
	}

	if meta.IsDefined("log_level") {
		if err := cfg.setLogLevel(raw.LogLevel); err != nil {
			return bridgeConfig{}, err
		}
	}

	if meta.IsDefined("listen") {
		cfg.Listen = strings.TrimSpace(raw.Listen)
	}

	if meta.IsDefined("path") {
		cfg.Path = strings.TrimSpace(raw.Path)
	}

	if meta.IsDefined("url") {
		cfg.URL = strings.TrimSpace(raw.URL)
	}

	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	if meta.IsDefined("origin_patterns") {
		cfg.Origins = normalizeList(raw.Origins)
	}

	if meta.IsDefined("network") {
		cfg.State.Network = message.Network(strings.TrimSpace(raw.Network))
	}

	if meta.IsDefined("theme") {
		cfg.State.Theme = message.Theme(strings.TrimSpace(raw.Theme))
	}

	if meta.IsDefined("hide_balances") {
		cfg.State.HideBalances = raw.HideBalances
	}

	if meta.IsDefined("explorer") {
		cfg.State.Explorer = message.Explorer(strings.TrimSpace(raw.Explorer))
	}

	if meta.IsDefined("client_url") {
		cfg.ClientURL = strings.TrimSpace(raw.ClientURL)
	}

	return cfg, nil
}

func (c *bridgeConfig) setDialect(name string) error {
	d := config.ResolveDialect(strings.TrimSpace(name))
	if d == nil {
		return fmt.Errorf("unknown dialect %q", name)
	}

	c.Dialect = d

	return nil
}

func (c *bridgeConfig) setLogLevel(name string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return fmt.Errorf("parse log_level: %w", err)
	}

	c.LogLevel = level

	return nil
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))

	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		out = append(out, v)
	}

	return out
}
