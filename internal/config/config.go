// Package config loads runtime settings for the workflow server and CLI.
//
// Settings come from an optional TOML file and are then overridden by the
// environment variables DATABASE_URL, LISTEN_ADDR and LOG_LEVEL. The file
// also carries the component catalog the Registry is built from:
//
//	[server]
//	addr = ":3000"
//
//	[log]
//	level = "debug"
//
//	[[components]]
//	key = "Timer"
//	label = "Timer"
//	category = "Triggers"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/meikuraledutech/workflow"
)

// Config is the full set of runtime settings.
type Config struct {
	Server     ServerConfig          `toml:"server"`
	Database   DatabaseConfig        `toml:"database"`
	Log        LogConfig             `toml:"log"`
	Components []workflow.Descriptor `toml:"components"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DatabaseConfig configures the document archive. An empty URL disables it.
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in settings and component catalog.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":3000"},
		Log:    LogConfig{Level: "info"},
		Components: []workflow.Descriptor{
			{Key: "Timer", Label: "Timer", Category: "Triggers", Description: "Fires on a schedule"},
			{Key: "Webhook", Label: "Webhook", Category: "Triggers", Description: "Fires on an incoming HTTP call"},
			{Key: "HttpRequest", Label: "HTTP Request", Category: "Actions", Description: "Calls an HTTP endpoint"},
			{Key: "Email", Label: "Send Email", Category: "Actions", Description: "Sends an email"},
			{Key: "Condition", Label: "Condition", Category: "Logic", Description: "Branches on an expression"},
			{Key: "Transform", Label: "Transform", Category: "Logic", Description: "Reshapes data"},
			{Key: "Logger", Label: "Logger", Category: "Utilities", Description: "Writes to the run log"},
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error when path is empty. Components listed in
// the file replace the built-in catalog.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var file Config
		md, err := toml.DecodeFile(path, &file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("config: %s not found", path)
			}
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return Config{}, fmt.Errorf("config: unknown key %q in %s", undec[0].String(), path)
		}
		merge(&cfg, file)
	}
	applyEnv(&cfg, os.Getenv)
	return cfg, cfg.validate()
}

func merge(dst *Config, src Config) {
	if src.Server.Addr != "" {
		dst.Server.Addr = src.Server.Addr
	}
	if src.Database.URL != "" {
		dst.Database.URL = src.Database.URL
	}
	if src.Log.Level != "" {
		dst.Log.Level = src.Log.Level
	}
	if len(src.Components) > 0 {
		dst.Components = src.Components
	}
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c Config) validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log level: %w", err)
	}
	seen := make(map[string]bool, len(c.Components))
	for i, d := range c.Components {
		if d.Key == "" {
			return fmt.Errorf("config: component %d has no key", i)
		}
		if seen[d.Key] {
			return fmt.Errorf("config: duplicate component key %q", d.Key)
		}
		seen[d.Key] = true
	}
	return nil
}

// Level returns the configured log level. Load has already validated it.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Registry builds the component registry from the catalog.
func (c Config) Registry() *workflow.MapRegistry {
	return workflow.NewMapRegistry(c.Components...)
}
