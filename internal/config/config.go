// Package config loads kidtimer's YAML configuration, applies KIDTIMER_*
// environment overrides and fills secrets from the OS keyring.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/kidtimer/internal/keyring"
	"github.com/abhisek/kidtimer/internal/llm"
	"github.com/abhisek/kidtimer/internal/store"
)

// Config is the full application configuration.
type Config struct {
	// User is the user id the CLI and terminal front-end act as.
	User string `yaml:"user"`
	// Timezone is the IANA zone used for "today" and log date strings.
	// Empty means the local zone.
	Timezone string `yaml:"timezone"`

	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	LLM      llm.Config     `yaml:"llm"`
	Speech   SpeechConfig   `yaml:"speech"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig selects the store backend.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" (default) or "postgres"
	DSN    string `yaml:"dsn"`    // file path / URI for sqlite, conn string for postgres
}

// ServerConfig configures `kidtimer serve`.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig maps API credentials to user ids.
type AuthConfig struct {
	// Tokens maps bearer tokens to user ids.
	Tokens map[string]string `yaml:"tokens"`
	// TrustHeader accepts the X-User-ID header as the caller identity.
	// Only enable behind a proxy that authenticates requests.
	TrustHeader bool `yaml:"trust_header"`
}

// SpeechConfig configures text-to-speech synthesis.
type SpeechConfig struct {
	// Providers is the fallback order. Values: "openai", "gemini", "command".
	Providers   []string      `yaml:"providers"`
	OpenAIModel string        `yaml:"openai_model"`
	OpenAIVoice string        `yaml:"openai_voice"`
	GeminiModel string        `yaml:"gemini_model"`
	GeminiVoice string        `yaml:"gemini_voice"`
	Command     []string      `yaml:"command"` // argv; text is passed on stdin
	Player      []string      `yaml:"player"`  // argv for `play`; "{file}" is the audio path
	Speed       float64       `yaml:"speed"`
	Timeout     time.Duration `yaml:"timeout"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"` // default: next to the config file
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		User: "default",
		Database: DatabaseConfig{
			Driver: store.DriverSQLite,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		LLM: llm.DefaultConfig(),
		Speech: SpeechConfig{
			Providers:   []string{"gemini", "openai", "command"},
			OpenAIModel: "tts-1",
			OpenAIVoice: "nova",
			GeminiModel: "gemini-2.5-flash-preview-tts",
			GeminiVoice: "Kore",
			Command:     []string{"espeak-ng", "--stdout", "-v", "{lang}", "-s", "150"},
			Player:      []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", "{file}"},
			Speed:       0.95,
			Timeout:     20 * time.Second,
		},
	}
}

// DefaultPath resolves the config file path in priority order:
// 1. KIDTIMER_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/kidtimer/config.yaml
// 3. ~/.config/kidtimer/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("KIDTIMER_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "kidtimer", "config.yaml"), nil
}

// Load reads the config file at path (DefaultPath when empty), then applies
// environment overrides and keyring secrets. A missing file at the default
// location is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if cfg.Log.Dir == "" {
		cfg.Log.Dir = filepath.Dir(path)
	}

	cfg.ApplyEnv()
	cfg.ApplySecrets(keyring.Lookup)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from KIDTIMER_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("KIDTIMER_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("KIDTIMER_TZ"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("KIDTIMER_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("KIDTIMER_DB"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("KIDTIMER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("KIDTIMER_TRUST_HEADER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Auth.TrustHeader = b
		}
	}
	if v := os.Getenv("KIDTIMER_SPEECH_PROVIDERS"); v != "" {
		c.Speech.Providers = splitList(v)
	}
	c.LLM.ApplyEnv()
}

// ApplySecrets fills empty API keys and the postgres DSN from lookup,
// which is normally keyring.Lookup. When the selected LLM provider still
// has no key, standard provider env vars are probed.
func (c *Config) ApplySecrets(lookup func(name string) string) {
	for _, p := range []string{llm.ProviderAnthropic, llm.ProviderOpenAI, llm.ProviderGemini, llm.ProviderOpenRouter} {
		probe := c.LLM
		probe.Provider = p
		if probe.APIKey() != "" {
			continue
		}
		if v := lookup(p); v != "" {
			c.LLM.SetAPIKey(p, v)
		}
	}
	if c.Database.Driver == store.DriverPostgres && c.Database.DSN == "" {
		c.Database.DSN = lookup(keyring.DatabaseKey)
	}

	if c.LLM.APIKey() == "" && c.LLM.Provider != llm.ProviderMock {
		if found, ok := llm.DiscoverConfig(); ok {
			c.LLM.Provider = found.Provider
			c.LLM.SetAPIKey(found.Provider, found.APIKey())
		}
	}
}

// Validate checks settings that would otherwise fail late.
func (c Config) Validate() error {
	if strings.TrimSpace(c.User) == "" {
		return errors.New("config: user must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.Database.Driver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Driver == store.DriverPostgres && c.Database.DSN == "" {
		return errors.New("config: postgres requires database.dsn, KIDTIMER_DB or `kidtimer secrets set database`")
	}
	for _, p := range c.Speech.Providers {
		switch p {
		case "openai", "gemini", "command":
		default:
			return fmt.Errorf("config: unknown speech provider %q", p)
		}
	}
	return nil
}

// Location returns the configured time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DatabaseDSN returns the DSN to open, defaulting to the SQLite file under
// the XDG data directory.
func (c Config) DatabaseDSN() (string, error) {
	if c.Database.DSN != "" {
		if c.Database.Driver == store.DriverSQLite && !strings.HasPrefix(c.Database.DSN, "file:") {
			if err := store.EnsureDir(c.Database.DSN); err != nil {
				return "", fmt.Errorf("create database dir: %w", err)
			}
		}
		return c.Database.DSN, nil
	}
	return store.DefaultDBPath()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
