package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/flagx"
)

// Config holds runtime settings for the CollabNotes CLI.
type Config struct {
	APIBaseURL     string        `env:"COLLABNOTES_API_URL"`
	SessionDBPath  string        `env:"COLLABNOTES_SESSION_DB"`
	RequestTimeout time.Duration `env:"COLLABNOTES_REQUEST_TIMEOUT"`

	// RateLimit caps outbound requests per second; 0 disables the limit.
	RateLimit float64 `env:"COLLABNOTES_RATE_LIMIT"`
	RateBurst int     `env:"COLLABNOTES_RATE_BURST"`

	LogLevel string `env:"LOG_LEVEL"`

	// OTLPEndpoint enables trace export when set.
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `env:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api/v1"
	c.SessionDBPath = defaultSessionDBPath()
	c.RequestTimeout = 15 * time.Second
	c.RateLimit = 10
	c.RateBurst = 20
	c.LogLevel = "warn"
	c.OTLPEndpoint = ""
	c.OTLPInsecure = false
}

// Load builds a Config from defaults, the JSON file, the environment and
// the flags found in args (normally os.Args[1:]). Later sources take
// precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	files := flagx.ParseConfigFiles(args)
	if err := parseJSON(cfg, files.JSON); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, files.Env); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("config: empty API base URL")
	}
	if c.SessionDBPath == "" {
		return fmt.Errorf("config: empty session database path")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("config: negative request timeout %s", c.RequestTimeout)
	}
	return nil
}

func defaultSessionDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "collabnotes-session.db"
	}
	return filepath.Join(dir, "collabnotes", "session.db")
}
