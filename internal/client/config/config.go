// Package config holds CLI settings and the persisted login session.
//
// Settings are layered: defaults, then an optional JSON or YAML file (-c or
// -config, otherwise config.yaml in the user config directory), then the
// process environment. Command-line flags defined by the CLI win last.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	gap "github.com/muesli/go-app-paths"
	"gopkg.in/yaml.v3"

	"github.com/natorvoice/natorvoice/internal/flagx"
	"github.com/natorvoice/natorvoice/internal/timex"
)

// AppName scopes the per-user config directory.
const AppName = "natorvoice"

const (
	DefaultServerURL = "http://127.0.0.1:8080"
	DefaultTimeout   = 30 * time.Second
)

// Config holds runtime settings for the NatorVoice CLI.
type Config struct {
	ServerURL   string        `env:"NATORVOICE_SERVER"`
	Timeout     time.Duration `env:"NATORVOICE_TIMEOUT"`
	SessionFile string        `env:"NATORVOICE_SESSION_FILE"`
}

// FileConfig is the on-disk shape of the CLI config file.
type FileConfig struct {
	ServerURL   string         `json:"server_url" yaml:"server_url"`
	Timeout     timex.Duration `json:"timeout" yaml:"timeout"`
	SessionFile string         `json:"session_file" yaml:"session_file"`
}

// scope is a test seam for the per-user directory lookup.
var scope = gap.NewScope(gap.User, AppName)

// LoadDefaults populates c with defaults. The session file lives in the user
// config directory; an empty SessionFile disables persistence.
func (c *Config) LoadDefaults() {
	c.ServerURL = DefaultServerURL
	c.Timeout = DefaultTimeout
	if p, err := scope.ConfigPath("session.json"); err == nil {
		c.SessionFile = p
	}
}

// LoadConfig applies defaults, the config file and the environment.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path := flagx.ConfigFileFlag(args)
	if path == "" {
		path = defaultConfigFile()
	}
	if path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	return cfg, nil
}

// defaultConfigFile returns the first existing config.yaml in the user's
// config directories, or "".
func defaultConfigFile() string {
	found, err := scope.LookupConfig("config.yaml")
	if err != nil || len(found) == 0 {
		return ""
	}
	return found[0]
}

func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	fc := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, fc)
	default:
		err = json.Unmarshal(data, fc)
	}
	if err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}

	if fc.ServerURL != "" {
		cfg.ServerURL = fc.ServerURL
	}
	if fc.Timeout.Duration > 0 {
		cfg.Timeout = fc.Timeout.Duration
	}
	if fc.SessionFile != "" {
		cfg.SessionFile = fc.SessionFile
	}
	return nil
}
