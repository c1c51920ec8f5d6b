// Package config loads stylebot configuration from a yaml file, layering
// defaults underneath and environment overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all stylebot configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Storage  StorageConfig  `yaml:"storage"`
	HTTP     HTTPConfig     `yaml:"http"`
	Menu     MenuConfig     `yaml:"menu"`
	Registry RegistryConfig `yaml:"registry"`
}

// TelegramConfig configures the bot transport.
type TelegramConfig struct {
	Token          string  `yaml:"token"`
	AdminIDs       []int64 `yaml:"admin_ids"`
	PollTimeout    int     `yaml:"poll_timeout_seconds"`
	BroadcastDelay string  `yaml:"broadcast_delay"`
}

// StorageConfig configures the SQLite usage store.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// HTTPConfig configures the health server and the optional keepalive pinger.
type HTTPConfig struct {
	Addr              string `yaml:"addr"`
	KeepaliveURL      string `yaml:"keepalive_url"`
	KeepaliveInterval string `yaml:"keepalive_interval"`
}

// MenuConfig configures style menu presentation.
type MenuConfig struct {
	PageSize int `yaml:"page_size"`
}

// RegistryConfig configures the ephemeral text registry.
type RegistryConfig struct {
	Capacity int `yaml:"capacity"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			PollTimeout:    30,
			BroadcastDelay: "50ms",
		},
		Storage: StorageConfig{
			DatabasePath: "stylebot.db",
		},
		HTTP: HTTPConfig{
			Addr:              ":10000",
			KeepaliveInterval: "10m",
		},
		Menu: MenuConfig{
			PageSize: 10,
		},
		Registry: RegistryConfig{
			Capacity: 4096,
		},
	}
}

// Load reads the yaml config at path on top of the defaults. A missing file
// is not an error: defaults plus environment overrides apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if token := os.Getenv("STYLEBOT_TOKEN"); token != "" {
		c.Telegram.Token = token
	}
	if ids := os.Getenv("STYLEBOT_ADMIN_IDS"); ids != "" {
		c.Telegram.AdminIDs = parseAdminIDs(ids)
	}
	if path := os.Getenv("STYLEBOT_DB_PATH"); path != "" {
		c.Storage.DatabasePath = path
	}
	if addr := os.Getenv("STYLEBOT_HTTP_ADDR"); addr != "" {
		c.HTTP.Addr = addr
	}
	if url := os.Getenv("STYLEBOT_KEEPALIVE_URL"); url != "" {
		c.HTTP.KeepaliveURL = url
	}
	// Render-style platforms hand out the listen port via PORT.
	if port := os.Getenv("PORT"); port != "" {
		c.HTTP.Addr = ":" + port
	}
}

func parseAdminIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue // skip malformed entries rather than failing boot
		}
		ids = append(ids, id)
	}
	return ids
}

// Validate checks the settings needed to serve.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram token required (config telegram.token or STYLEBOT_TOKEN)")
	}
	if c.Menu.PageSize < 1 {
		return fmt.Errorf("menu.page_size must be >= 1, got %d", c.Menu.PageSize)
	}
	if c.Registry.Capacity < 1 {
		return fmt.Errorf("registry.capacity must be >= 1, got %d", c.Registry.Capacity)
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path required")
	}
	return nil
}

// IsAdmin reports whether a chat ID is on the admin list.
func (c *Config) IsAdmin(chatID int64) bool {
	for _, id := range c.Telegram.AdminIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

// GetBroadcastDelay parses the inter-send broadcast delay.
func (c *Config) GetBroadcastDelay() time.Duration {
	d, err := time.ParseDuration(c.Telegram.BroadcastDelay)
	if err != nil || d < 0 {
		return 50 * time.Millisecond
	}
	return d
}

// GetKeepaliveInterval parses the keepalive ping interval.
func (c *Config) GetKeepaliveInterval() time.Duration {
	d, err := time.ParseDuration(c.HTTP.KeepaliveInterval)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}
