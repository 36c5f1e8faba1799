// Package config loads mapdeck settings from defaults, an optional TOML
// file and MAPDECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Map   MapConfig
	Tiles TilesConfig
	Panel PanelConfig
	Log   LogConfig
	Otel  OtelConfig
}

// MapConfig holds the initial viewport and style.
type MapConfig struct {
	Latitude        float64
	Zoom            int
	LongitudeSpread float64 `mapstructure:"longitude_spread"`
	StyleFile       string  `mapstructure:"style_file"`
}

// TilesConfig controls raster tile fetching.
type TilesConfig struct {
	Enabled   bool
	Timeout   time.Duration
	UserAgent string `mapstructure:"user_agent"`
}

// PanelConfig holds the defaults for new panels.
type PanelConfig struct {
	PluginEnabled bool `mapstructure:"plugin_enabled"`
	RemoveSources bool `mapstructure:"remove_sources"`
}

// LogConfig selects where and how verbosely to log.
type LogConfig struct {
	File  string
	Level string
}

// OtelConfig configures span export.
type OtelConfig struct {
	Endpoint    string
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool
}

// New returns a viper instance with every default registered and env
// overrides enabled. Callers may bind flags before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("map.latitude", 51.0)
	v.SetDefault("map.zoom", 5)
	v.SetDefault("map.longitude_spread", 10.0)
	v.SetDefault("map.style_file", "")
	v.SetDefault("tiles.enabled", true)
	v.SetDefault("tiles.timeout", 10*time.Second)
	v.SetDefault("tiles.user_agent", "")
	v.SetDefault("panel.plugin_enabled", true)
	v.SetDefault("panel.remove_sources", true)
	v.SetDefault("log.file", filepath.Join(stateDir(), "mapdeck", "mapdeck.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.service_name", "mapdeck")
	v.SetDefault("otel.insecure", true)

	v.SetEnvPrefix("MAPDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (path, or the default location when empty)
// into v and decodes it. A missing default file is not an error; a
// missing explicit file is.
func Load(v *viper.Viper, path string) (Config, error) {
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(configDir(), "mapdeck"))
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the map surface cannot honour.
func (c Config) Validate() error {
	if c.Map.Latitude < -85.0511 || c.Map.Latitude > 85.0511 {
		return fmt.Errorf("map.latitude %v outside web mercator range", c.Map.Latitude)
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 22 {
		return fmt.Errorf("map.zoom %d outside 0..22", c.Map.Zoom)
	}
	if c.Map.LongitudeSpread < 0 || c.Map.LongitudeSpread > 180 {
		return fmt.Errorf("map.longitude_spread %v outside 0..180", c.Map.LongitudeSpread)
	}
	return nil
}

func configDir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return d
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func stateDir() string {
	if d := os.Getenv("XDG_STATE_HOME"); d != "" {
		return d
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state")
}
