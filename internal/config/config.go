package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // display.time_zone must resolve on minimal images

	"github.com/spf13/viper"

	"github.com/robalobadob/gumballz/internal/sheet"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Sheet     SheetConfig     `mapstructure:"sheet"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Display   DisplayConfig   `mapstructure:"display"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port" validate:"required,numeric"`
	HandlerTimeout time.Duration `mapstructure:"handler_timeout" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `mapstructure:"pretty"`
}

type SheetConfig struct {
	URL          string        `mapstructure:"url" validate:"required,url"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" validate:"gte=0"`
	SkipHeader   bool          `mapstructure:"skip_header"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

type DisplayConfig struct {
	TimeZone string `mapstructure:"time_zone" validate:"required,timezone"`
}

type DashboardConfig struct {
	SampleSize int `mapstructure:"sample_size" validate:"gte=0"`
}

type AdminConfig struct {
	// JWTSecret enables POST /admin/refresh when non-empty.
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=16"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"server.port":            "PORT",
	"server.handler_timeout": "HANDLER_TIMEOUT",
	"log.level":              "LOG_LEVEL",
	"log.pretty":             "LOG_PRETTY",
	"sheet.url":              "SHEET_CSV_URL",
	"sheet.fetch_timeout":    "SHEET_FETCH_TIMEOUT",
	"sheet.skip_header":      "SHEET_SKIP_HEADER",
	"cache.ttl":              "CACHE_TTL",
	"display.time_zone":      "DISPLAY_TIME_ZONE",
	"dashboard.sample_size":  "DASHBOARD_SAMPLE_SIZE",
	"admin.jwt_secret":       "ADMIN_JWT_SECRET",
}

// configFileName is looked for in the working directory and then in
// $HOME/.config/gumballz when no file is given. It is matched exactly, so an
// extensionless file (such as the built binary) is never read as config.
const configFileName = "gumballz.yaml"

// findConfigFile returns the first existing configFileName, or "".
func findConfigFile() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "gumballz"))
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, configFileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads the optional YAML file, applies defaults and environment
// overrides, and validates the result.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile == "" {
		configFile = findConfigFile()
	}

	v.SetDefault("server.port", "5175")
	v.SetDefault("server.handler_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("sheet.url", sheet.DefaultURL)
	v.SetDefault("sheet.fetch_timeout", 30*time.Second)
	v.SetDefault("sheet.skip_header", false)
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("display.time_zone", "Asia/Ho_Chi_Minh")
	v.SetDefault("dashboard.sample_size", 3)
	v.SetDefault("admin.jwt_secret", "")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("configuration file %s could not be read: %w. Please check the file format and permissions", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves the display time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Display.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
