// Package config loads viewkit settings from viewkit.yaml and VIEWKIT_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

const (
	// FileName is the config file name searched for when no path is given.
	FileName  = "viewkit"
	EnvPrefix = "VIEWKIT"
)

// Config is the application level configuration.
type Config struct {
	Templates TemplatesConfig `mapstructure:"templates"`
	View      ViewConfig      `mapstructure:"view"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	I18n      I18nConfig      `mapstructure:"i18n"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

// TemplatesConfig lists template roots in search order.
type TemplatesConfig struct {
	Roots     []string `mapstructure:"roots"`
	Extension string   `mapstructure:"extension"`
	CacheSize int      `mapstructure:"cache_size"`
}

// ViewConfig holds view defaults.
type ViewConfig struct {
	Layout           string   `mapstructure:"layout"`
	Helpers          []string `mapstructure:"helpers"`
	HelperNamespaces []string `mapstructure:"helper_namespaces"`
	CellNamespaces   []string `mapstructure:"cell_namespaces"`
}

// SourcesConfig points at data-source definition files and OpenAPI documents.
type SourcesConfig struct {
	Definitions []string `mapstructure:"definitions"`
	OpenAPI     []string `mapstructure:"openapi"`
}

// I18nConfig configures label translation.
type I18nConfig struct {
	Locale       string `mapstructure:"locale"`
	Fallback     string `mapstructure:"fallback"`
	Translations string `mapstructure:"translations"`
}

// ServerConfig configures the demo server.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig configures the default logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Templates: TemplatesConfig{
			Roots:     []string{"templates"},
			Extension: ".tpl",
			CacheSize: 256,
		},
		View: ViewConfig{
			Layout:  "default",
			Helpers: []string{"Form"},
		},
		I18n: I18nConfig{
			Locale:   "en",
			Fallback: "en",
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads configuration from path, or from viewkit.yaml in "." or
// "./config" when path is empty. A missing default file is not an error.
// Environment variables such as VIEWKIT_VIEW_LAYOUT override file values.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path = strings.TrimSpace(path)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", configName(path), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg.normalize()
}

// SlogLevel parses the configured log level.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c Config) normalize() (Config, error) {
	c.Templates.Roots = compact(c.Templates.Roots)
	if len(c.Templates.Roots) == 0 {
		return Config{}, errors.New("config: templates.roots must name at least one directory")
	}
	ext := strings.TrimSpace(c.Templates.Extension)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	c.Templates.Extension = ext
	c.View.Helpers = compact(c.View.Helpers)
	c.View.HelperNamespaces = compact(c.View.HelperNamespaces)
	c.View.CellNamespaces = compact(c.View.CellNamespaces)
	c.Sources.Definitions = compact(c.Sources.Definitions)
	c.Sources.OpenAPI = compact(c.Sources.OpenAPI)
	return c, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("templates.roots", cfg.Templates.Roots)
	v.SetDefault("templates.extension", cfg.Templates.Extension)
	v.SetDefault("templates.cache_size", cfg.Templates.CacheSize)
	v.SetDefault("view.layout", cfg.View.Layout)
	v.SetDefault("view.helpers", cfg.View.Helpers)
	v.SetDefault("view.helper_namespaces", []string{})
	v.SetDefault("view.cell_namespaces", []string{})
	v.SetDefault("sources.definitions", []string{})
	v.SetDefault("sources.openapi", []string{})
	v.SetDefault("i18n.locale", cfg.I18n.Locale)
	v.SetDefault("i18n.fallback", cfg.I18n.Fallback)
	v.SetDefault("i18n.translations", "")
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("log.level", cfg.Log.Level)
}

func compact(values []string) []string {
	var out []string
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func configName(path string) string {
	if path == "" {
		return FileName + ".yaml"
	}
	return path
}
