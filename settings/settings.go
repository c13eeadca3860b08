// Package settings loads lingotray configuration from a YAML file and
// environment variables.
package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ZaguanLabs/lingotray"
	"github.com/ZaguanLabs/lingotray/cache"
)

// Settings is the full application configuration. Values are read by viper
// from a config file or LINGOTRAY_* environment variables; API keys come
// only from their conventional environment variables.
type Settings struct {
	Provider string `mapstructure:"provider"` // "anthropic" or "openai"
	Model    string `mapstructure:"model"`

	AnthropicAPIKey string `mapstructure:"-"`
	OpenAIAPIKey    string `mapstructure:"-"`

	Cache    CacheSettings `mapstructure:"cache"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Sanitize bool          `mapstructure:"sanitize"`
	LogLevel string        `mapstructure:"log_level"`
}

// CacheSettings configures the translation cache.
type CacheSettings struct {
	Enabled    bool          `mapstructure:"enabled"`
	Backend    string        `mapstructure:"backend"` // "memory", "sqlite", "redis"
	MaxEntries int           `mapstructure:"max_entries"`
	TTL        time.Duration `mapstructure:"ttl"`
	Path       string        `mapstructure:"path"` // sqlite database file
	RedisURL   string        `mapstructure:"redis_url"` // e.g. redis://localhost:6379
}

// Load reads settings from configPath (or the default search paths when
// empty) and the environment. A missing config file is not an error; the
// defaults apply.
func Load(configPath string) (*Settings, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("lingotray")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "lingotray"))
		}
	}

	v.SetEnvPrefix("LINGOTRAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("provider", "anthropic")
	v.SetDefault("model", lingotray.DefaultModel)
	v.SetDefault("timeout", lingotray.DefaultRequestTimeout)
	v.SetDefault("sanitize", true)
	v.SetDefault("log_level", "warn")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.max_entries", cache.DefaultMaxEntries)
	v.SetDefault("cache.ttl", cache.DefaultTTL)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}

	s.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	s.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	return &s, nil
}

// APIKey returns the key for the configured provider.
func (s *Settings) APIKey() string {
	switch s.Provider {
	case "openai":
		return s.OpenAIAPIKey
	default:
		return s.AnthropicAPIKey
	}
}

// NewStore builds the configured cache backend. Redis settings require a
// reachable server; memory is the fallback for an unknown backend name.
func (s *Settings) NewStore() (cache.Store, error) {
	switch s.Cache.Backend {
	case "sqlite":
		path := s.Cache.Path
		if path == "" {
			path = defaultSQLitePath()
		}
		return cache.NewSQLiteStore(path, s.Cache.MaxEntries, s.Cache.TTL)
	case "redis":
		return cache.NewRedisStore(cache.RedisConfig{
			URL: s.Cache.RedisURL,
			TTL: s.Cache.TTL,
		})
	default:
		return cache.NewMemoryStore(s.Cache.MaxEntries, s.Cache.TTL), nil
	}
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "lingotray.db"
	}
	return filepath.Join(home, ".config", "lingotray", "cache.db")
}
