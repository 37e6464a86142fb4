package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"weekly-tracker/internal/localstore"
)

const (
	BackendLocal  = "local"
	BackendRemote = "remote"

	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMemory = "memory"

	envPrefix = "TRACKER"
)

type Settings struct {
	Store StoreSettings `mapstructure:"store"`
	Log   LogSettings   `mapstructure:"log"`
}

type StoreSettings struct {
	Backend string         `mapstructure:"backend"`
	Local   LocalSettings  `mapstructure:"local"`
	Redis   RedisSettings  `mapstructure:"redis"`
	Remote  RemoteSettings `mapstructure:"remote"`
}

type LocalSettings struct {
	Storage string `mapstructure:"storage"`
	Dir     string `mapstructure:"dir"`
	Key     string `mapstructure:"key"`
}

type RedisSettings struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RemoteSettings struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfigPath returns ~/.config/weekly-tracker/config.yaml, or
// ./config.yaml when the home directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "weekly-tracker", "config.yaml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "weekly-tracker")
	}
	return filepath.Join(home, ".local", "share", "weekly-tracker")
}

// LoadSettings reads the YAML file at path and overlays TRACKER_* env vars,
// e.g. TRACKER_STORE_BACKEND. A missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := settings.validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.backend", BackendLocal)
	v.SetDefault("store.local.storage", StorageFile)
	v.SetDefault("store.local.dir", defaultDataDir())
	v.SetDefault("store.local.key", localstore.DefaultKey)
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.remote.base_url", "http://localhost:8080/api")
	v.SetDefault("store.remote.timeout", 10*time.Second)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

func (s Settings) validate() error {
	switch s.Store.Backend {
	case BackendLocal:
	case BackendRemote:
		if strings.TrimSpace(s.Store.Remote.BaseURL) == "" {
			return fmt.Errorf("store.remote.base_url is required for the remote backend")
		}
		return nil
	default:
		return fmt.Errorf("unsupported store.backend %q", s.Store.Backend)
	}

	switch s.Store.Local.Storage {
	case StorageFile, StorageRedis, StorageMemory:
		return nil
	default:
		return fmt.Errorf("unsupported store.local.storage %q", s.Store.Local.Storage)
	}
}
