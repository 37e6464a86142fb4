package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"weekly-tracker/pkg/logger"
)

const dotenvFilename = ".env"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	HTTPPort           string
	Env                string
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
	MetricsEnabled     bool
	DB                 DBConfig
}

type DBConfig struct {
	Driver          string
	SQLitePath      string
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Load reads the environment, falling back to the nearest .env file and then
// to defaults. Variables already set in the environment win over .env.
func Load(log logger.Logger) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path, ok := findDotEnv(dotenvFilename); ok {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
		log.Info("config: loaded .env", "path", path)
	}

	cfg := Config{
		HTTPPort:           v.GetString("http_port"),
		Env:                v.GetString("env"),
		RequestTimeout:     v.GetDuration("http_request_timeout"),
		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		MetricsEnabled:     v.GetBool("metrics_enabled"),
		DB: DBConfig{
			Driver:          strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
			SQLitePath:      v.GetString("sqlite_path"),
			DSN:             v.GetString("db_dsn"),
			Host:            v.GetString("db_host"),
			Port:            v.GetString("db_port"),
			User:            v.GetString("db_user"),
			Password:        v.GetString("db_password"),
			Name:            v.GetString("db_name"),
			SSLMode:         v.GetString("db_sslmode"),
			TimeZone:        v.GetString("db_timezone"),
			MaxOpenConns:    v.GetInt("db_max_open_conns"),
			MaxIdleConns:    v.GetInt("db_max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db_conn_max_lifetime"),
		},
	}

	switch cfg.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("http_request_timeout", 60*time.Second)
	v.SetDefault("cors_allowed_origins", "http://localhost:5173,http://127.0.0.1:5173")
	v.SetDefault("metrics_enabled", true)

	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("sqlite_path", "./schedule_tracker.db")
	v.SetDefault("db_dsn", "")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "weekly_tracker")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_timezone", "UTC")
	v.SetDefault("db_max_open_conns", 10)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime", 30*time.Minute)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func findDotEnv(filename string) (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
