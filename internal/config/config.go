package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RAILSHOOTER_LOG_LEVEL.
const EnvPrefix = "RAILSHOOTER"

// Config is the runtime configuration of both binaries.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Content ContentConfig `mapstructure:"content"`
	Store   StoreConfig   `mapstructure:"store"`
	Game    GameConfig    `mapstructure:"game"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	HostKeyPath string `mapstructure:"host_key_path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ContentConfig struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

type StoreConfig struct {
	Backend  string         `mapstructure:"backend"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type GameConfig struct {
	Seed    int64  `mapstructure:"seed"`
	Profile string `mapstructure:"profile"`
}

// Defaults.
const (
	DefaultHost        = "::"
	DefaultPort        = "2222"
	DefaultHostKeyPath = "/app/keys/host_key"
)

// Load reads configuration from path (optional; "" skips the file) and the
// environment.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Names used by the container image before the prefixed ones existed.
	_ = v.BindEnv("server.host", EnvPrefix+"_SERVER_HOST", "SSH_HOST")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "SSH_PORT")
	_ = v.BindEnv("server.host_key_path", EnvPrefix+"_SERVER_HOST_KEY_PATH", "SSH_HOST_KEY")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.host_key_path", DefaultHostKeyPath)
	v.SetDefault("log.level", "info")
	v.SetDefault("content.dir", "content")
	v.SetDefault("content.watch", false)
	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.postgres.dsn", "")
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.profile", "local")
}

// Validate rejects unknown backends and log levels.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.Server.Port == "" {
		return errors.New("server port is empty")
	}
	return nil
}

// LogLevel returns the parsed log level, info when unset.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
