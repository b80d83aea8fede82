package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Cache  CacheConfig  `mapstructure:"cache" yaml:"cache"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host" yaml:"host"`
	Port           int           `mapstructure:"port" yaml:"port"`
	Username       string        `mapstructure:"username" yaml:"username"`
	Password       string        `mapstructure:"password" yaml:"password"`
	TLS            bool          `mapstructure:"tls" yaml:"tls"`
	Group          string        `mapstructure:"group" yaml:"group"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStderr bool   `mapstructure:"include_stderr" yaml:"include_stderr"`
}

type CacheConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func Load(path string) (*Config, error) {

	if path == "" {
		path = "config.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	v := viper.New()

	// Set Defaults
	v.SetDefault("server.port", 119)
	v.SetDefault("server.connect_timeout", "10s")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("log.path", "gonntp.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stderr", true)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.sqlite_path", "gonntp.db")

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	// Support Environment Variables
	v.SetEnvPrefix("GONNTP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}

	if c.Server.TLS && c.Server.Port == 119 {
		fmt.Fprintln(os.Stderr, "Warning: TLS is enabled but port is set to 119 (standard non-TLS)")
	}

	if (c.Server.Username == "") != (c.Server.Password == "") {
		return errors.New("server.username and server.password must be set together")
	}

	return nil
}
