package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/redistiming/internal/core/observability/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the file format read by cmd/probe. The reporting cadence is
// fixed and has no setting.
type Config struct {
	Log   LogConfig   `yaml:"log"`
	Redis RedisConfig `yaml:"redis"`
	Probe ProbeConfig `yaml:"probe"`
}

type LogConfig struct {
	Level    string   `yaml:"level"`
	Encoding string   `yaml:"encoding"`
	Outputs  []string `yaml:"outputs,omitempty"`
}

type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Username     string        `yaml:"username,omitempty"`
	Password     string        `yaml:"password,omitempty"`
	DB           int           `yaml:"db"`
	PoolSize     int           `yaml:"pool_size,omitempty"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type ProbeConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Workers   int           `yaml:"workers"`
	Interval  time.Duration `yaml:"interval"`
	Keyspace  uint64        `yaml:"keyspace"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
			Outputs:  []string{"stderr"},
		},
		Redis: RedisConfig{
			Addr:         "127.0.0.1:6379",
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Probe: ProbeConfig{
			Enabled:   true,
			Workers:   4,
			Interval:  100 * time.Millisecond,
			Keyspace:  1024,
			KeyPrefix: "probe",
			TTL:       5 * time.Minute,
		},
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return LoadYAML(f)
}

// LoadYAML decodes r on top of Default and validates the result. An empty
// document yields Default.
func LoadYAML(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	switch c.Log.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: log.encoding %q", ErrInvalidConfig, c.Log.Encoding)
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required", ErrInvalidConfig)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("%w: redis.db must not be negative", ErrInvalidConfig)
	}
	if !c.Probe.Enabled {
		return nil
	}
	if c.Probe.Workers <= 0 {
		return fmt.Errorf("%w: probe.workers must be positive", ErrInvalidConfig)
	}
	if c.Probe.Interval <= 0 {
		return fmt.Errorf("%w: probe.interval must be positive", ErrInvalidConfig)
	}
	if c.Probe.Keyspace == 0 {
		return fmt.Errorf("%w: probe.keyspace must be positive", ErrInvalidConfig)
	}
	if c.Probe.KeyPrefix == "" {
		return fmt.Errorf("%w: probe.key_prefix is required", ErrInvalidConfig)
	}
	if c.Probe.TTL < 0 {
		return fmt.Errorf("%w: probe.ttl must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Logger converts the log section for log.NewWithConfig.
func (c LogConfig) Logger() (log.Config, error) {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return log.Config{}, err
	}
	return log.Config{
		Level:       level,
		Encoding:    c.Encoding,
		OutputPaths: c.Outputs,
	}, nil
}

// Options converts the redis section for redis.NewClient.
func (c RedisConfig) Options() *redis.Options {
	return &redis.Options{
		Addr:         c.Addr,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}
