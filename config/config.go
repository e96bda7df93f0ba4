package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Booking BookingConfig `yaml:"booking"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

type StorageConfig struct {
	Driver   string         `yaml:"driver"`
	Path     string         `yaml:"path"`
	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	LockTTLSeconds              int `yaml:"lock_ttl_seconds"`
	AvailabilityCacheTTLSeconds int `yaml:"availability_cache_ttl_seconds"`
}

// Default is the configuration used when no file is present: a JSON file
// store in the working directory and no Redis or Kafka.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{Address: ":8080"},
		Log:  LogConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{
			Driver: StorageDriverFile,
			Path:   "bookings.json",
		},
		Kafka: KafkaConfig{
			BookingTopic: "hotel.bookings",
			GroupID:      "hotel-notifications",
		},
		Booking: BookingConfig{
			LockTTLSeconds:              10,
			AvailabilityCacheTTLSeconds: 60,
		},
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverFile, StorageDriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("config: storage.path is required for driver %q", c.Storage.Driver)
		}
	case StorageDriverPostgres:
		if c.Storage.Database.Host == "" {
			return errors.New("config: storage.database.host is required for driver \"postgres\"")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Booking.LockTTLSeconds < 0 || c.Booking.AvailabilityCacheTTLSeconds < 0 {
		return errors.New("config: booking ttl values must not be negative")
	}
	return nil
}

// LoadConfig reads the YAML file at path over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault is LoadConfig, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Path returns CONFIG_PATH or config.yaml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}
