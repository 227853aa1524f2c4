package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the optional YAML file applied on top of the environment.
const ConfigFileEnv = "PARALLEL_CONFIG"

type Config struct {
	Server ServerConfig `yaml:"server"`

	// Database Configuration
	Database DatabaseConfig `yaml:"database"`

	MongoDB MongoDBConfig `yaml:"mongodb"`

	NATS NATSConfig `yaml:"nats"`

	Auth AuthConfig `yaml:"auth"`

	Crypto CryptoConfig `yaml:"crypto"`

	// Notification Configuration
	Notification NotificationConfig `yaml:"notification"`

	// Logging Configuration
	Logging LoggingConfig `yaml:"logging"`

	// TimeZone is the IANA zone that decides where a calendar day starts.
	TimeZone string `yaml:"time_zone"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `yaml:"port"`
	Host         string `yaml:"host"`
	ReadTimeout  int    `yaml:"read_timeout"`  // seconds
	WriteTimeout int    `yaml:"write_timeout"` // seconds
	Environment  string `yaml:"environment"`   // development, staging, production
	MediaPort    string `yaml:"media_port"`
	MediaBaseURL string `yaml:"media_base_url"`
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	DatabaseName string `yaml:"database_name"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type MongoDBConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type NATSConfig struct {
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	Issuer    string        `yaml:"issuer"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// CryptoConfig holds the hex encoded 32 byte key used for message content at
// rest. Empty disables encryption.
type CryptoConfig struct {
	MessageKey string `yaml:"message_key"`
}

// NotificationConfig contains notification system configuration
type NotificationConfig struct {
	Workers                int  `yaml:"workers"`                  // Number of worker goroutines
	ChannelBufferSize      int  `yaml:"channel_buffer_size"`      // Channel buffer size
	ScheduledCheckInterval int  `yaml:"scheduled_check_interval"` // Seconds
	Enabled                bool `yaml:"enabled"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level"`       // debug, info, warn, error
	Format     string `yaml:"format"`      // json, text
	OutputPath string `yaml:"output_path"` // stdout, stderr, or file path
}

// LoadConfig reads .env (if present), then the environment, then the YAML file
// named by PARALLEL_CONFIG. Later sources win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnv("APP_ENV", "development"),
			MediaPort:    getEnv("MEDIA_SERVER_PORT", "8081"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("MYSQL_HOST", "localhost"),
			Port:         getEnv("MYSQL_PORT", "3306"),
			Username:     getEnv("MYSQL_USERNAME", "parallel"),
			Password:     getEnv("MYSQL_PASSWORD", "parallel123"),
			DatabaseName: getEnv("MYSQL_DATABASE", "parallel"),
			MaxOpenConns: getEnvAsInt("MYSQL_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("MYSQL_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoDBConfig{
			Host:     getEnv("MONGO_HOST", "localhost"),
			Port:     getEnv("MONGO_PORT", "27017"),
			Username: getEnv("MONGO_USERNAME", ""),
			Password: getEnv("MONGO_PASSWORD", ""),
			Database: getEnv("MONGO_DATABASE", "parallel"),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", "nats://localhost:4222"),
			SubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", "parallel"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", "parallel"),
			TokenTTL:  time.Duration(getEnvAsInt("JWT_TTL_HOURS", 24*30)) * time.Hour,
		},
		Crypto: CryptoConfig{
			MessageKey: getEnv("MESSAGE_KEY", ""),
		},
		Notification: NotificationConfig{
			Workers:                getEnvAsInt("NOTIF_WORKERS", 5),
			ChannelBufferSize:      getEnvAsInt("NOTIF_BUFFER_SIZE", 1000),
			ScheduledCheckInterval: getEnvAsInt("NOTIF_CHECK_INTERVAL", 30),
			Enabled:                getEnvAsBool("NOTIF_ENABLED", true),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "text"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		TimeZone: getEnv("TIME_ZONE", ""),
	}
	cfg.Server.MediaBaseURL = getEnv("MEDIA_BASE_URL", fmt.Sprintf("http://localhost:%s/media", cfg.Server.MediaPort))

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.overlay(path); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *Config) overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	m := cfg.MongoDB
	if m.Username != "" && m.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin", m.Username, m.Password, m.Host, m.Port, m.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s/%s", m.Host, m.Port, m.Database)
}

// Location resolves TimeZone. An empty or unknown zone falls back to time.Local.
func (cfg *Config) Location() *time.Location {
	if cfg.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (cfg *Config) Addr() string {
	return cfg.Server.Host + ":" + cfg.Server.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvAsBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return fallback
}
