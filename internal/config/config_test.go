package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvKeys = []string{
	"SERVER_HOST", "SERVER_PORT", "APP_ENV", "MEDIA_SERVER_PORT", "MEDIA_BASE_URL",
	"MYSQL_HOST", "MYSQL_PORT", "MYSQL_USERNAME", "MYSQL_PASSWORD", "MYSQL_DATABASE",
	"MONGO_HOST", "MONGO_PORT", "MONGO_USERNAME", "MONGO_PASSWORD", "MONGO_DATABASE",
	"NATS_URL", "NATS_SUBJECT_PREFIX", "JWT_SECRET", "JWT_ISSUER", "JWT_TTL_HOURS",
	"MESSAGE_KEY", "NOTIF_WORKERS", "NOTIF_ENABLED", "LOG_LEVEL", "TIME_ZONE", ConfigFileEnv,
}

// clearEnv unsets every key the loader reads and runs the test from an empty
// directory so a developer's .env does not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range testEnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, "parallel", cfg.Database.Username)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, "27017", cfg.MongoDB.Port)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Equal(t, "parallel", cfg.NATS.SubjectPrefix)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5, cfg.Notification.Workers)
	assert.Equal(t, 1000, cfg.Notification.ChannelBufferSize)
	assert.True(t, cfg.Notification.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "http://localhost:8081/media", cfg.Server.MediaBaseURL)
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYSQL_HOST", "db")
	t.Setenv("MYSQL_PORT", "3307")
	t.Setenv("MONGO_HOST", "mongo")
	t.Setenv("NATS_SUBJECT_PREFIX", "couple")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("NOTIF_ENABLED", "false")
	t.Setenv("NOTIF_WORKERS", "not-a-number")
	t.Setenv("TIME_ZONE", "UTC")
	t.Setenv("MEDIA_BASE_URL", "https://cdn.example.com/media")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "3307", cfg.Database.Port)
	assert.Equal(t, "mongo", cfg.MongoDB.Host)
	assert.Equal(t, "couple", cfg.NATS.SubjectPrefix)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Notification.Enabled)
	assert.Equal(t, 5, cfg.Notification.Workers)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, "https://cdn.example.com/media", cfg.Server.MediaBaseURL)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	clearEnv(t)
	require.NoError(t, os.WriteFile(".env", []byte("MYSQL_DATABASE=from_dotenv\n"), 0o644))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", cfg.Database.DatabaseName)
	os.Unsetenv("MYSQL_DATABASE")
}

func TestLoadConfig_YAMLOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYSQL_HOST", "env-host")

	path := filepath.Join(t.TempDir(), "parallel.yaml")
	content := `
database:
  host: yaml-host
auth:
  token_ttl: 90m
time_zone: Asia/Taipei
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv(ConfigFileEnv, path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "yaml-host", cfg.Database.Host)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, "Asia/Taipei", cfg.TimeZone)
}

func TestLoadConfig_BadOverlay(t *testing.T) {
	clearEnv(t)

	t.Setenv(ConfigFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := LoadConfig()
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unclosed"), 0o644))
	t.Setenv(ConfigFileEnv, path)
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestDSN_Generation(t *testing.T) {
	config := &Config{
		Database: DatabaseConfig{
			Host:         "test-host",
			Port:         "3307",
			Username:     "testuser",
			Password:     "testpass",
			DatabaseName: "testdb",
		},
	}

	expected := "testuser:testpass@tcp(test-host:3307)/testdb?charset=utf8mb4&parseTime=True&loc=UTC"
	assert.Equal(t, expected, config.DSN())
}

func TestDSN_WithEmptyHostPort(t *testing.T) {
	config := &Config{
		Database: DatabaseConfig{
			Username:     "testuser",
			Password:     "testpass",
			DatabaseName: "testdb",
		},
	}

	expected := "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=True&loc=UTC"
	assert.Equal(t, expected, config.DSN())
}

func TestGetMongoURI(t *testing.T) {
	withAuth := &Config{MongoDB: MongoDBConfig{Host: "mongo-host", Port: "27017", Username: "u", Password: "p", Database: "media"}}
	assert.Equal(t, "mongodb://u:p@mongo-host:27017/media?authSource=admin", withAuth.GetMongoURI())

	noAuth := &Config{MongoDB: MongoDBConfig{Host: "mongo-host", Port: "27017", Database: "media"}}
	assert.Equal(t, "mongodb://mongo-host:27017/media", noAuth.GetMongoURI())
}

func TestLocation_UnknownZoneFallsBack(t *testing.T) {
	cfg := &Config{TimeZone: "Mars/Olympus_Mons"}
	assert.Equal(t, time.Local, cfg.Location())
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_KEY", "test_value")
	t.Setenv("EMPTY_KEY", "")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BOOL", "YES")

	assert.Equal(t, "test_value", getEnv("TEST_KEY", "default_value"))
	assert.Equal(t, "default_value", getEnv("EMPTY_KEY", "default_value"))
	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 10))
	assert.Equal(t, 10, getEnvAsInt("NON_EXISTENT_INT", 10))
	assert.True(t, getEnvAsBool("TEST_BOOL", false))
	assert.True(t, getEnvAsBool("NON_EXISTENT_BOOL", true))
}
