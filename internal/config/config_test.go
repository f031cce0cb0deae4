package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  port: 5432
  user: tracker
  password: secret
  dbname: tracker
  sslmode: disable
twitter:
  api_key: abc123
  username: someone
poll:
  interval: 15m
  max_pages: 3
log_level: debug
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "abc123", cfg.Twitter.APIKey)
	assert.Equal(t, 15*time.Minute, cfg.Poll.Interval)
	assert.Equal(t, 3, cfg.Poll.MaxPages)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
twitter:
  api_key: abc123
  username: someone
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "https://api.twitterapi.io/twitter/user/last_tweets", cfg.Twitter.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Twitter.Timeout)
	assert.Equal(t, 3, cfg.Twitter.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Twitter.Retry.InitialBackoff)
	assert.Equal(t, 30*time.Second, cfg.Twitter.Retry.MaxBackoff)
	assert.Equal(t, time.Hour, cfg.Poll.Interval)
	assert.Equal(t, 1000, cfg.Poll.BackfillMaxPages)
	assert.Equal(t, 5, cfg.Poll.MaxPages)
	assert.Equal(t, "metadata", cfg.Poll.Classifier)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "tweet_tracker", cfg.RabbitMQ.Exchange)
	assert.Equal(t, "posts", cfg.RabbitMQ.RoutingKey)
	assert.Equal(t, "tracked_posts", cfg.RabbitMQ.QueueName)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TRACKER_TEST_API_KEY", "from-env")
	t.Setenv("TRACKER_TEST_DB_PASSWORD", "hunter2")

	path := writeConfig(t, `
database:
  password: ${TRACKER_TEST_DB_PASSWORD}
twitter:
  api_key: ${TRACKER_TEST_API_KEY}
  username: someone
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Twitter.APIKey)
	assert.Equal(t, "hunter2", cfg.Database.Password)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDatabaseConfigDSN(t *testing.T) {
	dsn := DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "u",
		Password: "p",
		DBName:   "tracker",
		SSLMode:  "disable",
	}.DSN()

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=tracker sslmode=disable", dsn)
}
