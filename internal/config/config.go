package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Twitter  TwitterConfig  `yaml:"twitter"`
	Poll     PollConfig     `yaml:"poll"`
	Server   ServerConfig   `yaml:"server"`
	LogLevel string         `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RabbitMQConfig configures the optional post publisher. An empty URL
// disables publishing entirely.
type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

// TwitterConfig configures the upstream feed API client. Either Username or
// UserID must be set; APIKey is always required.
type TwitterConfig struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"`
	Username       string        `yaml:"username"`
	UserID         string        `yaml:"user_id"`
	IncludeReplies bool          `yaml:"include_replies"`
	Timeout        time.Duration `yaml:"timeout"`
	Retry          RetryConfig   `yaml:"retry"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// PollConfig configures the ingestion pipeline and its scheduler.
// BackfillMaxPages bounds the first-ever run, MaxPages every later run.
type PollConfig struct {
	Interval         time.Duration `yaml:"interval"`
	BackfillMaxPages int           `yaml:"backfill_max_pages"`
	MaxPages         int           `yaml:"max_pages"`
	Classifier       string        `yaml:"classifier"`
	CronSecret       string        `yaml:"cron_secret"`
}

type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "tweet_tracker"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "posts"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "tracked_posts"
	}
	if c.Twitter.BaseURL == "" {
		c.Twitter.BaseURL = "https://api.twitterapi.io/twitter/user/last_tweets"
	}
	if c.Twitter.Timeout == 0 {
		c.Twitter.Timeout = 30 * time.Second
	}
	if c.Twitter.Retry.MaxAttempts == 0 {
		c.Twitter.Retry.MaxAttempts = 3
	}
	if c.Twitter.Retry.InitialBackoff == 0 {
		c.Twitter.Retry.InitialBackoff = 1 * time.Second
	}
	if c.Twitter.Retry.MaxBackoff == 0 {
		c.Twitter.Retry.MaxBackoff = 30 * time.Second
	}
	if c.Poll.Interval == 0 {
		c.Poll.Interval = time.Hour
	}
	if c.Poll.BackfillMaxPages == 0 {
		c.Poll.BackfillMaxPages = 1000
	}
	if c.Poll.MaxPages == 0 {
		c.Poll.MaxPages = 5
	}
	if c.Poll.Classifier == "" {
		c.Poll.Classifier = "metadata"
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
