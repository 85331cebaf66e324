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
	Harvest  HarvestConfig  `yaml:"harvest"`
	LogLevel string         `yaml:"log_level"`
}

type RabbitMQConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
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

// HarvestConfig holds per-outlet schedules plus settings shared by every
// adapter's HTTP client. Feed URLs left empty fall back to each adapter's
// production endpoint.
type HarvestConfig struct {
	Timeout    time.Duration `yaml:"timeout"`     // per HTTP request
	RunTimeout time.Duration `yaml:"run_timeout"` // per full outlet pass
	UserAgent  string        `yaml:"user_agent"`

	TechCrunch     OutletConfig `yaml:"techcrunch"`
	Engadget       OutletConfig `yaml:"engadget"`
	Mashable       OutletConfig `yaml:"mashable"`
	CheesecakeLabs OutletConfig `yaml:"cheesecakelabs"`
}

type OutletConfig struct {
	FeedURL  string        `yaml:"feed_url"`
	BaseURL  string        `yaml:"base_url"`
	Interval time.Duration `yaml:"interval"`
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
		c.RabbitMQ.Exchange = "news_harvester"
	}
	if c.RabbitMQ.RoutingKey == "" {
		c.RabbitMQ.RoutingKey = "articles"
	}
	if c.RabbitMQ.QueueName == "" {
		c.RabbitMQ.QueueName = "harvested_articles"
	}
	if c.Harvest.Timeout == 0 {
		c.Harvest.Timeout = 30 * time.Second
	}
	if c.Harvest.RunTimeout == 0 {
		c.Harvest.RunTimeout = 10 * time.Minute
	}
	if c.Harvest.TechCrunch.Interval == 0 {
		c.Harvest.TechCrunch.Interval = 2 * time.Hour
	}
	if c.Harvest.Engadget.Interval == 0 {
		c.Harvest.Engadget.Interval = 2 * time.Hour
	}
	if c.Harvest.Mashable.Interval == 0 {
		c.Harvest.Mashable.Interval = 4 * time.Hour
	}
	if c.Harvest.CheesecakeLabs.Interval == 0 {
		c.Harvest.CheesecakeLabs.Interval = 12 * time.Hour
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
