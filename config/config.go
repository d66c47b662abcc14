// Package config loads and validates the YAML runtime configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses YAML strings like "250ms" or "5s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Name     string         `yaml:"name"`
	Symbols  []string       `yaml:"symbols"`
	Feed     FeedConfig     `yaml:"feed"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Quotes   QuotesConfig   `yaml:"quotes"`
	Trades   TradesConfig   `yaml:"trades"`
}

type FeedConfig struct {
	Type string `yaml:"type"` // "file" or "ws"
	Path string `yaml:"path"`
	URL  string `yaml:"url"`
}

type PipelineConfig struct {
	Buffer int `yaml:"buffer"`
}

type QuotesConfig struct {
	CSVPath  string      `yaml:"csv_path"`
	Encoding string      `yaml:"encoding"` // "json" or "proto"
	Kafka    KafkaConfig `yaml:"kafka"`
	NATS     NATSConfig  `yaml:"nats"`
	Outbox   string      `yaml:"outbox_dir"`
	Interval Duration    `yaml:"broadcast_interval"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

func (n NATSConfig) Enabled() bool { return n.URL != "" }

type TradesConfig struct {
	Kafka KafkaConfig `yaml:"kafka"`
}

// Load reads, parses and validates the config file, applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "l1feed"
	}
	if c.Feed.Type == "" {
		c.Feed.Type = "file"
	}
	if c.Pipeline.Buffer == 0 {
		c.Pipeline.Buffer = 1024
	}
	if c.Quotes.Encoding == "" {
		c.Quotes.Encoding = "json"
	}
	if c.Quotes.Interval == 0 {
		c.Quotes.Interval = Duration(250 * time.Millisecond)
	}
}

func (c *Config) Validate() error {
	switch c.Feed.Type {
	case "file":
		if c.Feed.Path == "" {
			return fmt.Errorf("feed type 'file' requires a path")
		}
	case "ws":
		if c.Feed.URL == "" {
			return fmt.Errorf("feed type 'ws' requires a url")
		}
	default:
		return fmt.Errorf("unknown feed type %q (want 'file' or 'ws')", c.Feed.Type)
	}

	if c.Pipeline.Buffer < 1 {
		return fmt.Errorf("pipeline buffer must be positive, got %d", c.Pipeline.Buffer)
	}

	switch c.Quotes.Encoding {
	case "json", "proto":
	default:
		return fmt.Errorf("unknown quote encoding %q (want 'json' or 'proto')", c.Quotes.Encoding)
	}

	if c.Quotes.Kafka.Enabled() {
		if c.Quotes.Kafka.Topic == "" {
			return fmt.Errorf("quotes kafka requires a topic")
		}
		if c.Quotes.Outbox == "" {
			return fmt.Errorf("quotes kafka requires an outbox_dir")
		}
	}
	if c.Quotes.NATS.Enabled() && c.Quotes.NATS.Subject == "" {
		return fmt.Errorf("quotes nats requires a subject")
	}
	if c.Trades.Kafka.Enabled() && c.Trades.Kafka.Topic == "" {
		return fmt.Errorf("trades kafka requires a topic")
	}
	return nil
}
