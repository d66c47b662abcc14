package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
name: l1feed-test
symbols: [A, F]
feed:
  type: file
  path: /data/events.log
pipeline:
  buffer: 256
quotes:
  csv_path: /data/quotes.csv
  encoding: proto
  kafka:
    brokers: [localhost:9092]
    topic: quotes.l1
  nats:
    url: nats://localhost:4222
    subject: quotes
  outbox_dir: /data/outbox
  broadcast_interval: 500ms
trades:
  kafka:
    brokers: [localhost:9092]
    topic: trades
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "l1feed-test", cfg.Name)
	assert.Equal(t, []string{"A", "F"}, cfg.Symbols)
	assert.Equal(t, "/data/events.log", cfg.Feed.Path)
	assert.Equal(t, 256, cfg.Pipeline.Buffer)
	assert.Equal(t, "proto", cfg.Quotes.Encoding)
	assert.True(t, cfg.Quotes.Kafka.Enabled())
	assert.Equal(t, "quotes.l1", cfg.Quotes.Kafka.Topic)
	assert.True(t, cfg.Quotes.NATS.Enabled())
	assert.Equal(t, 500*time.Millisecond, cfg.Quotes.Interval.Std())
	assert.True(t, cfg.Trades.Kafka.Enabled())
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
feed:
  path: events.log
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "l1feed", cfg.Name)
	assert.Equal(t, "file", cfg.Feed.Type)
	assert.Equal(t, 1024, cfg.Pipeline.Buffer)
	assert.Equal(t, "json", cfg.Quotes.Encoding)
	assert.Equal(t, 250*time.Millisecond, cfg.Quotes.Interval.Std())
	assert.False(t, cfg.Quotes.Kafka.Enabled())
	assert.False(t, cfg.Quotes.NATS.Enabled())
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"file feed without path", "feed:\n  type: file\n"},
		{"ws feed without url", "feed:\n  type: ws\n"},
		{"unknown feed type", "feed:\n  type: ftp\n  path: x\n"},
		{"negative buffer", "feed:\n  path: x\npipeline:\n  buffer: -1\n"},
		{"bad encoding", "feed:\n  path: x\nquotes:\n  encoding: xml\n"},
		{"kafka without topic", "feed:\n  path: x\nquotes:\n  kafka:\n    brokers: [b:9092]\n"},
		{"kafka without outbox", "feed:\n  path: x\nquotes:\n  kafka:\n    brokers: [b:9092]\n    topic: t\n"},
		{"nats without subject", "feed:\n  path: x\nquotes:\n  nats:\n    url: nats://b:4222\n"},
		{"bad duration", "feed:\n  path: x\nquotes:\n  broadcast_interval: soon\n"},
		{"not yaml", "feed: [unclosed\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
