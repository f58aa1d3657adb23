package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := Default()
	if cfg.LogLevel != def.LogLevel || cfg.Listen != def.Listen {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Broadcast.Interval != 500*time.Millisecond {
		t.Fatalf("interval = %v", cfg.Broadcast.Interval)
	}
	if cfg.Kafka.Enabled {
		t.Fatal("kafka should default to disabled")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helix.yaml")
	body := `
log_level: debug
listen: ":9090"
kafka:
  enabled: true
  brokers: ["kafka-1:9092", "kafka-2:9092"]
  trade_topic: trades.v2
broadcast:
  interval: 2s
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.Listen != ":9090" {
		t.Fatalf("file values ignored: %+v", cfg)
	}
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) != 2 {
		t.Fatalf("kafka config: %+v", cfg.Kafka)
	}
	if cfg.Kafka.TradeTopic != "trades.v2" {
		t.Fatalf("trade topic = %s", cfg.Kafka.TradeTopic)
	}
	if cfg.Kafka.TickTopic != "helix.ticks" {
		t.Fatalf("unset key lost its default: %s", cfg.Kafka.TickTopic)
	}
	if cfg.Broadcast.Interval != 2*time.Second {
		t.Fatalf("interval = %v", cfg.Broadcast.Interval)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("explicit missing file should error")
	}
}
