// Package config loads runtime configuration from an optional YAML
// file and HELIX_* environment variables, with sane defaults for a
// single-node deployment.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Kafka struct {
	Enabled    bool     `mapstructure:"enabled"`
	Brokers    []string `mapstructure:"brokers"`
	TradeTopic string   `mapstructure:"trade_topic"`
	TickTopic  string   `mapstructure:"tick_topic"`
}

type Broadcast struct {
	Interval time.Duration `mapstructure:"interval"`
}

type Config struct {
	LogLevel  string    `mapstructure:"log_level"`
	Listen    string    `mapstructure:"listen"`
	StoreDir  string    `mapstructure:"store_dir"`
	Kafka     Kafka     `mapstructure:"kafka"`
	Broadcast Broadcast `mapstructure:"broadcast"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Listen:   ":8080",
		StoreDir: "data/trades",
		Kafka: Kafka{
			Enabled:    false,
			Brokers:    []string{"localhost:9092"},
			TradeTopic: "helix.trades",
			TickTopic:  "helix.ticks",
		},
		Broadcast: Broadcast{Interval: 500 * time.Millisecond},
	}
}

// Load reads path if non-empty, otherwise searches the working
// directory for helix.yaml. A missing file is not an error; settings
// fall back to defaults and the environment.
func Load(path string) (Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("listen", def.Listen)
	v.SetDefault("store_dir", def.StoreDir)
	v.SetDefault("kafka.enabled", def.Kafka.Enabled)
	v.SetDefault("kafka.brokers", def.Kafka.Brokers)
	v.SetDefault("kafka.trade_topic", def.Kafka.TradeTopic)
	v.SetDefault("kafka.tick_topic", def.Kafka.TickTopic)
	v.SetDefault("broadcast.interval", def.Broadcast.Interval)

	v.SetEnvPrefix("HELIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("helix")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		// An explicitly named file must exist; the default search may
		// come up empty.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
