package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL   string        `mapstructure:"api_base_url"`
	WSURL        string        `mapstructure:"ws_url"`
	WireProtocol string        `mapstructure:"wire_protocol"`
	SessionFile  string        `mapstructure:"session_file"`
	ReadLimit    int64         `mapstructure:"read_limit"`
	PingPeriod   time.Duration `mapstructure:"ping_period"`

	InactivityThreshold time.Duration `mapstructure:"inactivity_threshold"`
	NameLockCooldown    time.Duration `mapstructure:"name_lock_cooldown"`
	SweepInterval       time.Duration `mapstructure:"sweep_interval"`
	InviteMarkerTTL     time.Duration `mapstructure:"invite_marker_ttl"`
	ProtectedChannels   []string      `mapstructure:"protected_channels"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("api_base_url", "http://127.0.0.1:3333")
	v.SetDefault("ws_url", "ws://127.0.0.1:3333/adonis-ws")
	v.SetDefault("wire_protocol", "envelope")
	v.SetDefault("session_file", "session.json")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("inactivity_threshold", "720h") // 30 days
	v.SetDefault("name_lock_cooldown", "168h")   // 7 days
	v.SetDefault("sweep_interval", "1h")
	v.SetDefault("invite_marker_ttl", "24h")
	v.SetDefault("protected_channels", []string{"general"})

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
