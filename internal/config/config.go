package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the gateway.
type Config struct {
	Server  Server  `mapstructure:"server"`
	Bridge  Bridge  `mapstructure:"bridge"`
	Gateway Gateway `mapstructure:"gateway"`
	Logger  Logger  `mapstructure:"logger"`
}

// Server holds the HTTP listener configuration.
type Server struct {
	Addr     string `mapstructure:"addr"`
	WSOrigin string `mapstructure:"ws_origin"`
}

// Bridge holds the configuration for the MT5 bridge client. An empty
// base_url leaves the gateway running with the disabled adapter.
type Bridge struct {
	BaseURL        string  `mapstructure:"base_url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Gateway holds trading-layer settings.
type Gateway struct {
	// OffsetSymbol is the reference symbol whose tick time anchors the
	// terminal clock offset.
	OffsetSymbol string `mapstructure:"offset_symbol"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.addr", ":5000")
	viper.SetDefault("server.ws_origin", "*")
	viper.SetDefault("bridge.timeout_seconds", 10)
	viper.SetDefault("bridge.rate_limit", 20)
	viper.SetDefault("bridge.rate_limit_burst", 5)
	viper.SetDefault("gateway.offset_symbol", "XAUUSD")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "json")

	if err = viper.ReadInConfig(); err != nil {
		// A missing config file is fine: defaults plus env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
