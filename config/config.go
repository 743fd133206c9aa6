package config

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds the risk service settings, read from the environment and an optional .env file.
type Config struct {
	Port          string `mapstructure:"PORT"`
	Env           string `mapstructure:"ENV"`
	MongoURL      string `mapstructure:"MONGO_URL"`
	MongoDB       string `mapstructure:"MONGO_DB"`
	BaseURL       string `mapstructure:"BASE_URL"`
	CodeTableFile string `mapstructure:"CODE_TABLE_FILE"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "9000")
	v.SetDefault("ENV", "development")
	v.SetDefault("MONGO_URL", "localhost")
	v.SetDefault("MONGO_DB", "riskservice")
	v.SetDefault("LOG_LEVEL", "info")

	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("MONGO_URL")
	v.BindEnv("MONGO_DB")
	v.BindEnv("BASE_URL")
	v.BindEnv("CODE_TABLE_FILE")
	v.BindEnv("LOG_LEVEL")

	// The .env file is optional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks the port and log level before the server starts.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level: %w", c.LogLevel, err)
	}
	if c.MongoDB == "" {
		return fmt.Errorf("MONGO_DB must not be empty")
	}
	return nil
}
