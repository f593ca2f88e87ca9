/**
 * @description
 * This file handles configuration management for the application.
 * It uses the 'viper' library to load configuration from environment variables,
 * providing defaults for optional settings and failing fast on missing secrets.
 */
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	ServerPort    string `mapstructure:"SERVER_PORT"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	EncryptionKey string `mapstructure:"ENCRYPTION_KEY"`
	AMQPURL       string `mapstructure:"AMQP_URL"`

	ReminderJobSchedule  string `mapstructure:"REMINDER_JOB_SCHEDULE"`
	FixedTermJobSchedule string `mapstructure:"FIXED_TERM_JOB_SCHEDULE"`
	DefaultLookaheadDays int    `mapstructure:"DEFAULT_LOOKAHEAD_DAYS"`
	TokenTTLHours        int    `mapstructure:"TOKEN_TTL_HOURS"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REMINDER_JOB_SCHEDULE", "0 8 * * *")   // At 08:00 every day.
	viper.SetDefault("FIXED_TERM_JOB_SCHEDULE", "0 1 * * *") // At 01:00 every day.
	viper.SetDefault("DEFAULT_LOOKAHEAD_DAYS", 30)
	viper.SetDefault("TOKEN_TTL_HOURS", 24)
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("ENCRYPTION_KEY")
	_ = viper.BindEnv("AMQP_URL")
	_ = viper.BindEnv("REMINDER_JOB_SCHEDULE")
	_ = viper.BindEnv("FIXED_TERM_JOB_SCHEDULE")
	_ = viper.BindEnv("DEFAULT_LOOKAHEAD_DAYS")
	_ = viper.BindEnv("TOKEN_TTL_HOURS")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(config.EncryptionKey) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes")
	}

	return &config, nil
}
