package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Booking  BookingConfig
	Tax      TaxConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

// BookingConfig tunes the vendor-decision wait and the live stream.
type BookingConfig struct {
	PollInterval    time.Duration
	ResponseTimeout time.Duration
	StreamKeepAlive time.Duration
}

type TaxConfig struct {
	Percentage float64
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("BOOKING_POLL_INTERVAL", "2s")
	viper.SetDefault("BOOKING_RESPONSE_TIMEOUT", "2m")
	viper.SetDefault("STREAM_KEEP_ALIVE", "30s")
	viper.SetDefault("TAX_PERCENTAGE", 5.0)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Booking: BookingConfig{
			PollInterval:    viper.GetDuration("BOOKING_POLL_INTERVAL"),
			ResponseTimeout: viper.GetDuration("BOOKING_RESPONSE_TIMEOUT"),
			StreamKeepAlive: viper.GetDuration("STREAM_KEEP_ALIVE"),
		},
		Tax: TaxConfig{
			Percentage: viper.GetFloat64("TAX_PERCENTAGE"),
		},
	}

	return config, nil
}
