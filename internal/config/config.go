package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                          string `mapstructure:"PORT"`
	DatabasePath                  string `mapstructure:"DATABASE_PATH"`
	Timezone                      string `mapstructure:"TIMEZONE"`
	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	JWTSecret                     string `mapstructure:"JWT_SECRET"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "fitquest.db")
	viper.SetDefault("TIMEZONE", "UTC")

	viper.BindEnv("PORT")
	viper.BindEnv("DATABASE_PATH")
	viper.BindEnv("TIMEZONE")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	viper.BindEnv("JWT_SECRET")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}

// Location resolves the configured timezone, falling back to UTC. Streaks
// and analytics bucket calendar days in this location.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Invalid TIMEZONE %q, falling back to UTC: %v", c.Timezone, err)
		return time.UTC
	}
	return loc
}
