package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port                string `mapstructure:"PORT"`
	DatabasePath        string `mapstructure:"DATABASE_PATH"`
	JWTSecret           string `mapstructure:"JWT_SECRET"`
	DiscordClientID     string `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret string `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL  string `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordGuildID      string `mapstructure:"DISCORD_GUILD_ID"`
	DiscordBotToken     string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordStaffChannel string `mapstructure:"DISCORD_STAFF_CHANNEL_ID"`
	RedisAddr           string `mapstructure:"REDIS_ADDR"`
	SearchRateLimit     int    `mapstructure:"SEARCH_RATE_LIMIT"`
	SheetsDir           string `mapstructure:"SHEETS_DIR"`
	FrontendURL         string `mapstructure:"FRONTEND_URL"`
	EnableCORS          bool   `mapstructure:"ENABLE_CORS"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "classtrack.db")
	viper.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:8080/auth/discord/callback")
	viper.SetDefault("FRONTEND_URL", "http://127.0.0.1:4000")
	viper.SetDefault("SEARCH_RATE_LIMIT", 60)
	viper.SetDefault("SHEETS_DIR", "signin-sheets")

	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("DISCORD_CLIENT_ID")
	viper.BindEnv("DISCORD_CLIENT_SECRET")
	viper.BindEnv("DISCORD_GUILD_ID")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_STAFF_CHANNEL_ID")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("SEARCH_RATE_LIMIT")
	viper.BindEnv("SHEETS_DIR")
	viper.BindEnv("FRONTEND_URL")
	viper.BindEnv("ENABLE_CORS")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}
