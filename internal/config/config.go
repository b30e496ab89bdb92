package config

import (
	"strings"
	"time"

	"fitpro/gym-app/internal/mail"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	SMTP     mail.Config    `mapstructure:"smtp"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	// Path to the SQLite database file; ":memory:" for an in-memory database.
	Path string `mapstructure:"path"`
}

// JWTConfig defines JWT specific configuration. Expiration is parsed from a
// duration string ("168h", "7d" is not valid Go syntax, use hours).
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	// Nested keys map to env vars: server.address -> SERVER_ADDRESS,
	// jwt.expiration -> JWT_EXPIRATION.
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.path", "fitpro.db")
	// Tokens are deliberately long-lived; there is no refresh flow.
	viper.SetDefault("jwt.expiration", "168h")
	viper.SetDefault("smtp.host", "smtp.gmail.com")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.from", "noreply@fitpro.app")

	err = viper.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// Config file is optional; env vars and defaults may be enough.
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
