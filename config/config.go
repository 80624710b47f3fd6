package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Admin    Admin
	Auth     Auth
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Admin holds the single administrative identity. The password is stored as
// a bcrypt hash, never in the clear.
type Admin struct {
	Username     string
	PasswordHash string
}

type Auth struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("TOKEN_TTL_HOURS", 24)

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Admin.Username = viper.GetString("ADMIN_USERNAME")
	config.Admin.PasswordHash = viper.GetString("ADMIN_PASSWORD_HASH")

	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	config.Auth.TokenTTL = time.Duration(viper.GetInt("TOKEN_TTL_HOURS")) * time.Hour

	log.Info().Str("port", config.Server.Port).Str("database", config.Database.Name).Msg("Config loaded")
	return &config, nil
}
