package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Uploads  UploadConfig
	LogLevel string
}

type ServerConfig struct {
	Port    string
	Timeout time.Duration
}

type DatabaseConfig struct {
	Path string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	TTL time.Duration
}

type UploadConfig struct {
	Dir           string
	DefaultAvatar string
}

func Load() (*Config, error) {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_TIMEOUT", "30s")
	viper.SetDefault("DB_PATH", "forum.db")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SESSION_TTL", "24h")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("DEFAULT_AVATAR", "images/default-avatar.jpg")
	viper.SetDefault("LOG_LEVEL", "info")

	var cfg Config

	cfg.AppEnv = viper.GetString("APP_ENV")
	cfg.Server.Port = viper.GetString("SERVER_PORT")
	cfg.Server.Timeout = viper.GetDuration("SERVER_TIMEOUT")

	cfg.Database.Path = viper.GetString("DB_PATH")

	cfg.Redis.Host = viper.GetString("REDIS_HOST")
	cfg.Redis.Port = viper.GetString("REDIS_PORT")
	cfg.Redis.Password = viper.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = viper.GetInt("REDIS_DB")

	cfg.Session.TTL = viper.GetDuration("SESSION_TTL")

	cfg.Uploads.Dir = viper.GetString("UPLOAD_DIR")
	cfg.Uploads.DefaultAvatar = viper.GetString("DEFAULT_AVATAR")

	cfg.LogLevel = viper.GetString("LOG_LEVEL")

	return &cfg, nil
}
