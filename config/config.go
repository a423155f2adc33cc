package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Cloudinary CloudinaryConfig
	Dashboard  DashboardConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	Env            string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver string
	URL    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// CacheTTL bounds how long a feedback snapshot is served from redis
	CacheTTL time.Duration
}

type CloudinaryConfig struct {
	URL    string
	Folder string
}

type DashboardConfig struct {
	PageSize        int
	RefreshInterval time.Duration
}

type LogConfig struct {
	Level string
}

var AppConfig *Config

// Load reads the environment into AppConfig
func Load() {
	AppConfig = FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_URL", "")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CACHE_TTL_SECONDS", 5)

	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("CLOUDINARY_FOLDER", "civic-feedback")

	v.SetDefault("DASHBOARD_PAGE_SIZE", 5)
	v.SetDefault("DASHBOARD_REFRESH_SECONDS", 10)

	v.SetDefault("LOG_LEVEL", "info")
	return v
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) *Config {
	pageSize := v.GetInt("DASHBOARD_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 5
	}
	refresh := v.GetInt("DASHBOARD_REFRESH_SECONDS")
	if refresh <= 0 {
		refresh = 10
	}

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			Env:            v.GetString("APP_ENV"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Driver: v.GetString("DB_DRIVER"),
			URL:    v.GetString("DB_URL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CacheTTL: time.Duration(v.GetInt("REDIS_CACHE_TTL_SECONDS")) * time.Second,
		},
		Cloudinary: CloudinaryConfig{
			URL:    v.GetString("CLOUDINARY_URL"),
			Folder: v.GetString("CLOUDINARY_FOLDER"),
		},
		Dashboard: DashboardConfig{
			PageSize:        pageSize,
			RefreshInterval: time.Duration(refresh) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
