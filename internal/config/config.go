package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	SwaggerHost string
	LogLevel    string

	// BackendDriver selects the GORM dialect of the remote backend (postgres, mysql or sqlite).
	BackendDriver string
	// BackendURL is the DSN of the remote backend.
	BackendURL string
	// BackendKey is the API key of the remote backend; it also signs remote sessions.
	BackendKey string

	JWTSecret string

	RedisAddr string
	RedisDB   int
	RedisPass string

	StorageBucket    string
	StoragePublicURL string
	S3Region         string
	S3Endpoint       string
	S3AccessKey      string
	S3SecretKey      string
}

var defaults = map[string]interface{}{
	"SERVER_PORT":    "8080",
	"LOG_LEVEL":      "info",
	"BACKEND_DRIVER": "postgres",
	"JWT_SECRET":     "change-me",
	"REDIS_DB":       0,
	"STORAGE_BUCKET": "gallery",
	"S3_REGION":      "us-east-1",
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		ServerPort:       v.GetString("SERVER_PORT"),
		SwaggerHost:      v.GetString("SWAGGER_HOST"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		BackendDriver:    strings.ToLower(v.GetString("BACKEND_DRIVER")),
		BackendURL:       strings.TrimSpace(v.GetString("BACKEND_URL")),
		BackendKey:       strings.TrimSpace(v.GetString("BACKEND_KEY")),
		JWTSecret:        v.GetString("JWT_SECRET"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisDB:          v.GetInt("REDIS_DB"),
		RedisPass:        v.GetString("REDIS_PASSWORD"),
		StorageBucket:    v.GetString("STORAGE_BUCKET"),
		StoragePublicURL: strings.TrimRight(v.GetString("STORAGE_PUBLIC_URL"), "/"),
		S3Region:         v.GetString("S3_REGION"),
		S3Endpoint:       v.GetString("S3_ENDPOINT"),
		S3AccessKey:      v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:      v.GetString("S3_SECRET_KEY"),
	}
}

// RemoteConfigured reports whether both backend values needed for remote mode are present.
func (c *Config) RemoteConfigured() bool {
	return c.BackendURL != "" && c.BackendKey != ""
}

// ObjectStorageConfigured reports whether gallery uploads can go to S3.
func (c *Config) ObjectStorageConfigured() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// SessionSecret is the HMAC key for issued tokens: the backend key in remote mode, JWTSecret otherwise.
func (c *Config) SessionSecret(remote bool) string {
	if remote {
		return c.BackendKey
	}
	return c.JWTSecret
}
