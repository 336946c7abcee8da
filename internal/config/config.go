package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr      string
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPath        string
	SessionStore  string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	LogLevel      string
	OpenAIAPIKey  string

	// Federated sign-in. Disabled unless a public key or a secret is set.
	IdentityClientID  string
	IdentityIssuer    string
	IdentityPublicKey string
	IdentitySecret    string
}

var defaults = map[string]string{
	"HTTP_ADDR":      ":8080",
	"DB_DRIVER":      "mysql",
	"DB_HOST":        "localhost",
	"DB_PORT":        "3306",
	"DB_USER":        "taskuser",
	"DB_PASSWORD":    "taskpassword",
	"DB_NAME":        "task_management",
	"DB_PATH":        "taskboard.db",
	"SESSION_STORE":  "redis",
	"REDIS_HOST":     "localhost",
	"REDIS_PORT":     "6379",
	"SESSION_SECRET": "default-secret-key-change-me",
	"GIN_MODE":       "debug",
	"LOG_LEVEL":      "info",
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range []string{"OPENAI_API_KEY", "IDENTITY_CLIENT_ID", "IDENTITY_ISSUER", "IDENTITY_PUBLIC_KEY", "IDENTITY_SECRET"} {
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv()

	return &Config{
		HTTPAddr:          v.GetString("HTTP_ADDR"),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		DBPath:            v.GetString("DB_PATH"),
		SessionStore:      strings.ToLower(v.GetString("SESSION_STORE")),
		RedisHost:         v.GetString("REDIS_HOST"),
		RedisPort:         v.GetString("REDIS_PORT"),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		GinMode:           v.GetString("GIN_MODE"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		OpenAIAPIKey:      v.GetString("OPENAI_API_KEY"),
		IdentityClientID:  v.GetString("IDENTITY_CLIENT_ID"),
		IdentityIssuer:    v.GetString("IDENTITY_ISSUER"),
		IdentityPublicKey: v.GetString("IDENTITY_PUBLIC_KEY"),
		IdentitySecret:    v.GetString("IDENTITY_SECRET"),
	}, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}
