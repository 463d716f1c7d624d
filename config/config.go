package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port                  string        `mapstructure:"PORT"`
	Env                   string        `mapstructure:"ENV"`
	LogLevel              string        `mapstructure:"LOG_LEVEL"`
	ClientURL             string        `mapstructure:"CLIENT_URL"`
	MongoURI              string        `mapstructure:"MONGO_URI"`
	DBUser                string        `mapstructure:"DB_USER"`
	DBPassword            string        `mapstructure:"DB_PASSWORD"`
	DBCluster             string        `mapstructure:"DB_CLUSTER"`
	DBName                string        `mapstructure:"DB_NAME"`
	RedisURL              string        `mapstructure:"REDIS_URL"`
	JWTSecret             string        `mapstructure:"JWT_SECRET"`
	JWTTTL                time.Duration `mapstructure:"JWT_TTL"`
	OpenAIAPIKey          string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel           string        `mapstructure:"OPENAI_MODEL"`
	OpenAIBaseURL         string        `mapstructure:"OPENAI_BASE_URL"`
	RosterRefreshSchedule string        `mapstructure:"ROSTER_REFRESH_SCHEDULE"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "CLIENT_URL", "MONGO_URI",
	"DB_USER", "DB_PASSWORD", "DB_CLUSTER", "DB_NAME", "REDIS_URL",
	"JWT_SECRET", "JWT_TTL", "OPENAI_API_KEY", "OPENAI_MODEL",
	"OPENAI_BASE_URL", "ROSTER_REFRESH_SCHEDULE",
}

// Load reads the process environment. The .env file is loaded by the caller
// through godotenv before this runs.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3001")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CLIENT_URL", "http://localhost:3000")
	v.SetDefault("DB_NAME", "caredesk")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("ROSTER_REFRESH_SCHEDULE", "@every 10m")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.MongoURI == "" && c.DBCluster == "" {
		return fmt.Errorf("MONGO_URI or DB_CLUSTER is required")
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// AIEnabled reports whether the symptom relay has a credential.
func (c *Config) AIEnabled() bool {
	return strings.TrimSpace(c.OpenAIAPIKey) != ""
}

// ConnectionString returns MONGO_URI when set, otherwise an Atlas SRV
// string assembled from the DB_* parts.
func (c *Config) ConnectionString() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		Host:     c.DBCluster,
		Path:     "/" + c.DBName,
		RawQuery: "appName=CareDesk",
	}
	if c.DBUser != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	}
	return u.String()
}

// AllowedOrigins splits CLIENT_URL on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.ClientURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
