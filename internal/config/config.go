package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server Server `mapstructure:"server"`
	AWS    AWS    `mapstructure:"aws"`
	Tables Tables `mapstructure:"tables"`
	Auth   Auth   `mapstructure:"auth"`
	Notify Notify `mapstructure:"notify"`
}

type Server struct {
	Addr             string `mapstructure:"addr"`
	MetricsNamespace string `mapstructure:"metricsNamespace"`
}

type AWS struct {
	Region string `mapstructure:"region"`
}

type Tables struct {
	Users     string `mapstructure:"users"`
	Customers string `mapstructure:"customers"`
	Products  string `mapstructure:"products"`
	Orders    string `mapstructure:"orders"`
	Settings  string `mapstructure:"settings"`
}

type Auth struct {
	JWTSecret string        `mapstructure:"jwtSecret"`
	JWTExpiry time.Duration `mapstructure:"jwtExpiry"`
}

type Notify struct {
	QueueURL    string `mapstructure:"queueUrl"`
	SenderEmail string `mapstructure:"senderEmail"`
	SenderName  string `mapstructure:"senderName"`
	FrontendURL string `mapstructure:"frontendUrl"`
}

// Load reads configuration from an optional config.yaml and TRENDORA_*
// environment variables. Every knob except the JWT secret has a default.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("/etc/trendora/")

	v.SetEnvPrefix("TRENDORA")
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metricsNamespace", "Trendora/Orders")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("tables.users", "trendora-users")
	v.SetDefault("tables.customers", "trendora-customers")
	v.SetDefault("tables.products", "trendora-products")
	v.SetDefault("tables.orders", "trendora-orders")
	v.SetDefault("tables.settings", "trendora-settings")
	v.SetDefault("auth.jwtExpiry", 7*24*time.Hour)
	v.SetDefault("notify.senderEmail", "support@trendora.example")
	v.SetDefault("notify.senderName", "Trendora Support")
	v.SetDefault("notify.frontendUrl", "http://localhost:3000")

	// env-only overrides for flat deployment variables
	_ = v.BindEnv("aws.region", "TRENDORA_AWS_REGION")
	_ = v.BindEnv("auth.jwtSecret", "TRENDORA_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("notify.queueUrl", "TRENDORA_QUEUE_URL", "NOTIFICATIONS_QUEUE_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RequireAuthSecret enforces the one knob without a default. The API refuses
// to start without it; the worker never needs it.
func (c *Config) RequireAuthSecret() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: auth.jwtSecret (TRENDORA_JWT_SECRET) is required")
	}
	return nil
}
