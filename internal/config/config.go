package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type ServerConfig struct {
	Port           string   `envconfig:"PORT" default:"8080"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

type DatabaseConfig struct {
	URL string `envconfig:"DATABASE_URL" required:"true"`
}

type RabbitMQConfig struct {
	User string `envconfig:"RABBITMQ_USER" default:"guest"`
	Pass string `envconfig:"RABBITMQ_PASS" default:"guest"`
	Host string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port string `envconfig:"RABBITMQ_PORT" default:"5672"`
}

type MailConfig struct {
	Host string `envconfig:"MAIL_HOST"`
	Port int    `envconfig:"MAIL_PORT" default:"587"`
	User string `envconfig:"MAIL_USER"`
	Pass string `envconfig:"MAIL_PASS"`
	From string `envconfig:"MAIL_FROM" default:"hello@businessofone.com"`
}

// CRMConfig selects and authenticates the CRM provider. Read once at startup,
// used only at connector construction.
type CRMConfig struct {
	Provider    string `envconfig:"CRM_PROVIDER" default:"hubspot"`
	APIKey      string `envconfig:"CRM_API_KEY"`
	APISecret   string `envconfig:"CRM_API_SECRET"`
	AccessToken string `envconfig:"CRM_ACCESS_TOKEN"`
	PortalID    string `envconfig:"CRM_PORTAL_ID"`
	BaseURL     string `envconfig:"CRM_BASE_URL"`
	Sandbox     bool   `envconfig:"CRM_SANDBOX"`
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Mail     MailConfig
	CRM      CRMConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
