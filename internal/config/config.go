package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"conversions" validate:"required"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address         string `envconfig:"CAD_CONVERTER_ADDRESS" default:":8080"`
	MetricsAddress  string `envconfig:"CAD_CONVERTER_METRICS_ADDRESS" default:":8081"`
	LogLevel        string `envconfig:"CAD_CONVERTER_LOG_LEVEL" default:"info"`
	MigrationFolder string `envconfig:"CAD_CONVERTER_MIGRATIONS_FOLDER" default:""`

	CadService  cadServiceConfig
	MaskService maskServiceConfig
	S3          s3Config
	Kafka       kafkaConfig
}

type cadServiceConfig struct {
	URL     string        `envconfig:"CAD_SERVICE_URL" validate:"required,url"`
	Timeout time.Duration `envconfig:"CAD_SERVICE_TIMEOUT" default:"300s"`
}

// maskServiceConfig is reserved. The mask/preprocessing service runs upstream
// of this service and is never dialed from here.
type maskServiceConfig struct {
	URL string `envconfig:"MASK_SERVICE_URL" default:""`
}

type s3Config struct {
	Endpoint      string `envconfig:"CAD_CONVERTER_S3_ENDPOINT" validate:"required"`
	Bucket        string `envconfig:"CAD_CONVERTER_S3_BUCKET" default:"cad-models" validate:"required"`
	AccessKey     string `envconfig:"CAD_CONVERTER_S3_ACCESS_KEY" validate:"required"`
	SecretKey     string `envconfig:"CAD_CONVERTER_S3_SECRET_KEY" validate:"required"`
	UseSSL        bool   `envconfig:"CAD_CONVERTER_S3_USE_SSL" default:"false"`
	PublicBaseURL string `envconfig:"CAD_CONVERTER_S3_PUBLIC_BASE_URL" default:""`
}

type kafkaConfig struct {
	Brokers  []string `envconfig:"CAD_CONVERTER_KAFKA_BROKERS" default:""`
	Topic    string   `envconfig:"CAD_CONVERTER_KAFKA_TOPIC" default:""`
	ClientID string   `envconfig:"CAD_CONVERTER_KAFKA_CLIENT_ID" default:"cad-converter"`
}

// New reads the configuration from the environment and validates it. Missing
// required values are a startup-time fatal condition for the callers.
func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewDefault returns a configuration suitable for tests: an in-memory sqlite
// store and placeholder endpoints.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: ":memory:",
		},
		Service: &svcConfig{
			Address:        ":8080",
			MetricsAddress: ":8081",
			LogLevel:       "info",
			CadService: cadServiceConfig{
				URL:     "http://localhost:9000",
				Timeout: 300 * time.Second,
			},
			S3: s3Config{
				Endpoint:  "localhost:9001",
				Bucket:    "cad-models",
				AccessKey: "test",
				SecretKey: "test",
			},
		},
	}
}

func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
