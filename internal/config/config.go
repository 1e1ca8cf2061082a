// Package config holds runtime configuration loaded from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full runtime configuration of the service.
type Config struct {
	Addr         string        `envconfig:"ESL_SYNC_ADDR" default:":8080"`
	ReadTimeout  time.Duration `envconfig:"ESL_SYNC_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `envconfig:"ESL_SYNC_WRITE_TIMEOUT" default:"5m"`
	LogFormat    string        `envconfig:"ESL_SYNC_LOG_FORMAT" default:"json" validate:"oneof=json pretty"`

	// Optional API key for inbound requests. Auth is skipped when empty.
	APIKey string `envconfig:"ESL_SYNC_API_KEY"`

	MaxUploadBytes int64 `envconfig:"ESL_SYNC_MAX_UPLOAD_BYTES" default:"33554432" validate:"gt=0"`
	RateLimit      int   `envconfig:"ESL_SYNC_RATE_LIMIT" default:"10" validate:"gt=0"`

	OutputDir   string `envconfig:"ESL_SYNC_OUTPUT_DIR" default:"./data"`
	OutputFile  string `envconfig:"ESL_SYNC_OUTPUT_FILE" default:"mapped.xlsx"`
	CSVEncoding string `envconfig:"ESL_SYNC_CSV_ENCODING" default:"utf-8" validate:"oneof=utf-8 windows-1251"`

	ESLBaseURL     string        `envconfig:"ESL_BASE_URL" required:"true" validate:"required,url"`
	ESLUsername    string        `envconfig:"ESL_BASIC_USER" required:"true" validate:"required"`
	ESLPassword    string        `envconfig:"ESL_BASIC_PASS" required:"true" validate:"required"`
	CustomerCode   string        `envconfig:"ESL_CUSTOMER_CODE" required:"true" validate:"required"`
	StoreCode      string        `envconfig:"ESL_STORE_CODE" required:"true" validate:"required"`
	BatchSize      int           `envconfig:"ESL_BATCH_SIZE" default:"1000" validate:"gt=0"`
	RequestTimeout time.Duration `envconfig:"ESL_REQUEST_TIMEOUT" default:"30s"`

	// The ESL platform in the field runs on a self-signed certificate.
	TLSSkipVerify bool `envconfig:"ESL_TLS_SKIP_VERIFY" default:"true"`

	// Product classes taxed at 9%; everything else is taxed at 6%.
	NinePercentClasses []string `envconfig:"ESL_NINE_PERCENT_CLASSES" default:"APPLE IPHONES,OTHER PHONES,SAMSUNG PHONES,GAMING TITLES"`
}

// Load reads and validates configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}
