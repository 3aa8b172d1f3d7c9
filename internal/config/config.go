package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

const defaultMaxFileSize = 5 * 1024 * 1024

type Config struct {
	APIPort     int    `env:"API_PORT,default=8080"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	Environment string `env:"APP_ENV,default=development"`

	UploadDir   string `env:"UPLOAD_DIR,default=./uploads"`
	MaxFileSize int64  `env:"MAX_FILE_SIZE,default=5242880"`

	NovuAPIKey string `env:"NOVU_API_KEY,required=true"`
	NovuAPIURL string `env:"NOVU_API_URL,default=https://api.novu.co/v1"`

	RecipientsFile string `env:"RECIPIENTS_FILE,default=./data/alert_receivers.json"`
	ProductsFile   string `env:"PRODUCTS_FILE,default=./data/product_details.json"`

	DatabaseDSN string `env:"DATABASE_DSN,required=true"`

	RedisURL           string `env:"REDIS_URL"`
	DispatchRatePerSec int    `env:"DISPATCH_RATE_PER_SEC,default=100"`

	PredictionAPIURL string `env:"PREDICTION_API_URL"`

	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET,default=pdfstorage"`
	S3Region    string `env:"S3_REGION,default=us-east-1"`
	S3UseSSL    bool   `env:"S3_USE_SSL,default=true"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = defaultMaxFileSize
	}
	return &cfg, nil
}

// IsProduction gates error verbosity in HTTP responses.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
