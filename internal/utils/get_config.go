package utils

import (
	"errors"
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
	"io/fs"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER" envconfig:"DB_USER"`
	DBName     string `yaml:"DB_NAME" envconfig:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD" envconfig:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT" envconfig:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST" envconfig:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE" envconfig:"DB_SSLMODE"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET" envconfig:"JWT_SECRET"`

	// Server
	Port         string `yaml:"PORT" envconfig:"PORT"`
	RateLimitMax int    `yaml:"RATE_LIMIT_MAX" envconfig:"RATE_LIMIT_MAX"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL" envconfig:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST" envconfig:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT" envconfig:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME" envconfig:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL" envconfig:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD" envconfig:"SMTP_AUTH_PASSWORD"`

	// Duitku configuration
	DuitkuMerchantCode string        `yaml:"DUITKU_MERCHANT_CODE" envconfig:"DUITKU_MERCHANT_CODE"`
	DuitkuAPIKey       string        `yaml:"DUITKU_API_KEY" envconfig:"DUITKU_API_KEY"`
	DuitkuBaseURL      string        `yaml:"DUITKU_BASE_URL" envconfig:"DUITKU_BASE_URL"`
	DuitkuCallbackURL  string        `yaml:"DUITKU_CALLBACK_URL" envconfig:"DUITKU_CALLBACK_URL"`
	DuitkuReturnURL    string        `yaml:"DUITKU_RETURN_URL" envconfig:"DUITKU_RETURN_URL"`
	DuitkuExpiryPeriod int           `yaml:"DUITKU_EXPIRY_PERIOD" envconfig:"DUITKU_EXPIRY_PERIOD"`
	DuitkuTimeout      time.Duration `yaml:"DUITKU_TIMEOUT" envconfig:"DUITKU_TIMEOUT"`

	// Points rules
	MinPurchaseAmount   int64 `yaml:"MIN_PURCHASE_AMOUNT" envconfig:"MIN_PURCHASE_AMOUNT"`
	MinPurchasePoints   int   `yaml:"MIN_PURCHASE_POINTS" envconfig:"MIN_PURCHASE_POINTS"`
	DefaultValidityDays int   `yaml:"DEFAULT_VALIDITY_DAYS" envconfig:"DEFAULT_VALIDITY_DAYS"`

	// AWS S3 configuration
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET" envconfig:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION" envconfig:"AWS_S3_REGION"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT" envconfig:"AWS_S3_ENDPOINT"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY" envconfig:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY" envconfig:"AWS_SECRET_KEY"`
}

const (
	DefaultDuitkuBaseURL      = "https://sandbox.duitku.com"
	DefaultDuitkuExpiryPeriod = 60
	DefaultDuitkuTimeout      = 30 * time.Second
	DefaultMinPurchaseAmount  = 10000
	DefaultMinPurchasePoints  = 1
	DefaultValidityDays       = 30
	DefaultPort               = "8080"
	DefaultRateLimitMax       = 10
	DefaultDBSSLMode          = "disable"
)

var config Config

// LoadConfig reads the YAML file at path, when present, then overlays
// environment variables. The result also backs GetConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := Config{}

	file, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}

	cfg.applyDefaults()
	config = cfg
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DuitkuBaseURL == "" {
		c.DuitkuBaseURL = DefaultDuitkuBaseURL
	}
	if c.DuitkuExpiryPeriod <= 0 {
		c.DuitkuExpiryPeriod = DefaultDuitkuExpiryPeriod
	}
	if c.DuitkuTimeout <= 0 {
		c.DuitkuTimeout = DefaultDuitkuTimeout
	}
	if c.MinPurchaseAmount <= 0 {
		c.MinPurchaseAmount = DefaultMinPurchaseAmount
	}
	if c.MinPurchasePoints <= 0 {
		c.MinPurchasePoints = DefaultMinPurchasePoints
	}
	if c.DefaultValidityDays <= 0 {
		c.DefaultValidityDays = DefaultValidityDays
	}
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.RateLimitMax <= 0 {
		c.RateLimitMax = DefaultRateLimitMax
	}
	if c.DBSSLMode == "" {
		c.DBSSLMode = DefaultDBSSLMode
	}
}

func GetConfig(key string) string {
	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_SSLMODE":
		return config.DBSSLMode
	case "JWT_SECRET":
		return config.JWTSecret
	case "PORT":
		return config.Port
	case "RATE_LIMIT_MAX":
		return strconv.Itoa(config.RateLimitMax)
	case "APP_URL":
		return config.AppURL
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "DUITKU_MERCHANT_CODE":
		return config.DuitkuMerchantCode
	case "DUITKU_BASE_URL":
		return config.DuitkuBaseURL
	case "DUITKU_CALLBACK_URL":
		return config.DuitkuCallbackURL
	case "DUITKU_RETURN_URL":
		return config.DuitkuReturnURL
	case "DUITKU_EXPIRY_PERIOD":
		return strconv.Itoa(config.DuitkuExpiryPeriod)
	case "DUITKU_TIMEOUT":
		return config.DuitkuTimeout.String()
	case "MIN_PURCHASE_AMOUNT":
		return strconv.FormatInt(config.MinPurchaseAmount, 10)
	case "MIN_PURCHASE_POINTS":
		return strconv.Itoa(config.MinPurchasePoints)
	case "DEFAULT_VALIDITY_DAYS":
		return strconv.Itoa(config.DefaultValidityDays)
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	default:
		return ""
	}
}
