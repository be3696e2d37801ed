package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/coltranesx/Project-Area/pkg/utils"
)

// Store and file backends
const (
	StoreMemory   = "memory"
	StoreBadger   = "badger"
	StoreDynamoDB = "dynamodb"

	FilesLocal = "local"
	FilesS3    = "s3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address" validate:"required"`
	Environment   string `yaml:"environment" validate:"oneof=development test staging production"`

	// AWS configuration
	AWSRegion    string `yaml:"aws_region"`
	EventBusName string `yaml:"event_bus_name"`

	// Local-storage channel
	StoreBackend  string `yaml:"store_backend" validate:"oneof=memory badger dynamodb"`
	BadgerDir     string `yaml:"badger_dir" validate:"required_if=StoreBackend badger"`
	DynamoDBTable string `yaml:"dynamodb_table" validate:"required_if=StoreBackend dynamodb"`

	// File channel
	FileBackend string `yaml:"file_backend" validate:"oneof=local s3"`
	ExportDir   string `yaml:"export_dir" validate:"required_if=FileBackend local"`
	S3Bucket    string `yaml:"s3_bucket" validate:"required_if=FileBackend s3"`
	S3Prefix    string `yaml:"s3_prefix"`

	// Editor settings file, watched for changes when set
	SettingsFile string `yaml:"settings_file"`

	// Lambda configuration
	IsLambda bool `yaml:"is_lambda"`

	// Logging
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Authentication. With a secret set, the workspace is the JWT subject.
	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`

	// Observability
	MetricsNamespace string `yaml:"metrics_namespace" validate:"required"`
	EnableMetrics    bool   `yaml:"enable_metrics"`
	EnableTracing    bool   `yaml:"enable_tracing"`

	// CORS
	EnableCORS     bool     `yaml:"enable_cors"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Defaults returns the configuration used when nothing overrides it
func Defaults() Config {
	return Config{
		ServerAddress:    ":8080",
		Environment:      "development",
		AWSRegion:        "us-west-2",
		StoreBackend:     StoreMemory,
		BadgerDir:        "./data/badger",
		FileBackend:      FilesLocal,
		ExportDir:        "./data/exports",
		LogLevel:         "info",
		JWTIssuer:        "project-area",
		MetricsNamespace: "projectarea",
		EnableMetrics:    true,
		EnableCORS:       true,
		AllowedOrigins:   []string{"*"},
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by CONFIG_FILE, and environment variables, in increasing priority.
func LoadConfig() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)

	c.StoreBackend = getEnv("STORE_BACKEND", c.StoreBackend)
	c.BadgerDir = getEnv("BADGER_DIR", c.BadgerDir)
	c.DynamoDBTable = getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", c.DynamoDBTable))

	c.FileBackend = getEnv("FILE_BACKEND", c.FileBackend)
	c.ExportDir = getEnv("EXPORT_DIR", c.ExportDir)
	c.S3Bucket = getEnv("S3_BUCKET", c.S3Bucket)
	c.S3Prefix = getEnv("S3_PREFIX", c.S3Prefix)

	c.SettingsFile = getEnv("SETTINGS_FILE", c.SettingsFile)

	// AWS_LAMBDA_FUNCTION_NAME is set by the Lambda runtime.
	c.IsLambda = getEnvBool("IS_LAMBDA", c.IsLambda || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "")

	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)

	c.MetricsNamespace = getEnv("METRICS_NAMESPACE", c.MetricsNamespace)
	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)

	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}
}

// Validate checks struct constraints and the production requirements
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.IsProduction() {
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required in production")
		}
		if c.StoreBackend == StoreMemory {
			return errors.New("STORE_BACKEND=memory is not allowed in production")
		}
	}
	return nil
}

// AuthEnabled reports whether requests must carry a JWT
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value == "yes"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
