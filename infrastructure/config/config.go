package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	domainconfig "comments-backend/domain/config"
)

// Seed sources
const (
	SeedSourceSample   = "sample"
	SeedSourceFile     = "file"
	SeedSourceDynamoDB = "dynamodb"
	SeedSourceNone     = "none"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Session actor
	ActorID     string
	ActorName   string
	ActorAvatar string

	// Thread seeding
	ThreadID    string
	SeedSource  string
	SeedFile    string
	SeedTimeout time.Duration
	// SeedRetry is how often a failed seed load is retried; zero disables it
	SeedRetry time.Duration

	// AWS configuration
	AWSRegion     string
	DynamoDBTable string
	EventBusName  string

	// Event journal
	PersistEvents  bool
	EventRetention time.Duration

	// Lambda configuration
	IsLambda           bool
	LambdaFunctionName string

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Caching
	CacheTTLSeconds int

	// Feature flags
	EnableEvents  bool
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool

	// Domain rules
	Domain *domainconfig.DomainConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	environment := getEnv("ENVIRONMENT", "development")

	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   environment,

		ActorID:     getEnv("ACTOR_ID", "30009257"),
		ActorName:   getEnv("ACTOR_NAME", "John"),
		ActorAvatar: getEnv("ACTOR_AVATAR", "https://avatars.example.com/30009257.png"),

		ThreadID:    getEnv("THREAD_ID", "default"),
		SeedSource:  getEnv("SEED_SOURCE", SeedSourceSample),
		SeedFile:    getEnv("SEED_FILE", "seed.yaml"),
		SeedTimeout: time.Duration(getEnvInt("SEED_TIMEOUT_MS", 3000)) * time.Millisecond,
		SeedRetry:   time.Duration(getEnvInt("SEED_RETRY_MS", 10000)) * time.Millisecond,

		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "comments")),
		EventBusName:  getEnv("EVENT_BUS_NAME", "comments-events"),

		PersistEvents:  getEnvBool("PERSIST_EVENTS", false),
		EventRetention: time.Duration(getEnvInt("EVENT_RETENTION_HOURS", 0)) * time.Hour,

		IsLambda:           getEnvBool("IS_LAMBDA", false),
		LambdaFunctionName: getEnv("AWS_LAMBDA_FUNCTION_NAME", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "comments-backend"),

		CacheTTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 30),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableEvents:  getEnvBool("ENABLE_EVENTS", false),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),

		Domain: domainconfig.LoadDomainConfig(environment),
	}

	if sort := os.Getenv("DEFAULT_SORT"); sort != "" {
		cfg.Domain.DefaultSortKey = sort
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.ActorID == "" {
		return fmt.Errorf("ACTOR_ID is required")
	}

	switch c.SeedSource {
	case SeedSourceSample, SeedSourceNone:
	case SeedSourceFile:
		if c.SeedFile == "" {
			return fmt.Errorf("SEED_FILE is required when SEED_SOURCE=file")
		}
	case SeedSourceDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required when SEED_SOURCE=dynamodb")
		}
	default:
		return fmt.Errorf("unknown SEED_SOURCE %q", c.SeedSource)
	}

	if c.SeedTimeout <= 0 {
		return fmt.Errorf("SEED_TIMEOUT_MS must be positive")
	}
	if c.SeedRetry < 0 {
		return fmt.Errorf("SEED_RETRY_MS cannot be negative")
	}
	if c.EventRetention < 0 {
		return fmt.Errorf("EVENT_RETENTION_HOURS cannot be negative")
	}
	if c.CacheTTLSeconds < 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS cannot be negative")
	}

	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.EnableEvents && c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
	}

	if c.Domain == nil {
		return fmt.Errorf("domain configuration is missing")
	}
	if err := c.Domain.Validate(); err != nil {
		return fmt.Errorf("invalid domain configuration: %w", err)
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NeedsAWS reports whether any enabled component talks to AWS
func (c *Config) NeedsAWS() bool {
	return c.SeedSource == SeedSourceDynamoDB || c.PersistEvents || c.EnableEvents || c.EnableMetrics
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
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
