package config

import "fmt"

// DomainConfig holds the configurable rules of a comment thread
type DomainConfig struct {
	// Comment constraints
	MaxBodyLength int

	// Seeding
	MaxSeedComments int

	// Presentation defaults
	DefaultSortKey string
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxBodyLength:   1000,
		MaxSeedComments: 10000,
		DefaultSortKey:  "hot",
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()
	config.MaxBodyLength = 500
	config.MaxSeedComments = 5000
	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()
	config.MaxBodyLength = 5000
	config.MaxSeedComments = 100000
	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is usable
func (c *DomainConfig) Validate() error {
	if c.MaxBodyLength <= 0 {
		return fmt.Errorf("max body length must be positive, got %d", c.MaxBodyLength)
	}
	if c.MaxSeedComments < 0 {
		return fmt.Errorf("max seed comments cannot be negative, got %d", c.MaxSeedComments)
	}
	switch c.DefaultSortKey {
	case "hot", "newest":
	default:
		return fmt.Errorf("unknown default sort key %q", c.DefaultSortKey)
	}
	return nil
}
