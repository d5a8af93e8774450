package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Serp      SerpConfig
	OpenAI    OpenAIConfig
	Cache     CacheConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SerpConfig holds marketplace search provider configuration
type SerpConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	GoogleDomain string        `mapstructure:"google_domain"`
	Location     string        `mapstructure:"location"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// OpenAIConfig holds classification/vision provider configuration. An empty
// API key disables both providers; the pipeline then runs fully deterministic.
type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds result cache configuration
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	SearchTTL time.Duration `mapstructure:"search_ttl"`
	BrandTTL  time.Duration `mapstructure:"brand_ttl"`
}

// MatchingConfig holds scoring/classification tuning
type MatchingConfig struct {
	MinRecommendationConfidence float64 `mapstructure:"min_recommendation_confidence"`
	ClassifyTopN                int     `mapstructure:"classify_top_n"`
	EnableDebugLogging          bool    `mapstructure:"enable_debug_logging"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
	Serp  int `mapstructure:"serp"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bharatpricing/")

	v.SetEnvPrefix("BHARATPRICING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	// Search provider defaults. The empty api_key default registers the key
	// so the env override binds through Unmarshal.
	v.SetDefault("serp.api_key", "")
	v.SetDefault("serp.base_url", "https://serpapi.com")
	v.SetDefault("serp.google_domain", "google.co.in")
	v.SetDefault("serp.location", "Mumbai, Maharashtra, India")
	v.SetDefault("serp.timeout", "30s")

	// Classification provider defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.timeout", "30s")

	// Cache defaults: brand-level queries change slower than product queries
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.search_ttl", "1h")
	v.SetDefault("cache.brand_ttl", "6h")

	// Matching defaults
	v.SetDefault("matching.min_recommendation_confidence", 0.75)
	v.SetDefault("matching.classify_top_n", 20)
	v.SetDefault("matching.enable_debug_logging", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.serp", 1000)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Serp.APIKey == "" {
		return fmt.Errorf("search API key is required (set BHARATPRICING_SERP_API_KEY)")
	}

	if config.Matching.MinRecommendationConfidence < 0 || config.Matching.MinRecommendationConfidence > 1 {
		return fmt.Errorf("min_recommendation_confidence must be in [0,1], got: %v",
			config.Matching.MinRecommendationConfidence)
	}

	if config.Matching.ClassifyTopN <= 0 {
		return fmt.Errorf("classify_top_n must be positive, got: %d", config.Matching.ClassifyTopN)
	}

	return nil
}
