package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/propmatch/internal/domain/score"
)

// Cache drivers.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheValkey = "valkey"
)

// Config holds the propmatch API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Data      DataConfig      `yaml:"data"`
	Cache     CacheConfig     `yaml:"cache"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Recommend RecommendConfig `yaml:"recommend"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. Empty APIKeys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DataConfig locates the property and POI feeds.
type DataConfig struct {
	PropertiesPath    string `yaml:"properties_path"`
	POIsPath          string `yaml:"pois_path"`
	ReloadIntervalSec int    `yaml:"reload_interval_sec"` // 0 = reload only on demand
}

// CacheConfig selects and configures the score cache backend.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis, valkey (default: memory)
	MaxEntries       int      `yaml:"max_entries"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Remote reports whether the cache lives in a shared Redis/Valkey.
func (c CacheConfig) Remote() bool {
	return c.Driver == CacheRedis || c.Driver == CacheValkey
}

// WeightsConfig mirrors score.Weights for YAML.
type WeightsConfig struct {
	Location     float64 `yaml:"location"`
	Price        float64 `yaml:"price"`
	Services     float64 `yaml:"services"`
	Features     float64 `yaml:"features"`
	Availability float64 `yaml:"availability"`
}

// Domain converts the YAML weights.
func (w WeightsConfig) Domain() score.Weights {
	return score.Weights{
		Location:     w.Location,
		Price:        w.Price,
		Services:     w.Services,
		Features:     w.Features,
		Availability: w.Availability,
	}
}

// ScoringConfig holds the scorer weights and thresholds.
type ScoringConfig struct {
	Weights             *WeightsConfig `yaml:"weights"`
	RadiiKm             []float64      `yaml:"radii_km"`
	TransportRadiusKm   float64        `yaml:"transport_radius_km"`
	DenseTransportCount int            `yaml:"dense_transport_count"`
	SummaryRadiusKm     float64        `yaml:"summary_radius_km"`
	RecencyWindowDays   int            `yaml:"recency_window_days"`
	DateLayout          string         `yaml:"date_layout"`
}

// RecommendConfig holds result sizing defaults.
type RecommendConfig struct {
	DefaultLimit    int     `yaml:"default_limit"`
	MaxLimit        int     `yaml:"max_limit"`
	DefaultMinScore float64 `yaml:"default_min_score"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML after ${VAR} substitution, then applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	c.Auth.APIKeys = slices.DeleteFunc(c.Auth.APIKeys, func(k string) bool {
		return strings.TrimSpace(k) == ""
	})

	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheMemory
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 100_000
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "propmatch:score:"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}

	if c.Scoring.Weights == nil {
		w := score.DefaultWeights()
		c.Scoring.Weights = &WeightsConfig{
			Location:     w.Location,
			Price:        w.Price,
			Services:     w.Services,
			Features:     w.Features,
			Availability: w.Availability,
		}
	}
	if len(c.Scoring.RadiiKm) == 0 {
		c.Scoring.RadiiKm = []float64{1, 2, 3}
	}
	if c.Scoring.TransportRadiusKm <= 0 {
		c.Scoring.TransportRadiusKm = 2
	}
	if c.Scoring.DenseTransportCount <= 0 {
		c.Scoring.DenseTransportCount = 3
	}
	if c.Scoring.SummaryRadiusKm <= 0 {
		c.Scoring.SummaryRadiusKm = 2
	}
	if c.Scoring.RecencyWindowDays <= 0 {
		c.Scoring.RecencyWindowDays = 90
	}
	if c.Scoring.DateLayout == "" {
		c.Scoring.DateLayout = "2006-01-02"
	}

	if c.Recommend.DefaultLimit <= 0 {
		c.Recommend.DefaultLimit = 10
	}
	if c.Recommend.MaxLimit <= 0 {
		c.Recommend.MaxLimit = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if !slices.Contains([]string{CacheMemory, CacheRedis, CacheValkey}, c.Cache.Driver) {
		return fmt.Errorf("cache.driver must be memory, redis or valkey, got %q", c.Cache.Driver)
	}
	if c.Cache.Remote() && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
	}
	if c.Scoring.Weights != nil {
		if err := c.Scoring.Weights.Domain().Validate(); err != nil {
			return fmt.Errorf("scoring.weights: %w", err)
		}
	}
	for _, r := range c.Scoring.RadiiKm {
		if r <= 0 {
			return fmt.Errorf("scoring.radii_km entries must be positive, got %v", r)
		}
	}
	if c.Recommend.DefaultLimit > c.Recommend.MaxLimit {
		return fmt.Errorf("recommend.default_limit %d exceeds max_limit %d",
			c.Recommend.DefaultLimit, c.Recommend.MaxLimit)
	}
	if c.Recommend.DefaultMinScore < 0 || c.Recommend.DefaultMinScore > 1 {
		return fmt.Errorf("recommend.default_min_score must be in [0,1], got %v", c.Recommend.DefaultMinScore)
	}
	if c.Data.ReloadIntervalSec < 0 {
		return fmt.Errorf("data.reload_interval_sec must not be negative")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
