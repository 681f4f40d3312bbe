package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/vecagent/internal/domain"
	"github.com/kailas-cloud/vecagent/internal/domain/index"
)

// Config holds the vecagent configuration.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Database DatabaseConfig `yaml:"database"`
	Index    IndexConfig    `yaml:"index"`
	Search   SearchConfig   `yaml:"search"`
	Cache    CacheConfig    `yaml:"cache"`
	Budget   BudgetConfig   `yaml:"budget"`
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Upload   UploadConfig   `yaml:"upload"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// OpenAIConfig holds Azure OpenAI settings.
type OpenAIConfig struct {
	Endpoint     string           `yaml:"endpoint"`
	APIKey       string           `yaml:"api_key"`
	Passwordless bool             `yaml:"passwordless"` // Azure AD tokens instead of an API key
	TimeoutSec   int              `yaml:"timeout_sec"`
	Embedding    DeploymentConfig `yaml:"embedding"`
	Planner      DeploymentConfig `yaml:"planner"`
	Synthesizer  DeploymentConfig `yaml:"synthesizer"`
}

// DeploymentConfig names one Azure OpenAI deployment.
type DeploymentConfig struct {
	Deployment string `yaml:"deployment"`
	APIVersion string `yaml:"api_version"`
}

// UsesAzureAD reports whether OpenAI calls authenticate with Azure AD tokens.
func (c OpenAIConfig) UsesAzureAD() bool {
	return c.Passwordless || c.APIKey == ""
}

// DatabaseConfig holds document store connection settings.
type DatabaseConfig struct {
	ConnectionString          string `yaml:"connection_string"`
	ClusterName               string `yaml:"cluster_name"`
	Passwordless              bool   `yaml:"passwordless"`
	Name                      string `yaml:"name"`
	Collection                string `yaml:"collection"`
	IndexName                 string `yaml:"index_name"`
	VectorField               string `yaml:"vector_field"`
	ConnectTimeoutSec         int    `yaml:"connect_timeout_sec"`
	ServerSelectionTimeoutSec int    `yaml:"server_selection_timeout_sec"`
	MaxPoolSize               uint64 `yaml:"max_pool_size"`
	ReadinessTimeout          int    `yaml:"readiness_timeout_sec"`
}

// UsesOIDC reports whether the store is reached with Azure AD OIDC.
// A cluster name without a connection string implies passwordless.
func (c DatabaseConfig) UsesOIDC() bool {
	return c.Passwordless || (c.ConnectionString == "" && c.ClusterName != "")
}

// IndexConfig holds vector index settings.
type IndexConfig struct {
	Algorithm      string `yaml:"algorithm"`  // vector-ivf, vector-hnsw, vector-diskann
	Dimensions     int    `yaml:"dimensions"` // must match the embedding deployment
	Similarity     string `yaml:"similarity"` // COS, L2, IP
	NumLists       int    `yaml:"num_lists"`
	HNSWM          int    `yaml:"hnsw_m"`
	EFConstruction int    `yaml:"hnsw_ef_construction"`
	MaxDegree      int    `yaml:"diskann_max_degree"`
	LBuild         int    `yaml:"diskann_l_build"`
}

// SearchConfig holds pipeline defaults.
type SearchConfig struct {
	Query            string `yaml:"query"`
	NearestNeighbors int    `yaml:"nearest_neighbors"`
}

// CacheConfig holds the optional embedding cache settings. Empty Addrs disables it.
type CacheConfig struct {
	Addrs    []string `yaml:"addrs"`
	Password string   `yaml:"password"`
	TTLSec   int      `yaml:"ttl_sec"`
}

// Enabled reports whether a cache backend is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// Enabled reports whether any limit is set.
func (c BudgetConfig) Enabled() bool { return c.DailyTokenLimit > 0 || c.MonthlyTokenLimit > 0 }

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// AuthConfig holds API authentication settings for serve mode.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// UploadConfig holds dataset ingestion settings.
type UploadConfig struct {
	DataFile string `yaml:"data_file"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory is loaded first so its variables are expanded.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse expands env variables in data, decodes it, applies defaults and validates.
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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}

	if c.OpenAI.TimeoutSec <= 0 {
		c.OpenAI.TimeoutSec = 60
	}
	for _, d := range []*DeploymentConfig{&c.OpenAI.Embedding, &c.OpenAI.Planner, &c.OpenAI.Synthesizer} {
		if d.APIVersion == "" {
			d.APIVersion = "2024-10-21"
		}
	}

	if c.Database.Name == "" {
		c.Database.Name = "Hotels"
	}
	if c.Database.Collection == "" {
		c.Database.Collection = "hotels"
	}
	if c.Database.IndexName == "" {
		c.Database.IndexName = "vectorIndex"
	}
	if c.Database.VectorField == "" {
		c.Database.VectorField = domain.DefaultVectorField
	}
	if c.Database.ConnectTimeoutSec <= 0 {
		c.Database.ConnectTimeoutSec = 30
	}
	if c.Database.ServerSelectionTimeoutSec <= 0 {
		c.Database.ServerSelectionTimeoutSec = 30
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}

	if c.Index.Algorithm == "" {
		c.Index.Algorithm = string(index.IVF)
	}
	if c.Index.Dimensions <= 0 {
		c.Index.Dimensions = domain.DefaultDimensions
	}
	if c.Index.Similarity == "" {
		c.Index.Similarity = string(index.Cosine)
	}
	if c.Index.NumLists <= 0 {
		c.Index.NumLists = 10
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 16
	}
	if c.Index.EFConstruction <= 0 {
		c.Index.EFConstruction = 64
	}
	if c.Index.MaxDegree <= 0 {
		c.Index.MaxDegree = 20
	}
	if c.Index.LBuild <= 0 {
		c.Index.LBuild = 10
	}

	if c.Search.Query == "" {
		c.Search.Query = "quintessential lodging near running trails, eateries, retail"
	}
	if c.Search.NearestNeighbors <= 0 {
		c.Search.NearestNeighbors = domain.DefaultNearestNeighbors
	}

	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 7 * 24 * 3600
	}

	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Upload.DataFile == "" {
		c.Upload.DataFile = "data/HotelsData_toCosmosDB.JSON"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.OpenAI.Endpoint == "" {
		return fmt.Errorf("openai.endpoint is required")
	}
	if c.OpenAI.Embedding.Deployment == "" {
		return fmt.Errorf("openai.embedding.deployment is required")
	}
	if c.OpenAI.Planner.Deployment == "" {
		return fmt.Errorf("openai.planner.deployment is required")
	}
	if c.OpenAI.Synthesizer.Deployment == "" {
		return fmt.Errorf("openai.synthesizer.deployment is required")
	}

	if c.Database.UsesOIDC() {
		if c.Database.ClusterName == "" {
			return fmt.Errorf("database.cluster_name is required for passwordless authentication")
		}
	} else if c.Database.ConnectionString == "" {
		return fmt.Errorf("database.connection_string is required when passwordless is disabled")
	}

	idx := c.IndexDefinition()
	if _, err := index.ParseAlgorithm(c.Index.Algorithm); err != nil {
		return fmt.Errorf("index.algorithm: %w", err)
	}
	if _, err := index.ParseSimilarity(c.Index.Similarity); err != nil {
		return fmt.Errorf("index.similarity: %w", err)
	}
	if err := idx.Validate(); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	if n := c.Search.NearestNeighbors; n < domain.MinNearestNeighbors || n > domain.MaxNearestNeighbors {
		return fmt.Errorf("search.nearest_neighbors must be between %d and %d, got %d",
			domain.MinNearestNeighbors, domain.MaxNearestNeighbors, n)
	}

	switch c.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf("budget.action must be \"warn\" or \"reject\", got %q", c.Budget.Action)
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	return nil
}

// IndexDefinition builds the vector index definition from the database and index sections.
// Unknown algorithm or similarity names are passed through and rejected by Validate.
func (c *Config) IndexDefinition() index.Config {
	algo, err := index.ParseAlgorithm(c.Index.Algorithm)
	if err != nil {
		algo = index.Algorithm(c.Index.Algorithm)
	}
	sim, err := index.ParseSimilarity(c.Index.Similarity)
	if err != nil {
		sim = index.Similarity(c.Index.Similarity)
	}
	return index.Config{
		Name:           c.Database.IndexName,
		Field:          c.Database.VectorField,
		Algorithm:      algo,
		Dimensions:     c.Index.Dimensions,
		Similarity:     sim,
		NumLists:       c.Index.NumLists,
		M:              c.Index.HNSWM,
		EFConstruction: c.Index.EFConstruction,
		MaxDegree:      c.Index.MaxDegree,
		LBuild:         c.Index.LBuild,
	}
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

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
