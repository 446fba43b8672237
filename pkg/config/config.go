package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Paths PathsConfig `yaml:"paths" json:"paths" jsonschema:"description=Locations of persisted state and input files"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for article generation"`

	Generation GenerationConfig `yaml:"generation" json:"generation" jsonschema:"description=Per-keyword generation settings"`

	Batch BatchConfig `yaml:"batch" json:"batch" jsonschema:"description=Batch scheduling configuration"`

	Images ImagesConfig `yaml:"images" json:"images" jsonschema:"description=Image search configuration"`

	Site SiteConfig `yaml:"site" json:"site" jsonschema:"description=Site build and post-build output configuration"`
}

// PathsConfig holds locations of input files and persisted state
type PathsConfig struct {
	Keywords    string `yaml:"keywords" json:"keywords" jsonschema:"default=data/keywords.txt,description=Newline-delimited keyword list"`
	Credentials string `yaml:"credentials" json:"credentials" jsonschema:"default=data/credentials.txt,description=Newline-delimited API credential list"`
	ImageKey    string `yaml:"image_key" json:"image_key" jsonschema:"default=data/image_key.txt,description=Image search API key file (optional)"`
	Articles    string `yaml:"articles" json:"articles" jsonschema:"default=data/articles.json,description=Persisted article-array JSON file"`
	Cache       string `yaml:"cache" json:"cache" jsonschema:"default=data/generated-cache.json,description=Keyword ledger cache file"`
	Progress    string `yaml:"progress" json:"progress" jsonschema:"default=data/batch-progress.json,description=Batch progress file"`
	Batch       string `yaml:"batch" json:"batch" jsonschema:"default=data/current-batch.txt,description=Transient single-batch keyword file"`
}

// LLMConfig holds LLM configuration for article generation
type LLMConfig struct {
	Endpoint    string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	Model       string        `yaml:"model" json:"model" jsonschema:"required,description=Model name"`
	Temperature float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.8,description=Temperature for response generation"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=4096,description=Maximum tokens in response"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=2m,description=Request timeout"`
	KeyPrefix   string        `yaml:"key_prefix" json:"key_prefix" jsonschema:"default=AIza,description=Prefix matching valid credential lines"`
}

// GenerationConfig holds per-keyword generation settings
type GenerationConfig struct {
	Delay        time.Duration `yaml:"delay" json:"delay" jsonschema:"default=10s,description=Throttle delay after every external call and between keywords"`
	BackdateDays int           `yaml:"backdate_days" json:"backdate_days" jsonschema:"default=3,description=Days in the past the publish-date window starts"`
	FutureDays   int           `yaml:"future_days" json:"future_days" jsonschema:"default=30,description=Days forward the publish-date window extends"`
}

// BatchConfig holds batch scheduling settings
type BatchConfig struct {
	Size     int           `yaml:"size" json:"size" jsonschema:"default=5,minimum=1,description=Number of keywords per batch"`
	Interval time.Duration `yaml:"interval" json:"interval" jsonschema:"default=30m,description=Minimum wall-clock time between batches"`
}

// ImagesConfig holds image search settings
type ImagesConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Enable image enrichment"`
	Endpoint string        `yaml:"endpoint" json:"endpoint" jsonschema:"default=https://api.pexels.com,description=Image search API endpoint"`
	PerPage  int           `yaml:"per_page" json:"per_page" jsonschema:"default=10,description=Results requested per query"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=15s,description=Request timeout"`
}

// SiteConfig holds site build and post-build output settings
type SiteConfig struct {
	BaseURL      string `yaml:"base_url" json:"base_url" jsonschema:"description=Public base URL used in feed and sitemap links"`
	Title        string `yaml:"title" json:"title" jsonschema:"description=Site title for the RSS channel"`
	Description  string `yaml:"description" json:"description" jsonschema:"description=Site description for the RSS channel"`
	OutputDir    string `yaml:"output_dir" json:"output_dir" jsonschema:"default=dist,description=Directory receiving feed and sitemap output"`
	Feed         bool   `yaml:"feed" json:"feed" jsonschema:"description=Emit RSS feed after a successful batch"`
	Sitemap      bool   `yaml:"sitemap" json:"sitemap" jsonschema:"description=Emit sitemap after a successful batch"`
	BuildCommand string `yaml:"build_command" json:"build_command" jsonschema:"description=External site build command (optional)"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// set defaults for paths
	if cfg.Paths.Keywords == "" {
		cfg.Paths.Keywords = "data/keywords.txt"
	}
	if cfg.Paths.Credentials == "" {
		cfg.Paths.Credentials = "data/credentials.txt"
	}
	if cfg.Paths.ImageKey == "" {
		cfg.Paths.ImageKey = "data/image_key.txt"
	}
	if cfg.Paths.Articles == "" {
		cfg.Paths.Articles = "data/articles.json"
	}
	if cfg.Paths.Cache == "" {
		cfg.Paths.Cache = "data/generated-cache.json"
	}
	if cfg.Paths.Progress == "" {
		cfg.Paths.Progress = "data/batch-progress.json"
	}
	if cfg.Paths.Batch == "" {
		cfg.Paths.Batch = "data/current-batch.txt"
	}

	// set defaults for LLM
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.8
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 4096
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 2 * time.Minute
	}
	if cfg.LLM.KeyPrefix == "" {
		cfg.LLM.KeyPrefix = "AIza"
	}

	// set defaults for generation
	if cfg.Generation.Delay == 0 {
		cfg.Generation.Delay = 10 * time.Second
	}
	if cfg.Generation.BackdateDays == 0 {
		cfg.Generation.BackdateDays = 3
	}
	if cfg.Generation.FutureDays == 0 {
		cfg.Generation.FutureDays = 30
	}

	// set defaults for batching
	if cfg.Batch.Size == 0 {
		cfg.Batch.Size = 5
	}
	if cfg.Batch.Interval == 0 {
		cfg.Batch.Interval = 30 * time.Minute
	}

	// set defaults for images
	if cfg.Images.Endpoint == "" {
		cfg.Images.Endpoint = "https://api.pexels.com"
	}
	if cfg.Images.PerPage == 0 {
		cfg.Images.PerPage = 10
	}
	if cfg.Images.Timeout == 0 {
		cfg.Images.Timeout = 15 * time.Second
	}

	// set defaults for site output
	if cfg.Site.OutputDir == "" {
		cfg.Site.OutputDir = "dist"
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Generated Blog"
	}

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// schema validation is supplementary, a mismatch is not fatal
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		lgr.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate LLM config
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}

	// validate generation config
	if cfg.Generation.BackdateDays < 0 {
		return fmt.Errorf("generation.backdate_days must be non-negative")
	}
	if cfg.Generation.FutureDays < 0 {
		return fmt.Errorf("generation.future_days must be non-negative")
	}
	if cfg.Generation.BackdateDays+cfg.Generation.FutureDays < 1 {
		return fmt.Errorf("generation date window must span at least one day")
	}
	if cfg.Generation.Delay < 0 {
		return fmt.Errorf("generation.delay must be non-negative")
	}

	// validate batch config
	if cfg.Batch.Size < 1 {
		return fmt.Errorf("batch.size must be at least 1")
	}
	if cfg.Batch.Interval < time.Minute {
		return fmt.Errorf("batch.interval must be at least 1 minute")
	}

	// validate site config when post-build outputs are enabled
	if (cfg.Site.Feed || cfg.Site.Sitemap) && cfg.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url is required when feed or sitemap is enabled")
	}

	return nil
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}

// GetImagesConfig returns image search configuration
func (c *Config) GetImagesConfig() ImagesConfig {
	return c.Images
}

// GetSiteConfig returns site output configuration
func (c *Config) GetSiteConfig() SiteConfig {
	return c.Site
}
