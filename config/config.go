package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yuezhaodesign/Inkspire/chunkify"
	"github.com/yuezhaodesign/Inkspire/genai"
	"github.com/yuezhaodesign/Inkspire/retrieval"
)

// Provider configures one embedding provider for the vector index.
type Provider struct {
	Model  string `yaml:"model"`
	ApiKey string `yaml:"api_key"`
}

// Chroma enables the vector retrieval backend. When absent, retrieval stays
// lexical.
type Chroma struct {
	Addr        string    `yaml:"addr"`
	Collection  string    `yaml:"collection"`
	RequestSize int       `yaml:"request_size"`
	OpenAI      *Provider `yaml:"open_ai"`
	Gemini      *Provider `yaml:"gemini"`
}

// Generation configures the text generation backend. An empty api_key falls
// back to the GOOGLE_API_KEY environment variable.
type Generation struct {
	Model       string  `yaml:"model"`
	ApiKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
}

type Config struct {
	LogFile       string     `yaml:"log"`
	LibraryRoot   string     `yaml:"library_root"`
	MaterialsRoot string     `yaml:"materials_root"`
	MergeEventsMs int        `yaml:"write_debounce_ms"`
	ChunkSize     int        `yaml:"chunk_size"`
	ChunkOverlap  int        `yaml:"chunk_overlap"`
	Results       int        `yaml:"results"`
	ServerAddr    string     `yaml:"server_addr"`
	McpAddr       string     `yaml:"mcp_addr"`
	Generation    Generation `yaml:"generation"`
	Chroma        *Chroma    `yaml:"chroma"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)

	return cfg
}

// Read loads and validates a YAML config file, filling unset fields with
// defaults.
func Read(path string) (*Config, error) {
	cfgFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open config file: %w", err)
	}
	defer cfgFile.Close()

	cfg := &Config{}
	if err := yaml.NewDecoder(cfgFile).Decode(cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	applyDefaults(cfg)
	if _, err := chunkify.New(cfg.ChunkSize, cfg.ChunkOverlap); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.LogFile == "" {
		cfg.LogFile = "inkspire.log"
	}
	if cfg.LibraryRoot == "" {
		cfg.LibraryRoot = "course_libraries"
	}
	if cfg.MaterialsRoot == "" {
		cfg.MaterialsRoot = "materials"
	}
	if cfg.MergeEventsMs == 0 {
		cfg.MergeEventsMs = 500
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = chunkify.DefaultSize
	}
	if cfg.ChunkOverlap == 0 {
		cfg.ChunkOverlap = chunkify.DefaultOverlap
	}
	if cfg.Results == 0 {
		cfg.Results = retrieval.DefaultResults
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8000"
	}
	if cfg.McpAddr == "" {
		cfg.McpAddr = ":8080"
	}
	if cfg.Generation.Model == "" {
		cfg.Generation.Model = genai.DefaultModel
	}
	if cfg.Generation.ApiKey == "" {
		cfg.Generation.ApiKey = os.Getenv("GOOGLE_API_KEY")
	}
	if cfg.Chroma != nil {
		if cfg.Chroma.Addr == "" {
			cfg.Chroma.Addr = "http://localhost:8001"
		}
		if cfg.Chroma.Collection == "" {
			cfg.Chroma.Collection = "inkspire"
		}
	}
}
