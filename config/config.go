package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the addrvec tool.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Sampler SamplerConfig `yaml:"sampler"`
	Encoder EncoderConfig `yaml:"encoder"`
	Train   TrainConfig   `yaml:"train"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig describes where the address CSV files live and how to parse them.
type DataConfig struct {
	Includes      []string `yaml:"includes"`
	Excludes      []string `yaml:"excludes"`
	Delimiter     string   `yaml:"delimiter"`
	Header        bool     `yaml:"header"`
	AddressColumn string   `yaml:"address_column"`
	GroupColumn   string   `yaml:"group_column"` // empty or missing column collapses to one group
}

// SamplerConfig controls triplet generation.
type SamplerConfig struct {
	NegativesPerAnchor int   `yaml:"negatives_per_anchor"`
	Seed               int64 `yaml:"seed"`
}

// EncoderConfig holds the character encoder hyperparameters.
type EncoderConfig struct {
	MaxLength    int `yaml:"max_length"`
	EmbeddingDim int `yaml:"embedding_dim"`
	HiddenDim    int `yaml:"hidden_dim"`
	OutputDim    int `yaml:"output_dim"`
}

// TrainConfig holds the training loop parameters.
type TrainConfig struct {
	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	Margin       float64 `yaml:"margin"`
	Seed         int64   `yaml:"seed"`
}

// SearchConfig holds vector search parameters.
type SearchConfig struct {
	TopK int `yaml:"top_k"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Includes:      []string{"**/*.csv"},
			Excludes:      []string{"**/.addrvec/**"},
			Delimiter:     ",",
			Header:        true,
			AddressColumn: "address",
			GroupColumn:   "group_id",
		},
		Sampler: SamplerConfig{
			NegativesPerAnchor: 4,
			Seed:               42,
		},
		Encoder: EncoderConfig{
			MaxLength:    64,
			EmbeddingDim: 32,
			HiddenDim:    64,
			OutputDim:    32,
		},
		Train: TrainConfig{
			Epochs:       5,
			BatchSize:    32,
			LearningRate: 0.001,
			Margin:       0.4,
			Seed:         42,
		},
		Search: SearchConfig{
			TopK: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for addrvec.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "addrvec.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".addrvec", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ModelDBPath returns the path to the model database.
func ModelDBPath(dir string) string {
	return filepath.Join(dir, ".addrvec", "model.db")
}

// EnsureStateDir ensures the .addrvec directory exists.
func EnsureStateDir(dir string) error {
	stateDir := filepath.Join(dir, ".addrvec")
	return os.MkdirAll(stateDir, 0755)
}
