package config

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/tieubaoca/docinsight-be/types"
)

type Config struct {
	Port      string `mapstructure:"port"`
	UploadDir string `mapstructure:"upload_dir"`

	// Embedding collaborator. Provider is "openai" or "gemini".
	EmbeddingProvider string   `mapstructure:"embedding_provider"`
	AIEndpoint        string   `mapstructure:"ai_endpoint"`
	EmbeddingModel    string   `mapstructure:"embedding_model"`
	OpenAIAPIKey      string   `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys     []string `mapstructure:"gemini_api_keys"`

	MongoURI string `mapstructure:"MONGODB_URI"`

	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`

	Analysis types.AnalysisConfig `mapstructure:"analysis"`
}

type WeaviateStoreConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("WEAVIATE_APIKEY")
	v.BindEnv("MONGODB_URI")
	v.BindEnv("ADMIN_PASSWORD")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.EmbeddingProvider == "" {
		c.EmbeddingProvider = "openai"
	}
	a := &c.Analysis
	if a.MinSections == 0 {
		a.MinSections = 5
	}
	if a.MaxSections == 0 {
		a.MaxSections = 15
	}
	if a.MaxTopSections == 0 {
		a.MaxTopSections = 5
	}
	if a.MaxHighlightsPerSection == 0 {
		a.MaxHighlightsPerSection = 5
	}
	if a.HeadingScoreFloor == 0 {
		a.HeadingScoreFloor = 30
	}
	if a.DedupRecurrenceFraction == 0 {
		a.DedupRecurrenceFraction = 0.05
	}
	if a.Workers == 0 {
		a.Workers = 4
	}
	if a.SectionEmbedChars == 0 {
		a.SectionEmbedChars = 800
	}
	if a.HighlightChars == 0 {
		a.HighlightChars = 350
	}
	if a.MaxSentencesPerSection == 0 {
		a.MaxSentencesPerSection = 40
	}
	if a.Weights == (types.HeadingWeights{}) {
		a.Weights = types.HeadingWeights{
			FontTier:  8,
			FontZ:     4,
			Bold:      15,
			Italic:    5,
			Numbering: 20,
			Keyword:   10,
			Length:    10,
			Uppercase: 5,
			Position:  5,
			Script:    10,
		}
	}
}

// Validate fails fast on out-of-range analysis options. This runs at
// startup, before any document is processed.
func (c *Config) Validate() error {
	a := c.Analysis
	if a.MinSections < 0 {
		return fmt.Errorf("%w: min_sections must not be negative, got %d", types.ErrInvalidConfig, a.MinSections)
	}
	if a.MaxSections < 1 {
		return fmt.Errorf("%w: max_sections must be at least 1, got %d", types.ErrInvalidConfig, a.MaxSections)
	}
	if a.MaxTopSections < 1 {
		return fmt.Errorf("%w: max_top_sections must be at least 1, got %d", types.ErrInvalidConfig, a.MaxTopSections)
	}
	if a.MaxHighlightsPerSection < 1 {
		return fmt.Errorf("%w: max_highlights_per_section must be at least 1, got %d", types.ErrInvalidConfig, a.MaxHighlightsPerSection)
	}
	if a.HeadingScoreFloor < 0 {
		return fmt.Errorf("%w: heading_score_floor must not be negative, got %f", types.ErrInvalidConfig, a.HeadingScoreFloor)
	}
	if a.DedupRecurrenceFraction < 0 || a.DedupRecurrenceFraction > 1 {
		return fmt.Errorf("%w: dedup_recurrence_fraction must be within [0,1], got %f", types.ErrInvalidConfig, a.DedupRecurrenceFraction)
	}
	if a.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", types.ErrInvalidConfig, a.Workers)
	}
	return nil
}
