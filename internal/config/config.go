package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Scraper     ScraperConfig     `yaml:"scraper"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	YouTube     YouTubeConfig     `yaml:"youtube"`
	Transcripts TranscriptsConfig `yaml:"transcripts"`
	Indexing    IndexingConfig    `yaml:"indexing"`
}

type ScraperConfig struct {
	Token string `yaml:"token" env:"APIFY_API_TOKEN"`
	Actor string `yaml:"actor"`
}

type GeminiConfig struct {
	APIKey      string  `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// YouTubeConfig is optional: when APIKey is set, the channel URL is
// resolved through the Data API before the scrape starts.
type YouTubeConfig struct {
	APIKey string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
}

type TranscriptsConfig struct {
	Dir string `yaml:"dir"`
}

type IndexingConfig struct {
	PollSeconds    int `yaml:"poll_seconds"`
	TimeoutMinutes int `yaml:"timeout_minutes"`
}

func (c *IndexingConfig) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds) * time.Second
}

func (c *IndexingConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if cfg.Scraper.Token == "" {
		cfg.Scraper.Token = os.Getenv("APIFY_API_TOKEN")
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}

	if cfg.Scraper.Actor == "" {
		cfg.Scraper.Actor = "streamers~youtube-scraper"
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.Gemini.Temperature == 0 {
		cfg.Gemini.Temperature = 0.7
	}
	if cfg.Transcripts.Dir == "" {
		cfg.Transcripts.Dir = "transcripts"
	}
	if cfg.Indexing.PollSeconds == 0 {
		cfg.Indexing.PollSeconds = 2
	}
	if cfg.Indexing.TimeoutMinutes == 0 {
		cfg.Indexing.TimeoutMinutes = 5
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Scraper.Token == "" {
		return fmt.Errorf("scrape provider token is required (set APIFY_API_TOKEN or scraper.token)")
	}
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or gemini.api_key)")
	}
	return nil
}
