package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// Config holds application configuration
type Config struct {
	ServerPort      string        `env:"PORT" envDefault:"8080"`
	DatabaseType    string        `env:"DB_TYPE" envDefault:"sqlite"`
	DatabasePath    string        `env:"DB_PATH" envDefault:"./spellstory.db"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	MigrationsPath  string        `env:"MIGRATIONS_PATH" envDefault:"./migrations"`
	StaticFilesPath string        `env:"STATIC_PATH" envDefault:"./static"`
	SessionDuration time.Duration `env:"SESSION_DURATION" envDefault:"6h"`

	// Progress store backend: "sql", "redis" or "memory"
	StoreBackend string `env:"STORE_BACKEND" envDefault:"sql"`
	RedisURL     string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	ShareSecret string        `env:"SHARE_SECRET" envDefault:"change-me"`
	ShareTTL    time.Duration `env:"SHARE_TTL" envDefault:"720h"`

	// Bearer token for backup endpoints; empty disables them
	AdminToken string `env:"ADMIN_TOKEN"`

	// Newline-separated list of words refused in word lists; empty disables seeding
	BlocklistURL string `env:"BLOCKLIST_URL"`

	// Text generation
	LLMEndpoint   string `env:"LLM_ENDPOINT" envDefault:"https://api.openai.com/v1"`
	LLMAPIKey     string `env:"LLM_API_KEY"`
	LLMModel      string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMTimeoutMs  int    `env:"LLM_TIMEOUT_MS" envDefault:"30000"`
	LLMMaxRetries int    `env:"LLM_MAX_RETRIES" envDefault:"1"`
	LLMLogCalls   bool   `env:"LLM_LOG_CALLS" envDefault:"true"`

	// Story generation limits
	StoryRateLimit  int           `env:"STORY_RATE_LIMIT" envDefault:"10"`
	StoryRateWindow time.Duration `env:"STORY_RATE_WINDOW" envDefault:"1m"`

	// Pronunciation audio for list words
	AudioEnabled bool   `env:"AUDIO_ENABLED" envDefault:"false"`
	TTSURL       string `env:"TTS_URL" envDefault:"https://translate.google.com/translate_tts"`

	// Finale progress reports
	AWSRegion    string `env:"AWS_REGION" envDefault:"eu-west-2"`
	SESFromEmail string `env:"SES_FROM_EMAIL"`
	SESFromName  string `env:"SES_FROM_NAME" envDefault:"Spellstory"`
	ReportEmail  string `env:"REPORT_EMAIL"`
	Debug        bool   `env:"DEBUG" envDefault:"false"`

	ConfigFile string `env:"CONFIG_FILE" envDefault:"./spellstory.toml"`
	Story      StoryConfig
}

// StoryConfig tunes story generation. Values come from the optional TOML file.
type StoryConfig struct {
	Temperature   float64  `toml:"temperature"`
	MaxTokens     int      `toml:"max-tokens"`
	BeatCount     int      `toml:"beats"`
	Theme         string   `toml:"theme"`
	ReadingLevel  string   `toml:"reading-level"`
	WordInfoModel string   `toml:"word-info-model"`
	Mechanics     []string `toml:"mechanics"`
}

type fileConfig struct {
	Story StoryConfig `toml:"story"`
}

// DefaultStoryConfig returns the story settings used when no file overrides them
func DefaultStoryConfig() StoryConfig {
	return StoryConfig{
		Temperature:  0.8,
		MaxTokens:    2048,
		BeatCount:    10,
		Theme:        "a friendly adventure",
		ReadingLevel: "ages 5-8",
	}
}

// Load reads configuration from environment variables with sensible defaults,
// then applies the optional TOML file on top of the story defaults
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.Story = DefaultStoryConfig()
	if err := applyFile(&cfg, cfg.ConfigFile); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyFile overlays non-zero story settings from a TOML file. A missing file is not an error.
func applyFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	s := fc.Story
	if s.Temperature > 0 {
		cfg.Story.Temperature = s.Temperature
	}
	if s.MaxTokens > 0 {
		cfg.Story.MaxTokens = s.MaxTokens
	}
	if s.BeatCount > 0 {
		cfg.Story.BeatCount = s.BeatCount
	}
	if s.Theme != "" {
		cfg.Story.Theme = s.Theme
	}
	if s.ReadingLevel != "" {
		cfg.Story.ReadingLevel = s.ReadingLevel
	}
	if s.WordInfoModel != "" {
		cfg.Story.WordInfoModel = s.WordInfoModel
	}
	if len(s.Mechanics) > 0 {
		cfg.Story.Mechanics = s.Mechanics
	}
	return nil
}
