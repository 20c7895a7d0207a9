package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/astro.db"`

	// Defaults applied to users created on first /start.
	DefaultTZ       string `envconfig:"DEFAULT_TZ" default:"America/Detroit"`
	DefaultLocation string `envconfig:"DEFAULT_LOCATION" default:"usa/detroit"` // timeanddate night-sky page path
	DailyHour       int    `envconfig:"DAILY_HOUR" default:"17"`
	DailyMinute     int    `envconfig:"DAILY_MINUTE" default:"0"`

	// Summarizer. GeminiEnabled is the process-wide default; users can
	// override it with /mode.
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash-001"`
	GeminiEnabled bool   `envconfig:"GEMINI_ENABLED" default:"false"`

	// Optional SerpAPI enrichment of LLM prompts. No key, no searches.
	SerpAPIKey    string `envconfig:"SERPAPI_API_KEY"`
	LLMFetchPages bool   `envconfig:"LLM_FETCH_PAGES" default:"true"` // pull text of top search hits

	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"12s"` // scraping and LLM calls
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`   // debug|info|warn|error
	HTTPAddr    string        `envconfig:"HTTP_ADDR" default:":8080"`  // healthz
}

// Load reads an optional .env file and then environment variables into Config.
func Load() (Config, error) {
	_ = godotenv.Load() // .env is optional
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
