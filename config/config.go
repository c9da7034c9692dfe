package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	ClientURL string `env:"CLIENT_URL" envDefault:"http://localhost:5173"`

	MongoURI string `env:"MONGODB_URI,required"`
	MongoDB  string `env:"MONGO_DB" envDefault:"chatApp"`

	JWTSecret string `env:"JWT_SECRET,required"`

	UploadDir string `env:"UPLOAD_DIR" envDefault:"uploads"`

	// Generation collaborator. When AGENT_WEBHOOK_URL is set the service
	// delegates to the webhook agent; otherwise it talks to Gemini directly.
	AgentWebhookURL string `env:"AGENT_WEBHOOK_URL"`
	AgentStyle      string `env:"AGENT_STYLE" envDefault:"generate-question"`
	AgentPlatform   string `env:"AGENT_PLATFORM" envDefault:"gemini"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`

	// Default sampling parameters, overridable per request.
	Model       string  `env:"MODEL" envDefault:"gemini-1.5-flash-8b"`
	MaxTokens   int     `env:"MAX_TOKENS" envDefault:"2048"`
	Temperature float64 `env:"TEMPERATURE" envDefault:"0.7"`
	TopK        float64 `env:"TOP_K" envDefault:"40"`
	TopP        float64 `env:"TOP_P" envDefault:"0.95"`

	RepairInterval time.Duration `env:"REPAIR_INTERVAL" envDefault:"10m"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
