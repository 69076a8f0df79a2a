package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Upload      UploadConfig
	Model       ModelConfig
	RedisConfig RedisConfig
	Log         LogConfig
	CacheEnable bool `env:"CACHE_ENABLE"`
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"3000"`
	Timeout         time.Duration `env:"SERVER_TIMEOUT" envDefault:"0s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ThrottleLimit   int           `env:"SERVER_THROTTLE_LIMIT" envDefault:"0"`
}

type UploadConfig struct {
	Dir string `env:"UPLOAD_DIR" envDefault:"uploads"`
}

// ModelConfig selects the generation backend. Only the section matching
// Provider is used.
type ModelConfig struct {
	Provider  string `env:"MODEL_PROVIDER" envDefault:"gemini"`
	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Ollama    OllamaConfig
}

type GeminiConfig struct {
	APIKey string `env:"GOOGLE_API_KEY"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
}

type OpenAIConfig struct {
	APIKey      string `env:"OPENAI_API_KEY"`
	BaseURL     string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Model       string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	RenderPDF   bool   `env:"OPENAI_RENDER_PDF" envDefault:"false"`
	PDFMaxPages int    `env:"OPENAI_PDF_MAX_PAGES" envDefault:"5"`
}

type AnthropicConfig struct {
	APIKey    string `env:"ANTHROPIC_API_KEY"`
	Model     string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-sonnet-latest"`
	MaxTokens int64  `env:"ANTHROPIC_MAX_TOKENS" envDefault:"1024"`
}

type OllamaConfig struct {
	Host  string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	Model string `env:"OLLAMA_MODEL" envDefault:"llava"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" envDefault:"redis:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"10m"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads an optional .env file from the working directory and then
// parses the process environment. Variables already set win over .env.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
