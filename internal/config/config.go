package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting of the service.
type Config struct {
	App     AppConfig
	Server  ServerConfig
	AI      AIConfig
	Image   ImageConfig
	Session SessionConfig
}

// AppConfig controls process-wide behaviour.
type AppConfig struct {
	Env      string `env:"APP_ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Development reports whether human-friendly logging should be used.
func (c AppConfig) Development() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	AllowedOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	ReadHeaderTimeout time.Duration `env:"SERVER_READ_HEADER_TIMEOUT" envDefault:"5s"`
	MaxBodyBytes      int64         `env:"SERVER_MAX_BODY_BYTES" envDefault:"10485760"`

	// Addr is derived from Port.
	Addr string `env:"-"`
}

// AIConfig describes the optional model-backed concept generator.
type AIConfig struct {
	APIKey      string        `env:"ARK_API_KEY"`
	AccessKey   string        `env:"ARK_ACCESS_KEY"`
	SecretKey   string        `env:"ARK_SECRET_KEY"`
	Model       string        `env:"ARK_MODEL"`
	BaseURL     string        `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	Region      string        `env:"ARK_REGION" envDefault:"cn-beijing"`
	Temperature *float64      `env:"ARK_TEMPERATURE"`
	TopP        *float64      `env:"ARK_TOP_P"`
	MaxTokens   *int          `env:"ARK_MAX_TOKENS"`
	Timeout     time.Duration `env:"AI_TIMEOUT" envDefault:"20s"`
	Disabled    bool          `env:"AI_CONCEPTS_DISABLED"`
}

// ImageConfig points the placeholder image resolver at a host.
type ImageConfig struct {
	PlaceholderBaseURL string `env:"IMAGE_PLACEHOLDER_BASE_URL" envDefault:"https://picsum.photos"`
}

// SessionConfig bounds session lifetime and uploads.
type SessionConfig struct {
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	MaxPhotoBytes int64         `env:"SESSION_MAX_PHOTO_BYTES" envDefault:"5242880"`
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom reads configuration from the given variables only.
func LoadFrom(environment map[string]string) (*Config, error) {
	return load(env.Options{Environment: environment})
}

func load(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	addr, err := listenAddr(cfg.Server.Port)
	if err != nil {
		return nil, err
	}
	cfg.Server.Addr = addr

	if cfg.Session.TTL <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL value %q", cfg.Session.TTL)
	}
	return &cfg, nil
}

// listenAddr accepts "8080", ":8080" or "127.0.0.1:8080".
func listenAddr(port string) (string, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}
	if strings.Contains(port, " ") {
		return "", fmt.Errorf("invalid PORT value: %q", port)
	}
	if strings.Contains(port, ":") {
		return port, nil
	}
	return ":" + port, nil
}

// Enabled reports whether credentials and a model are configured.
func (c AIConfig) Enabled() bool {
	if c.Disabled {
		return false
	}
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel creates the ark chat model described by c.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: set ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var timeout *time.Duration
	if c.Timeout > 0 {
		val := c.Timeout
		timeout = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
		Timeout:     timeout,
	}

	return ark.NewChatModel(ctx, cfg)
}
