package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv              string        `validate:"required"`
	Port                string        `validate:"required,numeric"`
	OpenAIAPIKey        string
	OpenAIBaseURL       string        `validate:"required,url"`
	OpenAIOrg           string
	OpenAIImageModel    string        `validate:"required"`
	OpenAIAnalysisModel string        `validate:"required"`
	GeminiAPIKey        string
	GeminiImageModel    string        `validate:"required"`
	ImageProvider       string        `validate:"oneof=openai gemini"`
	ImageSize           string        `validate:"oneof=1024x1024 512x512 256x256"`
	ProviderTimeout     time.Duration `validate:"gt=0"`
	MaxUploadBytes      int64         `validate:"gt=0"`
	HTTPReadTimeout     time.Duration `validate:"gt=0"`
	HTTPWriteTimeout    time.Duration `validate:"gt=0"`
	HTTPIdleTimeout     time.Duration `validate:"gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// Provider keys are optional: without them the generation adapter reports a missing key
// instead of calling out.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		OpenAIAPIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:       getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:           os.Getenv("OPENAI_ORG"),
		OpenAIImageModel:    getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		OpenAIAnalysisModel: getEnv("OPENAI_ANALYSIS_MODEL", "gpt-4.1-mini"),
		GeminiAPIKey:        strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiImageModel:    getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		ImageProvider:       strings.ToLower(getEnv("IMAGE_PROVIDER", "openai")),
		ImageSize:           getEnv("IMAGE_SIZE", "1024x1024"),
		ProviderTimeout:     time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 90)),
		MaxUploadBytes:      int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
