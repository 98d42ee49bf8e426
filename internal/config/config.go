package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kenroads/ntsabuddy/internal/llm"
)

// EnvPrefix namespaces every environment variable the app reads.
const EnvPrefix = "NTSABUDDY"

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env    string     `mapstructure:"env"` // local, production
	Log    Log        `mapstructure:"log"`
	DBPath string     `mapstructure:"db"` // empty = XDG data dir
	Server Server     `mapstructure:"server"`
	Quiz   Quiz       `mapstructure:"quiz"`
	LLM    llm.Config `mapstructure:"llm"`

	// Offline is set when no provider was configured and no API key could be
	// discovered. The mock provider is selected and every call falls back.
	Offline bool `mapstructure:"-"`
}

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"` // empty = stderr for serve, data dir file for the TUI
}

// Server configures `ntsabuddy serve`.
type Server struct {
	Addr           string        `mapstructure:"addr"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// Quiz configures question generation.
type Quiz struct {
	Questions   int     `mapstructure:"questions"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// Load reads configuration from .env, config.yaml and NTSABUDDY_* variables,
// in increasing priority. dirs overrides where config.yaml is searched; by
// default that is $XDG_CONFIG_HOME/ntsabuddy and the working directory.
func Load(dirs ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(dirs) == 0 {
		dirs = defaultConfigDirs()
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short aliases and the vendor variables the SDKs document.
	_ = v.BindEnv("db", "NTSABUDDY_DB")
	_ = v.BindEnv("llm.provider", "NTSABUDDY_LLM_PROVIDER", "NTSABUDDY_PROVIDER")
	_ = v.BindEnv("llm.gemini.api_key", "NTSABUDDY_LLM_GEMINI_API_KEY", "NTSABUDDY_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY")
	_ = v.BindEnv("llm.openai.api_key", "NTSABUDDY_LLM_OPENAI_API_KEY", "NTSABUDDY_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.anthropic.api_key", "NTSABUDDY_LLM_ANTHROPIC_API_KEY", "NTSABUDDY_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("llm.openrouter.api_key", "NTSABUDDY_LLM_OPENROUTER_API_KEY", "NTSABUDDY_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if cfg.LLM.Provider == "" {
		if found, ok := cfg.LLM.Discover(); ok {
			cfg.LLM = found
		} else {
			cfg.LLM.Provider = "mock"
			cfg.Offline = true
		}
	}

	if cfg.Quiz.Questions < 1 {
		return nil, fmt.Errorf("quiz.questions must be at least 1, got %d", cfg.Quiz.Questions)
	}
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Production reports whether the production logging profile applies.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")
	v.SetDefault("db", "")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.session_ttl", 30*time.Minute)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("quiz.questions", 5)
	v.SetDefault("quiz.max_tokens", 2048)
	v.SetDefault("quiz.temperature", 0.7)

	// llm.provider has no default so discovery can tell "unset" apart.
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)
	v.SetDefault("llm.timeout", d.Timeout)
}

func defaultConfigDirs() []string {
	var dirs []string
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, "ntsabuddy"))
	}
	return append(dirs, ".")
}
