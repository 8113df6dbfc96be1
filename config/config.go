// Package config loads application configuration from an optional YAML file,
// a .env file, and environment variables. Environment variables win over the
// YAML file, which wins over built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// DefaultModelProvider selects the LLM backend: "groq" or "openai".
	DefaultModelProvider string `yaml:"default_model_provider"`

	Memory MemoryConfig `yaml:"memory"`
	Speech SpeechConfig `yaml:"speech_recognition"`
	News   NewsConfig   `yaml:"news"`
	Server ServerConfig `yaml:"server"`
}

// MemoryConfig controls conversation checkpointing.
type MemoryConfig struct {
	Enabled         bool   `yaml:"enabled"`
	DefaultThreadID string `yaml:"default_thread_id"`
	// Store selects the checkpoint backend: "memory", "sqlite" or "redis".
	Store      string `yaml:"store"`
	SqlitePath string `yaml:"sqlite_path"`
	RedisAddr  string `yaml:"redis_addr"`
}

// SpeechConfig controls transcription and microphone capture.
type SpeechConfig struct {
	DefaultLanguage    string   `yaml:"default_language"`
	SupportedLanguages []string `yaml:"supported_languages"`
	// RecorderCommand overrides the autodetected capture command
	// (ffmpeg, arecord or sox).
	RecorderCommand string `yaml:"recorder_command"`
	// PlayerCommand overrides the autodetected playback command for TTS.
	PlayerCommand string `yaml:"player_command"`
	// MaxRecordSeconds caps the duration of a single microphone capture.
	MaxRecordSeconds int `yaml:"max_record_seconds"`
}

// NewsConfig controls the news-search fan-out.
type NewsConfig struct {
	MaxResults      int      `yaml:"max_results"`
	TechDomains     []string `yaml:"tech_domains"`
	BusinessDomains []string `yaml:"business_domains"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultModelProvider: "groq",
		Memory: MemoryConfig{
			Enabled:         true,
			DefaultThreadID: "default",
			Store:           "memory",
			SqlitePath:      "newsagent.db",
			RedisAddr:       "localhost:6379",
		},
		Speech: SpeechConfig{
			DefaultLanguage: "en-US",
			SupportedLanguages: []string{
				"en-US", "en-GB", "es-ES", "fr-FR", "de-DE", "zh-CN", "ja-JP",
			},
			MaxRecordSeconds: 60,
		},
		News: NewsConfig{
			MaxResults: 10,
			TechDomains: []string{
				"techcrunch.com", "arstechnica.com", "theverge.com",
				"wired.com", "engadget.com", "venturebeat.com",
			},
			BusinessDomains: []string{
				"bloomberg.com", "reuters.com", "cnbc.com",
				"wsj.com", "ft.com", "marketwatch.com",
			},
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
	}
}

// Load reads configuration from .env, an optional config.yaml and the
// environment. A missing config file is not an error.
func Load() (Config, error) {
	return LoadFile(getEnv("NEWSAGENT_CONFIG", "config.yaml"))
}

// LoadFile is Load with an explicit YAML path.
func LoadFile(path string) (Config, error) {
	// .env is optional; ignore a missing file.
	_ = godotenv.Load()

	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.DefaultModelProvider = getEnv("MODEL_PROVIDER", cfg.DefaultModelProvider)
	cfg.Memory.Store = getEnv("MEMORY_STORE", cfg.Memory.Store)
	cfg.Memory.SqlitePath = getEnv("MEMORY_SQLITE_PATH", cfg.Memory.SqlitePath)
	cfg.Memory.RedisAddr = getEnv("MEMORY_REDIS_ADDR", cfg.Memory.RedisAddr)
	cfg.Memory.DefaultThreadID = getEnv("MEMORY_THREAD_ID", cfg.Memory.DefaultThreadID)
	if v := os.Getenv("MEMORY_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Memory.Enabled = b
		}
	}
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
}

// Validate checks that the selected provider has its API key configured.
func (c Config) Validate() error {
	switch c.DefaultModelProvider {
	case "groq":
		if os.Getenv("GROQ_API_KEY") == "" {
			return fmt.Errorf("GROQ_API_KEY environment variable is required for provider %q", c.DefaultModelProvider)
		}
	case "openai":
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable is required for provider %q", c.DefaultModelProvider)
		}
	default:
		return fmt.Errorf("unknown model provider %q (supported: groq, openai)", c.DefaultModelProvider)
	}
	return nil
}

// SupportsLanguage reports whether lang is in the supported language list.
func (c SpeechConfig) SupportsLanguage(lang string) bool {
	for _, l := range c.SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
