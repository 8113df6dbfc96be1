// Package provider selects and constructs the LLM backend for the agent.
// Two hosted inference services are supported: OpenAI and Groq. Groq exposes
// an OpenAI-compatible API, so both are served by the langchaingo openai
// client with different base URLs.
package provider

import (
	"fmt"
	"os"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// GroqBaseURL is Groq's OpenAI-compatible endpoint.
	GroqBaseURL = "https://api.groq.com/openai/v1"

	defaultOpenAIModel = "gpt-4o-mini"
	defaultGroqModel   = "llama-3.3-70b-versatile"
)

// Load returns the llms.Model for the named provider ("groq" or "openai").
func Load(name string) (llms.Model, error) {
	switch name {
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		model, err := openai.New(
			openai.WithToken(key),
			openai.WithModel(getEnv("OPENAI_MODEL", defaultOpenAIModel)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to init openai model: %w", err)
		}
		return model, nil

	case "groq":
		key := os.Getenv("GROQ_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("GROQ_API_KEY not set")
		}
		model, err := openai.New(
			openai.WithToken(key),
			openai.WithBaseURL(GroqBaseURL),
			openai.WithModel(getEnv("GROQ_MODEL", defaultGroqModel)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to init groq model: %w", err)
		}
		return model, nil

	default:
		return nil, fmt.Errorf("unsupported model provider %q (supported: groq, openai)", name)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
