// Package speech converts spoken audio into text. Recognition runs through a
// chain of Whisper-compatible engines: Groq first when its key is configured,
// then OpenAI. The first engine to produce text wins; later engines are
// fallbacks with a lower confidence tier.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/smallnest/newsagent/config"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// Engine is a single speech-recognition backend.
type Engine struct {
	// Name identifies the engine in results ("groq", "openai").
	Name string
	// Model is the Whisper model to request.
	Model string

	client *openai.Client
}

// NewEngine builds an engine from an API key and optional base URL override.
func NewEngine(name, model, apiKey, baseURL string) Engine {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return Engine{
		Name:   name,
		Model:  model,
		client: openai.NewClientWithConfig(cfg),
	}
}

// Result is the outcome of one transcription attempt.
type Result struct {
	Success    bool   `json:"success"`
	Text       string `json:"text"`
	Confidence string `json:"confidence"`
	Engine     string `json:"engine"`
	Language   string `json:"language"`
	Error      string `json:"error,omitempty"`
}

// Transcriber runs audio through the engine chain.
type Transcriber struct {
	engines []Engine
	cfg     config.SpeechConfig
}

// NewTranscriber builds the default engine chain from the environment:
// Groq Whisper when GROQ_API_KEY is set, OpenAI Whisper when OPENAI_API_KEY
// is set. A transcriber without engines reports failure on every attempt.
func NewTranscriber(cfg config.SpeechConfig) *Transcriber {
	var engines []Engine
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		engines = append(engines, NewEngine("groq", "whisper-large-v3", key, groqBaseURL))
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		engines = append(engines, NewEngine("openai", openai.Whisper1, key, ""))
	}
	return NewTranscriberWithEngines(cfg, engines)
}

// NewTranscriberWithEngines wires an explicit engine chain. Used by tests.
func NewTranscriberWithEngines(cfg config.SpeechConfig, engines []Engine) *Transcriber {
	return &Transcriber{engines: engines, cfg: cfg}
}

// DefaultLanguage returns the configured default language code.
func (t *Transcriber) DefaultLanguage() string {
	if t.cfg.DefaultLanguage != "" {
		return t.cfg.DefaultLanguage
	}
	return "en-US"
}

// SupportedLanguages returns the configured language codes.
func (t *Transcriber) SupportedLanguages() []string {
	return t.cfg.SupportedLanguages
}

// ValidateLanguage rejects language codes outside the configured list.
// Validation happens before any recognizer is invoked.
func (t *Transcriber) ValidateLanguage(lang string) error {
	if t.cfg.SupportsLanguage(lang) {
		return nil
	}
	return fmt.Errorf("unsupported language %q, supported languages: %s",
		lang, strings.Join(t.cfg.SupportedLanguages, ", "))
}

// TranscribeFile transcribes the audio file at path.
func (t *Transcriber) TranscribeFile(ctx context.Context, path, lang string) Result {
	if _, err := os.Stat(path); err != nil {
		return failure(lang, fmt.Sprintf("audio file not found at %s", path))
	}
	return t.run(ctx, lang, func(ctx context.Context, e Engine) (string, error) {
		resp, err := e.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    e.Model,
			FilePath: path,
			Language: isoLanguage(lang),
		})
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	})
}

// TranscribeBytes transcribes in-memory audio data. format names the
// container ("wav", "mp3", ...) so the API can decode it.
func (t *Transcriber) TranscribeBytes(ctx context.Context, data []byte, format, lang string) Result {
	if len(data) == 0 {
		return failure(lang, "no audio data provided")
	}
	if format == "" {
		format = "wav"
	}
	return t.run(ctx, lang, func(ctx context.Context, e Engine) (string, error) {
		resp, err := e.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    e.Model,
			FilePath: "audio." + format,
			Reader:   bytes.NewReader(data),
			Language: isoLanguage(lang),
		})
		if err != nil {
			return "", err
		}
		return resp.Text, nil
	})
}

// run walks the engine chain until one succeeds. The first engine reports
// high confidence, fallbacks medium, mirroring the tiering of the recognizer
// chain this replaces.
func (t *Transcriber) run(ctx context.Context, lang string, attempt func(context.Context, Engine) (string, error)) Result {
	if lang == "" {
		lang = t.DefaultLanguage()
	}
	// Rejecting an unsupported language must happen before any engine call.
	if err := t.ValidateLanguage(lang); err != nil {
		return failure(lang, err.Error())
	}
	if len(t.engines) == 0 {
		return failure(lang, "no speech recognition engines configured (set GROQ_API_KEY or OPENAI_API_KEY)")
	}

	var lastErr error
	for i, engine := range t.engines {
		text, err := attempt(ctx, engine)
		if err != nil {
			lastErr = err
			if isTimeout(err) {
				return failure(lang, "listening timed out while waiting for transcription")
			}
			continue
		}
		if strings.TrimSpace(text) == "" {
			lastErr = errors.New("could not understand audio")
			continue
		}
		confidence := "high"
		if i > 0 {
			confidence = "medium"
		}
		return Result{
			Success:    true,
			Text:       text,
			Confidence: confidence,
			Engine:     engine.Name,
			Language:   lang,
		}
	}
	return failure(lang, lastErr.Error())
}

func failure(lang, msg string) Result {
	return Result{
		Success:    false,
		Error:      msg,
		Confidence: "low",
		Engine:     "none",
		Language:   lang,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout") ||
		strings.Contains(strings.ToLower(err.Error()), "timed out")
}

// isoLanguage maps locale codes like "en-US" to the ISO-639-1 form Whisper
// expects ("en").
func isoLanguage(lang string) string {
	if i := strings.IndexByte(lang, '-'); i > 0 {
		return lang[:i]
	}
	return lang
}
