package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/newsagent/config"
)

func testSpeechConfig() config.SpeechConfig {
	return config.Default().Speech
}

func TestValidateLanguage(t *testing.T) {
	tr := NewTranscriberWithEngines(testSpeechConfig(), nil)

	assert.NoError(t, tr.ValidateLanguage("en-US"))

	err := tr.ValidateLanguage("xx-XX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
	assert.Contains(t, err.Error(), "en-US")
}

func TestUnsupportedLanguageShortCircuits(t *testing.T) {
	// Zero-value engines would panic on use; the language check must
	// reject the request before any engine is touched.
	tr := NewTranscriberWithEngines(testSpeechConfig(), []Engine{{Name: "groq"}})

	result := tr.TranscribeBytes(context.Background(), []byte("audio"), "wav", "xx-XX")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unsupported language")
	assert.Equal(t, "none", result.Engine)
	assert.Equal(t, "low", result.Confidence)
}

func TestTranscribeFileMissing(t *testing.T) {
	tr := NewTranscriberWithEngines(testSpeechConfig(), nil)

	result := tr.TranscribeFile(context.Background(), "/nonexistent/audio.wav", "en-US")

	assert.False(t, result.Success)
	assert.Equal(t, "audio file not found at /nonexistent/audio.wav", result.Error)
}

func TestTranscribeBytesEmpty(t *testing.T) {
	tr := NewTranscriberWithEngines(testSpeechConfig(), nil)

	result := tr.TranscribeBytes(context.Background(), nil, "wav", "en-US")

	assert.False(t, result.Success)
	assert.Equal(t, "no audio data provided", result.Error)
}

func TestNoEnginesConfigured(t *testing.T) {
	tr := NewTranscriberWithEngines(testSpeechConfig(), nil)

	result := tr.TranscribeBytes(context.Background(), []byte("audio"), "wav", "en-US")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no speech recognition engines configured")
}

func TestDefaultLanguage(t *testing.T) {
	tr := NewTranscriberWithEngines(testSpeechConfig(), nil)
	assert.Equal(t, "en-US", tr.DefaultLanguage())
	assert.Contains(t, tr.SupportedLanguages(), "en-US")
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, isTimeout(context.DeadlineExceeded))
	assert.True(t, isTimeout(errors.New("request timed out")))
	assert.True(t, isTimeout(errors.New("connection timeout")))
	assert.False(t, isTimeout(errors.New("bad request")))
}

func TestIsoLanguage(t *testing.T) {
	assert.Equal(t, "en", isoLanguage("en-US"))
	assert.Equal(t, "fr", isoLanguage("fr-FR"))
	assert.Equal(t, "en", isoLanguage("en"))
}
