package tts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/newsagent/config"
)

func TestNewSynthesizerRequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewSynthesizer(config.Default().Speech)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestVoices(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	s, err := NewSynthesizer(config.Default().Speech)
	require.NoError(t, err)

	voices := s.Voices()
	require.Len(t, voices, 6)
	assert.Equal(t, "alloy", voices[0].ID)
	assert.Equal(t, "Alloy", voices[0].Name)
}

func TestSynthesizeEmptyText(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	s, err := NewSynthesizer(config.Default().Speech)
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "   ", "", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text provided")
}

func TestSpeakTextToolEmptyInput(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	s, err := NewSynthesizer(config.Default().Speech)
	require.NoError(t, err)

	tool := &SpeakTextTool{synth: s}
	out, err := tool.Call(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Error: no text provided to speak", out)
}

func TestListVoicesTool(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	s, err := NewSynthesizer(config.Default().Speech)
	require.NoError(t, err)

	tool := &ListVoicesTool{synth: s}
	out, err := tool.Call(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Available voices:")
	assert.Contains(t, out, "(id: alloy)")
	assert.Contains(t, out, "(id: shimmer)")
}

func TestToolNames(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	s, err := NewSynthesizer(config.Default().Speech)
	require.NoError(t, err)

	var names []string
	for _, tool := range Tools(s) {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{"speak_text", "list_tts_voices"}, names)
}
