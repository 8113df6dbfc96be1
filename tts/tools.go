package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/tools"
)

// Tools returns the speech-synthesis tools the agent can call.
func Tools(s *Synthesizer) []tools.Tool {
	return []tools.Tool{
		&SpeakTextTool{synth: s},
		&ListVoicesTool{synth: s},
	}
}

// SpeakTextTool speaks a piece of text out loud.
type SpeakTextTool struct {
	synth *Synthesizer
}

func (t *SpeakTextTool) Name() string { return "speak_text" }

func (t *SpeakTextTool) Description() string {
	return "Speak the given text out loud through the system speakers. " +
		"Input is either plain text, or a JSON object {\"text\": ..., \"voice\": ..., \"speed\": ...}. " +
		"Voice is one of the ids returned by list_tts_voices; speed ranges from 0.25 to 4.0."
}

func (t *SpeakTextTool) Call(ctx context.Context, input string) (string, error) {
	var req struct {
		Text  string  `json:"text"`
		Voice string  `json:"voice"`
		Speed float64 `json:"speed"`
	}
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &req); err != nil {
			req.Text = trimmed
		}
	} else {
		req.Text = trimmed
	}
	if req.Text == "" {
		return "Error: no text provided to speak", nil
	}

	if err := t.synth.Speak(ctx, req.Text, req.Voice, req.Speed); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	return "Spoke the text successfully.", nil
}

// ListVoicesTool lists the available synthesis voices.
type ListVoicesTool struct {
	synth *Synthesizer
}

func (t *ListVoicesTool) Name() string { return "list_tts_voices" }

func (t *ListVoicesTool) Description() string {
	return "List the available text-to-speech voices with their ids."
}

func (t *ListVoicesTool) Call(ctx context.Context, input string) (string, error) {
	voices := t.synth.Voices()
	var sb strings.Builder
	sb.WriteString("Available voices:\n")
	for i, v := range voices {
		fmt.Fprintf(&sb, "%d. %s (id: %s)\n", i+1, v.Name, v.ID)
	}
	return sb.String(), nil
}
