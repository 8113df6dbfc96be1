package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tmc/langchaingo/tools"
)

// Tools returns the speech tools backed by the transcriber and recorder.
func Tools(t *Transcriber, r *Recorder) []tools.Tool {
	return []tools.Tool{
		&TranscribeFileTool{t: t},
		&TranscribeMicrophoneTool{t: t, r: r},
		&TranscribeBase64Tool{t: t},
		&ListMicrophonesTool{r: r},
	}
}

// TranscribeFileTool transcribes speech from an audio file.
type TranscribeFileTool struct {
	t *Transcriber
}

var _ tools.Tool = (*TranscribeFileTool)(nil)

func (tt *TranscribeFileTool) Name() string {
	return "transcribe_audio_file"
}

func (tt *TranscribeFileTool) Description() string {
	return "Transcribe speech from an audio file to text. " +
		`Input is either the file path, or JSON like {"audio_file_path": "...", "language": "en-US"}.`
}

func (tt *TranscribeFileTool) Call(ctx context.Context, input string) (string, error) {
	var req struct {
		AudioFilePath string `json:"audio_file_path"`
		Language      string `json:"language"`
	}
	parseToolInput(input, &req, &req.AudioFilePath)

	if req.Language == "" {
		req.Language = tt.t.DefaultLanguage()
	}
	if err := tt.t.ValidateLanguage(req.Language); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	if _, err := os.Stat(req.AudioFilePath); err != nil {
		return fmt.Sprintf("Error: Audio file not found at %s", req.AudioFilePath), nil
	}

	result := tt.t.TranscribeFile(ctx, req.AudioFilePath, req.Language)
	return formatResult(result), nil
}

// TranscribeMicrophoneTool records from the microphone and transcribes.
// Input fields mirror the CLI listen command: duration, language, device
// index and start timeout, space separated, all optional.
type TranscribeMicrophoneTool struct {
	t *Transcriber
	r *Recorder
}

var _ tools.Tool = (*TranscribeMicrophoneTool)(nil)

func (tt *TranscribeMicrophoneTool) Name() string {
	return "transcribe_audio_from_microphone"
}

func (tt *TranscribeMicrophoneTool) Description() string {
	return "Transcribe speech from microphone input to text. " +
		"Input is optional: '<duration seconds> <language> <device index> <start timeout seconds>', " +
		"for example '5 en-US 0 15'. Defaults: 5 seconds, default language, default device."
}

func (tt *TranscribeMicrophoneTool) Call(ctx context.Context, input string) (string, error) {
	duration, lang, device, startTimeout := ParseListenArgs(input, tt.t.DefaultLanguage())

	if err := tt.t.ValidateLanguage(lang); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	path, err := tt.r.Record(ctx, duration, device, startTimeout)
	if err != nil {
		msg := fmt.Sprintf("Transcription failed: %v", err)
		if strings.Contains(strings.ToLower(err.Error()), "timed out") {
			msg += "\nHint: try 'mics' to choose the correct device, or increase the start timeout (e.g., 'listen 8 en-US 0 15', or 0 to wait indefinitely)."
		}
		return msg, nil
	}
	defer os.Remove(path)

	result := tt.t.TranscribeFile(ctx, path, lang)
	return formatResult(result), nil
}

// TranscribeBase64Tool transcribes base64-encoded audio data.
type TranscribeBase64Tool struct {
	t *Transcriber
}

var _ tools.Tool = (*TranscribeBase64Tool)(nil)

func (tt *TranscribeBase64Tool) Name() string {
	return "transcribe_base64_audio"
}

func (tt *TranscribeBase64Tool) Description() string {
	return "Transcribe speech from base64 encoded audio data to text. " +
		`Input is JSON like {"audio_base64": "...", "format": "wav", "language": "en-US"}.`
}

func (tt *TranscribeBase64Tool) Call(ctx context.Context, input string) (string, error) {
	var req struct {
		AudioBase64 string `json:"audio_base64"`
		Format      string `json:"format"`
		Language    string `json:"language"`
	}
	parseToolInput(input, &req, &req.AudioBase64)

	if req.Language == "" {
		req.Language = tt.t.DefaultLanguage()
	}
	if err := tt.t.ValidateLanguage(req.Language); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	data, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		return fmt.Sprintf("Error processing base64 audio: %v", err), nil
	}

	result := tt.t.TranscribeBytes(ctx, data, req.Format, req.Language)
	return formatResult(result), nil
}

// ListMicrophonesTool lists available capture devices.
type ListMicrophonesTool struct {
	r *Recorder
}

var _ tools.Tool = (*ListMicrophonesTool)(nil)

func (tt *ListMicrophonesTool) Name() string {
	return "list_microphones"
}

func (tt *ListMicrophonesTool) Description() string {
	return "List available microphone devices and their indices. No input required."
}

func (tt *ListMicrophonesTool) Call(ctx context.Context, _ string) (string, error) {
	mics, err := tt.r.ListMicrophones(ctx)
	if err != nil {
		return fmt.Sprintf("Error listing microphones: %v", err), nil
	}
	if len(mics) == 0 {
		return "No microphones found.", nil
	}
	lines := make([]string, 0, len(mics))
	for _, m := range mics {
		lines = append(lines, fmt.Sprintf("[%d] %s", m.Index, m.Name))
	}
	return "Available microphones:\n" + strings.Join(lines, "\n"), nil
}

// formatResult renders a transcription result the way the agent and REPL
// present it.
func formatResult(r Result) string {
	if r.Success {
		return fmt.Sprintf("Transcription successful using %s engine:\n\n%s", r.Engine, r.Text)
	}
	msg := fmt.Sprintf("Transcription failed: %s", r.Error)
	if strings.Contains(strings.ToLower(r.Error), "timed out") {
		msg += "\nHint: try 'mics' to choose the correct device, or increase the start timeout."
	}
	return msg
}

// ParseListenArgs parses "duration language device startTimeout" with every
// field optional. A start timeout of zero or below means wait indefinitely,
// reported here as no extra deadline allowance.
func ParseListenArgs(input, defaultLang string) (duration int, lang string, device int, startTimeout time.Duration) {
	duration = 5
	lang = defaultLang
	device = -1
	startTimeout = 12 * time.Second

	fields := strings.Fields(input)
	if len(fields) > 0 {
		if d, err := strconv.Atoi(fields[0]); err == nil && d > 0 {
			duration = d
		}
	}
	if len(fields) > 1 {
		lang = fields[1]
	}
	if len(fields) > 2 {
		if d, err := strconv.Atoi(fields[2]); err == nil && d >= 0 {
			device = d
		}
	}
	if len(fields) > 3 {
		if s, err := strconv.ParseFloat(fields[3], 64); err == nil {
			if s <= 0 {
				startTimeout = 0
			} else {
				startTimeout = time.Duration(s * float64(time.Second))
			}
		}
	}
	return duration, lang, device, startTimeout
}

// parseToolInput decodes JSON input when present, otherwise stores the
// trimmed input into the fallback field.
func parseToolInput(input string, target any, fallback *string) {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), target); err == nil {
			return
		}
	}
	*fallback = trimmed
}
