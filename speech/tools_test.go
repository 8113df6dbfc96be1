package speech

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeechToolNames(t *testing.T) {
	tr := NewTranscriberWithEngines(testSpeechConfig(), nil)
	r := NewRecorder(testSpeechConfig())

	var names []string
	for _, tool := range Tools(tr, r) {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{
		"transcribe_audio_file",
		"transcribe_audio_from_microphone",
		"transcribe_base64_audio",
		"list_microphones",
	}, names)
}

func TestTranscribeFileToolMissingFile(t *testing.T) {
	tr := NewTranscriberWithEngines(testSpeechConfig(), nil)
	tool := &TranscribeFileTool{t: tr}

	out, err := tool.Call(context.Background(), "/nonexistent/audio.wav")
	require.NoError(t, err)
	assert.Equal(t, "Error: Audio file not found at /nonexistent/audio.wav", out)
}

func TestTranscribeFileToolUnsupportedLanguage(t *testing.T) {
	tr := NewTranscriberWithEngines(testSpeechConfig(), nil)
	tool := &TranscribeFileTool{t: tr}

	out, err := tool.Call(context.Background(), `{"audio_file_path": "/tmp/a.wav", "language": "xx-XX"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "unsupported language")
}

func TestTranscribeBase64ToolBadInput(t *testing.T) {
	tr := NewTranscriberWithEngines(testSpeechConfig(), nil)
	tool := &TranscribeBase64Tool{t: tr}

	out, err := tool.Call(context.Background(), `{"audio_base64": "not-base64!!!"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "Error processing base64 audio")
}

func TestMicrophoneToolTimeoutHint(t *testing.T) {
	cfg := testSpeechConfig()
	cfg.RecorderCommand = "myrec"

	tr := NewTranscriberWithEngines(cfg, nil)
	r := NewRecorder(cfg)
	r.runCommand = func(ctx context.Context, name string, args ...string) error {
		return context.DeadlineExceeded
	}

	tool := &TranscribeMicrophoneTool{t: tr, r: r}
	out, err := tool.Call(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Transcription failed")
}

func TestListMicrophonesTool(t *testing.T) {
	r := NewRecorder(testSpeechConfig())
	r.listOutput = func(ctx context.Context) (string, error) {
		return arecordListOutput, nil
	}

	tool := &ListMicrophonesTool{r: r}
	out, err := tool.Call(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Available microphones:")
	assert.Contains(t, out, "[0] HDA Intel PCH")
	assert.Contains(t, out, "[1] USB Webcam")
}

func TestFormatResult(t *testing.T) {
	ok := formatResult(Result{Success: true, Engine: "groq", Text: "hello"})
	assert.Equal(t, "Transcription successful using groq engine:\n\nhello", ok)

	failed := formatResult(Result{Success: false, Error: "listening timed out while waiting for transcription"})
	assert.Contains(t, failed, "Transcription failed")
	assert.Contains(t, failed, "Hint:")
}

func TestParseToolInput(t *testing.T) {
	var req struct {
		Path string `json:"audio_file_path"`
		Lang string `json:"language"`
	}
	parseToolInput(`{"audio_file_path": "/tmp/a.wav", "language": "fr-FR"}`, &req, &req.Path)
	assert.Equal(t, "/tmp/a.wav", req.Path)
	assert.Equal(t, "fr-FR", req.Lang)

	req.Path, req.Lang = "", ""
	parseToolInput("  /tmp/b.wav  ", &req, &req.Path)
	assert.Equal(t, "/tmp/b.wav", req.Path)
	assert.Empty(t, req.Lang)
}
