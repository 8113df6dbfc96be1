// Package tts synthesizes speech from text through the OpenAI speech API and
// optionally plays it back through an external audio player.
package tts

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kataras/golog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/smallnest/newsagent/config"
)

// Voice describes one synthesis voice.
type Voice struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Synthesizer converts text to MP3 audio.
type Synthesizer struct {
	client *openai.Client
	cfg    config.SpeechConfig

	// play is swapped out by tests.
	play func(ctx context.Context, path string) error
}

// NewSynthesizer builds a synthesizer. It requires OPENAI_API_KEY.
func NewSynthesizer(cfg config.SpeechConfig) (*Synthesizer, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	s := &Synthesizer{
		client: openai.NewClient(key),
		cfg:    cfg,
	}
	s.play = s.playWithCommand
	return s, nil
}

// Voices returns the synthesis voice catalog.
func (s *Synthesizer) Voices() []Voice {
	return []Voice{
		{ID: string(openai.VoiceAlloy), Name: "Alloy"},
		{ID: string(openai.VoiceEcho), Name: "Echo"},
		{ID: string(openai.VoiceFable), Name: "Fable"},
		{ID: string(openai.VoiceOnyx), Name: "Onyx"},
		{ID: string(openai.VoiceNova), Name: "Nova"},
		{ID: string(openai.VoiceShimmer), Name: "Shimmer"},
	}
}

// Synthesize writes the spoken form of text to an MP3 file and returns its
// path. speed is clamped to the API's 0.25-4.0 range; zero means default.
func (s *Synthesizer) Synthesize(ctx context.Context, text, voiceID string, speed float64) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text provided to speak")
	}

	voice := openai.VoiceAlloy
	if voiceID != "" {
		voice = openai.SpeechVoice(voiceID)
	}
	if speed != 0 {
		if speed < 0.25 {
			speed = 0.25
		}
		if speed > 4.0 {
			speed = 4.0
		}
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: text,
		Voice: voice,
		Speed: speed,
	})
	if err != nil {
		return "", fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.Close()

	path := filepath.Join(os.TempDir(), fmt.Sprintf("newsagent-speech-%s.mp3", uuid.New().String()))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create audio file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	return path, nil
}

// Speak synthesizes text and plays it through the configured player.
func (s *Synthesizer) Speak(ctx context.Context, text, voiceID string, speed float64) error {
	path, err := s.Synthesize(ctx, text, voiceID, speed)
	if err != nil {
		return err
	}
	defer os.Remove(path)
	return s.play(ctx, path)
}

// playWithCommand runs an external audio player on the file. The configured
// PlayerCommand wins; otherwise the first known player on PATH is used.
func (s *Synthesizer) playWithCommand(ctx context.Context, path string) error {
	var name string
	var args []string

	if s.cfg.PlayerCommand != "" {
		fields := strings.Fields(s.cfg.PlayerCommand)
		name, args = fields[0], fields[1:]
	} else {
		for _, candidate := range []string{"afplay", "mpg123", "ffplay", "mpv"} {
			if _, err := exec.LookPath(candidate); err == nil {
				name = candidate
				break
			}
		}
		if name == "" {
			return fmt.Errorf("no audio player found (install mpg123, ffplay or mpv, or set speech_recognition.player_command)")
		}
		if name == "ffplay" {
			args = []string{"-nodisp", "-autoexit", "-loglevel", "error"}
		}
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	golog.Debugf("playing %s via %s", path, name)
	cmd := exec.CommandContext(cctx, name, append(args, path)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w (%s)", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}
