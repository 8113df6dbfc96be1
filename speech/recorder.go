package speech

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kataras/golog"

	"github.com/smallnest/newsagent/config"
)

// Microphone is a capture device visible to the recorder.
type Microphone struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Recorder captures microphone audio to a WAV file through an external
// recorder command (ffmpeg, arecord or sox, whichever is installed).
type Recorder struct {
	cfg config.SpeechConfig

	// runCommand is swapped out by tests.
	runCommand func(ctx context.Context, name string, args ...string) error
	// listOutput is swapped out by tests to stub `arecord -l`.
	listOutput func(ctx context.Context) (string, error)
}

// NewRecorder builds a recorder from configuration.
func NewRecorder(cfg config.SpeechConfig) *Recorder {
	r := &Recorder{cfg: cfg}
	r.runCommand = func(ctx context.Context, name string, args ...string) error {
		cmd := exec.CommandContext(ctx, name, args...)
		out, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("%s failed: %w (%s)", name, err, strings.TrimSpace(string(out)))
		}
		return nil
	}
	r.listOutput = func(ctx context.Context) (string, error) {
		out, err := exec.CommandContext(ctx, "arecord", "-l").CombinedOutput()
		return string(out), err
	}
	return r
}

// Record captures duration seconds of audio from the device with the given
// index (-1 for the default device) and returns the path of the written WAV
// file. startTimeout extends the command deadline to allow for device
// startup; zero or negative means no extra allowance.
func (r *Recorder) Record(ctx context.Context, duration int, deviceIndex int, startTimeout time.Duration) (string, error) {
	if duration <= 0 {
		duration = 5
	}
	if max := r.cfg.MaxRecordSeconds; max > 0 && duration > max {
		duration = max
	}

	name, args, err := r.captureCommand(duration, deviceIndex)
	if err != nil {
		return "", err
	}
	outPath := filepath.Join(os.TempDir(), fmt.Sprintf("newsagent-capture-%s.wav", uuid.New().String()))
	args = append(args, outPath)

	deadline := time.Duration(duration)*time.Second + 10*time.Second
	if startTimeout > 0 {
		deadline += startTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	golog.Debugf("recording %ds via %s", duration, name)
	if err := r.runCommand(cctx, name, args...); err != nil {
		os.Remove(outPath)
		if cctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("listening timed out while waiting for phrase to start")
		}
		return "", err
	}
	return outPath, nil
}

// captureCommand picks the recorder binary and its arguments. The configured
// RecorderCommand wins; otherwise the first of ffmpeg, arecord and sox found
// on PATH is used.
func (r *Recorder) captureCommand(duration, deviceIndex int) (string, []string, error) {
	if r.cfg.RecorderCommand != "" {
		fields := strings.Fields(r.cfg.RecorderCommand)
		return fields[0], append(fields[1:], fmt.Sprintf("%d", duration)), nil
	}

	switch {
	case commandExists("ffmpeg"):
		input := "default"
		if deviceIndex >= 0 {
			input = fmt.Sprintf("hw:%d", deviceIndex)
		}
		format := "alsa"
		if runtime.GOOS == "darwin" {
			format = "avfoundation"
			input = ":0"
			if deviceIndex >= 0 {
				input = fmt.Sprintf(":%d", deviceIndex)
			}
		}
		return "ffmpeg", []string{
			"-y", "-loglevel", "error",
			"-f", format, "-i", input,
			"-t", fmt.Sprintf("%d", duration),
			"-ar", "16000", "-ac", "1",
		}, nil

	case commandExists("arecord"):
		args := []string{"-f", "cd", "-d", fmt.Sprintf("%d", duration)}
		if deviceIndex >= 0 {
			args = append(args, "-D", fmt.Sprintf("plughw:%d", deviceIndex))
		}
		return "arecord", args, nil

	case commandExists("sox"):
		return "sox", []string{"-d", "-r", "16000", "-c", "1"}, nil

	default:
		return "", nil, fmt.Errorf("no audio recorder found (install ffmpeg, arecord or sox, or set speech_recognition.recorder_command)")
	}
}

var arecordCardRe = regexp.MustCompile(`^card (\d+): ([^\[]+)\[([^\]]+)\]`)

// ListMicrophones returns the capture devices reported by `arecord -l`.
func (r *Recorder) ListMicrophones(ctx context.Context) ([]Microphone, error) {
	out, err := r.listOutput(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list capture devices: %w", err)
	}

	var mics []Microphone
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		m := arecordCardRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		idx := 0
		fmt.Sscanf(m[1], "%d", &idx)
		mics = append(mics, Microphone{Index: idx, Name: strings.TrimSpace(m[3])})
	}
	return mics, nil
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
