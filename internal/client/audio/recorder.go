package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrCaptureFailed wraps failures of the capture program.
var ErrCaptureFailed = errors.New("recording failed")

// RecordingContentType is the MIME type of files the default recorder writes.
const RecordingContentType = "audio/webm"

// captureGrace is how long past the requested duration the capture program
// may run before it is killed.
const captureGrace = 10 * time.Second

// Recorder captures microphone audio through an external program that
// writes {seconds} of audio to {output}.
type Recorder struct {
	command Command
	dir     string
}

func NewRecorder(command, dir string) *Recorder {
	return &Recorder{command: ParseCommand(command), dir: dir}
}

// Supported reports whether the capture program is installed.
func (r *Recorder) Supported() bool {
	return r.command.Available()
}

// Record captures d of audio and returns the encoded bytes.
func (r *Recorder) Record(ctx context.Context, d time.Duration) ([]byte, error) {
	if !r.Supported() {
		return nil, ErrUnsupported
	}
	if d <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrCaptureFailed)
	}

	f, err := os.CreateTemp(r.dir, "recording-*.webm")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	out := f.Name()
	_ = f.Close()
	defer os.Remove(out)

	ctx, cancel := context.WithTimeout(ctx, d+captureGrace)
	defer cancel()

	name, args := r.command.Expand(map[string]string{
		"seconds": strconv.Itoa(int(d.Round(time.Second).Seconds())),
		"output":  out,
	})

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
		}
		return nil, fmt.Errorf("%w: %v: %s", ErrCaptureFailed, err, msg)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no audio captured", ErrCaptureFailed)
	}
	return data, nil
}
