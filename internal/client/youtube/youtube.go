// Package youtube plays a YouTube video's audio in the background through
// an external player.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"sync"

	"github.com/leeya018/gratitudes/internal/client/audio"
)

var (
	ErrInvalidURL    = errors.New("Invalid YouTube URL")
	ErrInvalidVolume = errors.New("volume must be between 0 and 100")
	ErrNoPlayer      = errors.New("background player not available")
)

const DefaultVolume = 100

var videoIDPattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// VideoID extracts the 11-character id from the usual YouTube URL shapes.
func VideoID(url string) (string, error) {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil || len(m[2]) != 11 {
		return "", ErrInvalidURL
	}
	return m[2], nil
}

// WatchURL is the canonical URL handed to the player.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Background runs one background stream at a time. The command receives
// {url} and {volume}.
type Background struct {
	command audio.Command

	mu     sync.Mutex
	cmd    *exec.Cmd
	url    string
	volume int
}

func NewBackground(command string) *Background {
	return &Background{command: audio.ParseCommand(command), volume: DefaultVolume}
}

// Start validates rawURL and replaces any current stream with it.
func (b *Background) Start(ctx context.Context, rawURL string) error {
	id, err := VideoID(rawURL)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
	return b.startLocked(ctx, WatchURL(id))
}

// Stop ends the stream; stopping with nothing playing is a no-op.
func (b *Background) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
	b.url = ""
}

// SetVolume records v and restarts a running stream so it takes effect.
func (b *Background) SetVolume(ctx context.Context, v int) error {
	if v < 0 || v > 100 {
		return ErrInvalidVolume
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.volume = v
	if b.cmd == nil {
		return nil
	}
	url := b.url
	b.stopLocked()
	return b.startLocked(ctx, url)
}

func (b *Background) Volume() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.volume
}

// Playing reports whether the player process is alive.
func (b *Background) Playing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cmd != nil
}

func (b *Background) startLocked(ctx context.Context, url string) error {
	name, args := b.command.Expand(map[string]string{"url": url, "volume": strconv.Itoa(b.volume)})
	if name == "" {
		return ErrNoPlayer
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ErrNoPlayer
		}
		return fmt.Errorf("start background player: %w", err)
	}
	b.cmd, b.url = cmd, url

	go func() {
		_ = cmd.Wait()
		b.mu.Lock()
		if b.cmd == cmd {
			b.cmd = nil
		}
		b.mu.Unlock()
	}()
	return nil
}

func (b *Background) stopLocked() {
	if b.cmd != nil && b.cmd.Process != nil {
		_ = b.cmd.Process.Kill()
	}
	b.cmd = nil
}
