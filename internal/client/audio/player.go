package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"

	"github.com/leeya018/gratitudes/internal/client/playback"
)

// ErrNoPlayer is returned when the player program is not installed.
var ErrNoPlayer = errors.New("audio player not available")

// ExecPlayer plays each clip by running the configured command with {file}
// set to the clip's path.
type ExecPlayer struct {
	command Command

	mu  sync.Mutex
	cmd *exec.Cmd
}

func NewExecPlayer(command string) *ExecPlayer {
	return &ExecPlayer{command: ParseCommand(command)}
}

// Play starts the player process and calls done from a separate goroutine
// when it exits, whether it ended or was stopped.
func (p *ExecPlayer) Play(ctx context.Context, clip playback.Clip, done func()) error {
	name, args := p.command.Expand(map[string]string{"file": clip.Path})
	if name == "" {
		return ErrNoPlayer
	}

	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ErrNoPlayer
		}
		return fmt.Errorf("start player: %w", err)
	}

	p.mu.Lock()
	p.cmd = cmd
	p.mu.Unlock()

	go func() {
		_ = cmd.Wait()
		p.mu.Lock()
		if p.cmd == cmd {
			p.cmd = nil
		}
		p.mu.Unlock()
		done()
	}()
	return nil
}

// Stop kills the running player, if any, without waiting for it to exit.
func (p *ExecPlayer) Stop() {
	p.mu.Lock()
	cmd := p.cmd
	p.cmd = nil
	p.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
