package audio

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/leeya018/gratitudes/internal/client/playback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// script writes an executable shell script and returns its path.
func script(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not available")
	}
	path := filepath.Join(t.TempDir(), "prog.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o700))
	return path
}

func TestCommand_Expand(t *testing.T) {
	c := ParseCommand("  mpv --volume={volume}   {url} ")
	name, args := c.Expand(map[string]string{"volume": "40", "url": "https://y/v"})
	assert.Equal(t, "mpv", name)
	assert.Equal(t, []string{"--volume=40", "https://y/v"}, args)

	name, args = ParseCommand("").Expand(nil)
	assert.Empty(t, name)
	assert.Nil(t, args)
}

func TestCommand_Available(t *testing.T) {
	assert.False(t, ParseCommand("").Available())
	assert.False(t, ParseCommand("definitely-not-installed-gratitudes-xyz").Available())
	assert.True(t, ParseCommand(script(t, "exit 0")).Available())
}

func TestExecPlayer_CallsDoneWhenClipEnds(t *testing.T) {
	out := filepath.Join(t.TempDir(), "played")
	p := NewExecPlayer(script(t, `echo "$1" > `+out) + " {file}")

	done := make(chan struct{})
	require.NoError(t, p.Play(context.Background(), playback.Clip{ID: "a", Path: "/clips/a.webm"}, func() { close(done) }))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("done not called")
	}

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "/clips/a.webm\n", string(got))
}

func TestExecPlayer_StopKillsProcess(t *testing.T) {
	p := NewExecPlayer(script(t, "exec sleep 30") + " {file}")

	done := make(chan struct{})
	require.NoError(t, p.Play(context.Background(), playback.Clip{Path: "x"}, func() { close(done) }))

	start := time.Now()
	p.Stop()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("process not killed")
	}
	assert.Less(t, time.Since(start), 5*time.Second)

	// idle stop is harmless
	p.Stop()
}

func TestExecPlayer_MissingProgram(t *testing.T) {
	p := NewExecPlayer("definitely-not-installed-gratitudes-xyz {file}")
	err := p.Play(context.Background(), playback.Clip{Path: "x"}, func() {})
	assert.ErrorIs(t, err, ErrNoPlayer)

	err = NewExecPlayer("").Play(context.Background(), playback.Clip{Path: "x"}, func() {})
	assert.ErrorIs(t, err, ErrNoPlayer)
}

func TestRecorder_Record(t *testing.T) {
	prog := script(t, `[ "$1" = "2" ] || exit 3; printf 'OggS-data' > "$2"`)
	r := NewRecorder(prog+" {seconds} {output}", t.TempDir())
	require.True(t, r.Supported())

	data, err := r.Record(context.Background(), 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("OggS-data"), data)

	entries, err := os.ReadDir(r.dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temp recording removed")
}

func TestRecorder_Unsupported(t *testing.T) {
	r := NewRecorder("definitely-not-installed-gratitudes-xyz {output}", t.TempDir())
	assert.False(t, r.Supported())

	_, err := r.Record(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.EqualError(t, err, "recording unsupported")
}

func TestRecorder_Failures(t *testing.T) {
	r := NewRecorder(script(t, `echo "no microphone" >&2; exit 1`)+" {output}", t.TempDir())
	_, err := r.Record(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrCaptureFailed)
	assert.Contains(t, err.Error(), "no microphone")

	r = NewRecorder(script(t, "exit 0")+" {output}", t.TempDir())
	_, err = r.Record(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrCaptureFailed)

	_, err = r.Record(context.Background(), 0)
	assert.ErrorIs(t, err, ErrCaptureFailed)
}
