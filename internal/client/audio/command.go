// Package audio drives external programs for clip playback and microphone
// capture.
package audio

import (
	"errors"
	"os/exec"
	"strings"
)

// ErrUnsupported is returned when the configured program is not installed.
var ErrUnsupported = errors.New("recording unsupported")

// Command is a whitespace-split command line whose arguments may hold
// {name} placeholders.
type Command []string

func ParseCommand(s string) Command {
	return Command(strings.Fields(s))
}

// Expand substitutes vars into every argument.
func (c Command) Expand(vars map[string]string) (string, []string) {
	if len(c) == 0 {
		return "", nil
	}
	out := make([]string, len(c))
	for i, arg := range c {
		for k, v := range vars {
			arg = strings.ReplaceAll(arg, "{"+k+"}", v)
		}
		out[i] = arg
	}
	return out[0], out[1:]
}

// Available reports whether the program can be found.
func (c Command) Available() bool {
	if len(c) == 0 {
		return false
	}
	_, err := exec.LookPath(c[0])
	return err == nil
}
