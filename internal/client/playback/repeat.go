package playback

import (
	"fmt"
	"strings"
	"time"
)

// Repeat bounds how long playback loops.
type Repeat int

const (
	RepeatNone Repeat = iota
	Repeat10Min
	Repeat30Min
	Repeat1Hour
	RepeatForever
)

var repeatNames = map[Repeat]string{
	RepeatNone:    "none",
	Repeat10Min:   "10min",
	Repeat30Min:   "30min",
	Repeat1Hour:   "1hour",
	RepeatForever: "forever",
}

func (r Repeat) String() string {
	if s, ok := repeatNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Repeat(%d)", int(r))
}

// Duration is the loop bound, or zero for none and forever.
func (r Repeat) Duration() time.Duration {
	switch r {
	case Repeat10Min:
		return 10 * time.Minute
	case Repeat30Min:
		return 30 * time.Minute
	case Repeat1Hour:
		return time.Hour
	}
	return 0
}

// Loops reports whether playback restarts after the clip or list ends.
func (r Repeat) Loops() bool { return r != RepeatNone }

// ParseRepeat accepts the names printed by String; empty means none.
func ParseRepeat(s string) (Repeat, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RepeatNone, nil
	}
	for r, name := range repeatNames {
		if name == s {
			return r, nil
		}
	}
	return RepeatNone, fmt.Errorf("unknown repeat %q (want none, 10min, 30min, 1hour or forever)", s)
}
