package models

import "time"

// Sentence is an affirmation ("goal visualization") sentence with an
// optional audio recording kept in object storage.
type Sentence struct {
	ID               string
	UserID           string
	Text             string
	AudioKey         string
	AudioContentType string
	CreatedAt        time.Time
}

// HasAudio reports whether an audio payload is attached.
func (s *Sentence) HasAudio() bool {
	return s.AudioKey != ""
}
