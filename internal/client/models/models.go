// Package models defines the client-side view of journal data as it comes
// back from the server.
package models

import (
	"time"

	"github.com/leeya018/gratitudes/internal/timex"
)

// Gratitude is one journal entry.
type Gratitude struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	CreatedAt timex.Timestamp `json:"createdAt"`
}

// Today is the current day's page of the journal.
type Today struct {
	Date       string       `json:"date"`
	Gratitudes []*Gratitude `json:"gratitudes"`
	Count      int          `json:"count"`
	Limit      int          `json:"limit"`
	Complete   bool         `json:"complete"`
}

// Remaining reports how many entries can still be added today.
func (t *Today) Remaining() int {
	if t.Count >= t.Limit {
		return 0
	}
	return t.Limit - t.Count
}

// Sentence is an affirmation, optionally with recorded audio.
type Sentence struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	CreatedAt timex.Timestamp `json:"createdAt"`
	HasAudio  bool            `json:"hasAudio"`
	AudioURL  string          `json:"audioUrl,omitempty"`
}

// Created returns the creation time in loc.
func (s *Sentence) Created(loc *time.Location) time.Time {
	return s.CreatedAt.Time.In(loc)
}

// TokenPair is what login and refresh return.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
