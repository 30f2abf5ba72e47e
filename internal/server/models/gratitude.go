package models

import "time"

// Gratitude is one daily journal entry. Day is the calendar date (midnight
// UTC carrying the local date) the entry counts toward.
type Gratitude struct {
	ID        string
	UserID    string
	Text      string
	Day       time.Time
	CreatedAt time.Time
}
