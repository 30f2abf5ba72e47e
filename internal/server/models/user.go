// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account of the built-in identity provider.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}
