// Package model defines domain entities for the application.
package model

import "time"

// Username length bounds shared by signup and direct user creation.
const (
	UsernameMinLen = 4
	UsernameMaxLen = 30
	PasswordMinLen = 8
)

// User is a journal author.
// PasswordHash is an argon2id PHC string and never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
