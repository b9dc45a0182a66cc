// Package models defines the server-side domain entities of the feedback board.
package models

// User is an account on the feedback board, keyed by username.
// PasswordHash holds the bcrypt hash of the password, never the plaintext.
type User struct {
	Username     string
	PasswordHash string
	Email        string
	FirstName    string
	LastName     string
	IsAdmin      bool
}
