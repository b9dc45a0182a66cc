package models

// Feedback is a note posted by a user. ID is assigned by the database and is
// monotonic. Username references users.username; deleting the user deletes
// all of their feedback in the same transaction.
type Feedback struct {
	ID       int64
	Title    string
	Content  string
	Username string
}
