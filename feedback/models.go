// Package feedback, as part of the feedback module.
// This file, `models.go`, defines the feedback entity.
package feedback

// Feedback is one feedback entry. Every entry is owned by exactly one user,
// referenced by username; the schema enforces the reference and cascades the
// delete when the owner is removed.
type Feedback struct {
	ID       int32  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Username string `json:"username"`
}
