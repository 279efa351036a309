// Package auth, as part of the authentication module.
// This file, `models.go`, defines the `User` entity as stored in the database
// and used within the application's business logic.
package auth

// User represents a registered account.
// The username is the primary identity key; records are created at registration
// and never updated or deleted through the application.
type User struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	// The `json:"-"` tag keeps the bcrypt hash out of any serialized form of the
	// user; it exists only for verification inside this package.
	HashedPassword string `json:"-"`
}
