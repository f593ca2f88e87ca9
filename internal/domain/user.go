/**
 * @description
 * User domain model. Passwords are stored as bcrypt hashes only; the plain
 * password never leaves the auth service.
 */
package domain

import "time"

// User represents a registered user of the application.
type User struct {
	ID           string    `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
