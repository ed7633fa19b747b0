package models

import "time"

// User represents a user in the system. Users sign in with phone number and PIN.
type User struct {
	ID        int64     `json:"id"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	PINHash   string    `json:"-"` // Not serialized
	CreatedAt time.Time `json:"created_at"`
}
