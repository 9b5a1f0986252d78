package domain

import "time"

// User models a registered account. The password is only ever held as a
// bcrypt hash; accounts start unactivated and `Activated` flips true exactly
// once, on successful account activation.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Activated    bool      `json:"activated"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
