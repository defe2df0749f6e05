package domain

import "time"

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Answer is a stored question/answer pair. It is never modified after creation.
type Answer struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    *string   `json:"userId"`
}

// NewAnswer is the input for creating an Answer. The store assigns ID and CreatedAt.
type NewAnswer struct {
	Question string
	Answer   string
	UserID   *string
}

// User is an account placeholder. Password holds a hash produced by HashPassword.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// NewUser is the input for creating a User.
type NewUser struct {
	Username string
	Password string
}
