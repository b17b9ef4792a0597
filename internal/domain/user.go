package domain

import "fmt"

// User is an API consumer identified by its key.
type User struct {
	id     string
	apiKey string
	active bool
}

// NewUser validates and creates a User.
func NewUser(id, apiKey string, active bool) (User, error) {
	if id == "" {
		return User{}, fmt.Errorf("user ID is required: %w", ErrInvalidUser)
	}
	if apiKey == "" {
		return User{}, fmt.Errorf("API key is required: %w", ErrInvalidUser)
	}
	return User{id: id, apiKey: apiKey, active: active}, nil
}

// ReconstructUser restores a User from storage without validation.
func ReconstructUser(id, apiKey string, active bool) User {
	return User{id: id, apiKey: apiKey, active: active}
}

// ID returns the user identifier.
func (u User) ID() string { return u.id }

// APIKey returns the key the user authenticates with.
func (u User) APIKey() string { return u.apiKey }

// Active reports whether the key may be used.
func (u User) Active() bool { return u.active }
