// Package domain provides definitions of all entities.
package domain

import "errors"

var (
	// ErrUserNotFound indicates that the user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameAlreadyExists indicates that the user with the given username already exists.
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrWrongCredentials indicates a bad username/password pair at login.
	ErrWrongCredentials = errors.New("wrong username or password")
	// ErrInvalidCredentials indicates credentials rejected before any network call.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User holds user identity data. Users are owned by the remote ledger
// service; the client only ever reads them.
type User struct {
	ID       int32  `json:"id"`
	Username string `json:"username"`
}

// Credentials is the input data for login and registration.
type Credentials struct {
	Username string `json:"username" validate:"required,alphanum,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}
