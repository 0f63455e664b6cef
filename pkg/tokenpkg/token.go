// Package tokenpkg inspects bearer tokens issued by the ledger service.
//
// The client holds the service's access token but not its signing key,
// so claims are read without signature verification. They are used only
// for local session bookkeeping (expiry detection); the service remains
// the authority on token validity.
package tokenpkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken indicates that the token is not a parsable JWT.
var ErrInvalidToken = errors.New("token is invalid")

// Payload contains the claims the client cares about.
type Payload struct {
	Username  string
	IssuedAt  time.Time
	ExpiredAt time.Time
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Parse extracts the payload from a bearer token without verifying the
// signature.
func Parse(token string) (Payload, error) {
	var c claims

	parser := jwt.NewParser()

	_, _, err := parser.ParseUnverified(token, &c)
	if err != nil {
		return Payload{}, ErrInvalidToken
	}

	p := Payload{Username: c.Username}
	if c.Username == "" {
		p.Username = c.Subject
	}

	if c.IssuedAt != nil {
		p.IssuedAt = c.IssuedAt.Time
	}

	if c.ExpiresAt != nil {
		p.ExpiredAt = c.ExpiresAt.Time
	}

	return p, nil
}
