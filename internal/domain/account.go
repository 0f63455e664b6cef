package domain

import "errors"

// ErrAccountNotFound indicates that the account is not found.
var ErrAccountNotFound = errors.New("account not found")

// Account holds the balance of a single user. Every user has exactly
// one account; the balance is mutated only by the remote service as a
// side effect of approved transfers.
type Account struct {
	ID      int32  `json:"id"`
	UserID  int32  `json:"user_id"`
	Balance string `json:"balance"`
}
