// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal indicates an unexpected internal error.
var ErrInternal = errors.New("internal")

// ErrUnreachable indicates that the ledger service could not be
// reached at the transport level. The original cause is wrapped.
var ErrUnreachable = errors.New("service unreachable")
