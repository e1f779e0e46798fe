package vaulthook

import (
	"errors"
	"fmt"
)

// errNilClient is the cause recorded when a ClientFactory returns neither
// a client nor an error.
var errNilClient = errors.New("client factory returned no client")

// ClientConstructionError is returned when the Vault client for a
// connection cannot be built. Err is the underlying failure.
type ClientConstructionError struct {
	ConnID  string
	Address string
	Err     error
}

func (e *ClientConstructionError) Error() string {
	return fmt.Sprintf("failed to connect to vault (conn id %q, %s), error: %v", e.ConnID, e.Address, e.Err)
}

func (e *ClientConstructionError) Unwrap() error {
	return e.Err
}
