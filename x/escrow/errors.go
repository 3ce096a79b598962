package escrow

import "github.com/safeharbor/harbor/errors"

// ErrVaultMismatch is returned when the escrow or vault reference given in
// a message does not belong to an open escrow.
var ErrVaultMismatch = errors.Register(1013, "vault mismatch")
