package sigs

import "github.com/safeharbor/harbor/errors"

// ErrInvalidSequence is returned when a signature sequence does not match
// the signer's expected next sequence value.
var ErrInvalidSequence = errors.Register(120, "invalid sequence")
