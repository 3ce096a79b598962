/*
Package errors categorizes failures with registered root errors.

Every error returned by the ledger wraps one root error. Callers test the
category with ErrXyz.Is(err) and clients receive the numeric code returned by
Code(err). Extensions register their own roots with Register, see x/escrow.

Wrap records a stack trace the first time an error is wrapped. Formatting a
wrapped error with

	%s prints the message
	%v appends the [file:line] the error was created at
	%+v prints the whole stack trace
*/
package errors
