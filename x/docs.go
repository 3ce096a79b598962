/*
Package x contains the ledger extensions and the helpers they share.

Every extension lives in its own sub-package and provides messages, models
stored through orm buckets, handlers registered with a harbor.Registry and an
optional genesis initializer. Extensions never depend on a concrete signature
scheme; they receive an Authenticator instead and ask it who signed the
transaction.
*/
package x
