/*
Package harbor defines the interfaces used throughout the ledger, such as
storage, transactions, messages and handlers. It also contains the context
helpers and the derivation of program owned addresses.

Extensions live in the x directory. The app package glues them together into
a ledger that serializes every operation and applies it atomically.
*/
package harbor
