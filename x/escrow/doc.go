/*
Package escrow implements a two-party exchange of two assets.

A maker locks a deposit of one asset in a vault and asks for an amount of
another asset. A taker may pay the asked amount and receive the vault
content in a single transaction, or the maker may cancel and take the
deposit back.

Neither the escrow record nor the vault have a private key. Both are
addressed by derived addresses: the escrow address is derived from the
maker and a seed, the vault address is derived from the escrow address and
the deposited ticker. Derived addresses are never valid public keys, so
only this package can move the vault funds, and it does so only after
recomputing the derivation on every use.

The escrow is open while its record exists. Both Take and Refund remove
the record and the vault, so at most one of them succeeds.
*/
package escrow
