/*
Package cash keeps the balances of the ledger.

Every address owns a wallet: a sorted set of coins. There is no logic in
the coins, except that the balance of any coin may not go below zero.
Other extensions move value through the Controller; the only message
handled directly by this package is a plain transfer.
*/
package cash
