package cash

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/coin"
	"github.com/safeharbor/harbor/errors"
)

// ErrInsufficientFunds is returned when a wallet does not hold enough coins
// for a transfer.
var ErrInsufficientFunds = errors.ErrInsufficientAmount

// CoinMover is an interface for moving coins between accounts.
type CoinMover interface {
	// MoveCoins removes funds from the source account and adds them to
	// the destination account. This operation is atomic.
	MoveCoins(db harbor.KVStore, src, dest harbor.Address, amount coin.Coin) error
}

// Balancer is an interface to query the amount of coins.
type Balancer interface {
	// Balance returns the amount of funds stored under given account
	// address. A missing wallet is an empty balance.
	Balance(db harbor.ReadOnlyKVStore, addr harbor.Address) (coin.Coins, error)
}

// Controller is the functionality needed by other extensions to move and
// inspect value held by this extension.
type Controller interface {
	CoinMover
	Balancer

	// IssueCoins adds the given amount of coins to the destination
	// address. Fails if it overflows the wallet.
	IssueCoins(db harbor.KVStore, dest harbor.Address, amount coin.Coin) error

	// Purge removes the wallet of given address together with all the
	// coins it holds. Use it only for wallets that were emptied.
	Purge(db harbor.KVStore, addr harbor.Address) error
}

// BaseController is a simple implementation of controller
// wallet must return something that supports AsSet
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Balance(db harbor.ReadOnlyKVStore, addr harbor.Address) (coin.Coins, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	s, err := c.bucket.GetOrCreate(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get wallet")
	}
	return s.Coins, nil
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(db harbor.KVStore, src, dest harbor.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive amount: %s", amount)
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInvalidInput, "source and destination are the same")
	}

	sender, err := c.bucket.GetOrCreate(db, src)
	if err != nil {
		return errors.Wrap(err, "cannot get sender")
	}
	if !sender.Coins.Contains(amount) {
		have := sender.Coins.Get(amount.Ticker)
		return errors.Wrapf(ErrInsufficientFunds, "%s holds %d %s, need %d", src, have.Amount, amount.Ticker, amount.Amount)
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return errors.Wrap(err, "cannot get recipient")
	}

	if sender.Coins, err = sender.Coins.Subtract(amount); err != nil {
		return errors.Wrap(err, "subtract")
	}
	if recipient.Coins, err = recipient.Coins.Add(amount); err != nil {
		return errors.Wrap(err, "add")
	}

	if err := c.bucket.Save(db, src, sender); err != nil {
		return errors.Wrap(err, "cannot save sender")
	}
	if err := c.bucket.Save(db, dest, recipient); err != nil {
		return errors.Wrap(err, "cannot save recipient")
	}
	return nil
}

func (c BaseController) IssueCoins(db harbor.KVStore, dest harbor.Address, amount coin.Coin) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive amount: %s", amount)
	}
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return errors.Wrap(err, "cannot get recipient")
	}
	if recipient.Coins, err = recipient.Coins.Add(amount); err != nil {
		return errors.Wrap(err, "add")
	}
	return c.bucket.Save(db, dest, recipient)
}

func (c BaseController) Purge(db harbor.KVStore, addr harbor.Address) error {
	err := c.bucket.Delete(db, addr)
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}
