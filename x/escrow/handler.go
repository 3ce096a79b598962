package escrow

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/coin"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/gconf"
	"github.com/safeharbor/harbor/x"
	"github.com/safeharbor/harbor/x/cash"
)

const (
	// pay escrow cost up-front
	makeEscrowCost   int64 = 300
	takeEscrowCost   int64 = 100
	refundEscrowCost int64 = 0
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r harbor.Registry, auth x.Authenticator, bank cash.Controller) {
	bucket := NewBucket()
	vaults := NewVaultBucket()

	r.Handle(&MakeMsg{}, MakeHandler{auth: auth, bucket: bucket, vaults: vaults, bank: bank})
	r.Handle(&TakeMsg{}, TakeHandler{auth: auth, bucket: bucket, vaults: vaults, bank: bank})
	r.Handle(&RefundMsg{}, RefundHandler{auth: auth, bucket: bucket, vaults: vaults, bank: bank})
	r.Handle(&UpdateConfigurationMsg{}, NewConfigHandler(auth))
}

// NewConfigHandler returns a handler updating the escrow configuration.
// The configuration must be created via genesis.
func NewConfigHandler(auth x.Authenticator) harbor.Handler {
	newConf := func() gconf.OwnedConfig { return &Configuration{} }
	return gconf.NewUpdateConfigurationHandler(confPkg, newConf, auth)
}

// MakeHandler opens escrows.
type MakeHandler struct {
	auth   x.Authenticator
	bucket Bucket
	vaults VaultBucket
	bank   cash.Controller
}

var _ harbor.Handler = MakeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h MakeHandler) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &harbor.CheckResult{GasAllocated: makeEscrowCost}, nil
}

// Deliver stores the escrow and its vault and moves the deposit from the
// maker to the vault.
func (h MakeHandler) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.DeliverResult, error) {
	esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.bucket.Put(db, esc.Address, esc.Escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	vault := &Vault{Authority: esc.Address, Ticker: esc.Escrow.AssetA}
	if err := h.vaults.Put(db, esc.Escrow.Vault, vault); err != nil {
		return nil, errors.Wrap(err, "cannot store vault")
	}

	// The reserve is held by the escrow address itself, apart from the
	// vault balance.
	for _, r := range esc.Escrow.Reserve {
		if err := h.bank.MoveCoins(db, esc.Escrow.Maker, esc.Address, *r); err != nil {
			return nil, errors.Wrap(err, "cannot charge reserve")
		}
	}
	if err := h.bank.MoveCoins(db, esc.Escrow.Maker, esc.Escrow.Vault, esc.Deposit); err != nil {
		return nil, errors.Wrap(err, "cannot fund vault")
	}

	harbor.GetLogger(ctx).Debug("escrow created",
		"escrow", esc.Address, "vault", esc.Escrow.Vault, "deposit", esc.Deposit)
	return &harbor.DeliverResult{Data: esc.Address, Log: "escrow created"}, nil
}

// newEscrow is an escrow that passed all creation checks.
type newEscrow struct {
	Address harbor.Address
	Escrow  *Escrow
	Deposit coin.Coin
}

// validate does all common pre-processing between Check and Deliver.
func (h MakeHandler) validate(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*newEscrow, error) {
	var msg MakeMsg
	if err := harbor.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	maker, err := signerOrDefault(ctx, h.auth, msg.Maker)
	if err != nil {
		return nil, errors.Wrap(err, "maker")
	}

	addr, bump, err := EscrowAddress(maker, msg.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "cannot derive escrow address")
	}
	if !addr.Equals(msg.Escrow) {
		return nil, errors.Wrapf(harbor.ErrInvalidDerivation, "escrow %s does not derive from maker and seed %d", msg.Escrow, msg.Seed)
	}
	vault, vaultBump, err := VaultAddress(addr, msg.AssetA)
	if err != nil {
		return nil, errors.Wrap(err, "cannot derive vault address")
	}
	if !vault.Equals(msg.Vault) {
		return nil, errors.Wrapf(harbor.ErrInvalidDerivation, "vault %s does not derive from escrow %s", msg.Vault, addr)
	}

	switch err := h.bucket.Has(db, addr); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s with seed %d", addr, msg.Seed)
	case !errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(err, "cannot check escrow")
	}
	switch err := h.vaults.Has(db, vault); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "vault %s", vault)
	case !errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(err, "cannot check vault")
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if r := conf.Reserve.Get(msg.AssetA); !r.IsZero() {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "reserve %s is paid in the escrowed asset", r)
	}
	deposit := coin.NewCoin(msg.Deposit, msg.AssetA)
	required, err := conf.Reserve.Add(deposit)
	if err != nil {
		return nil, errors.Wrap(err, "deposit with reserve")
	}
	balance, err := h.bank.Balance(db, maker)
	if err != nil {
		return nil, errors.Wrap(err, "cannot get maker balance")
	}
	for _, c := range required {
		if !balance.Contains(*c) {
			return nil, errors.Wrapf(cash.ErrInsufficientFunds, "maker holds %s, needs %s", balance.Get(c.Ticker), c)
		}
	}

	return &newEscrow{
		Address: addr,
		Deposit: deposit,
		Escrow: &Escrow{
			Seed:          msg.Seed,
			Maker:         maker,
			AssetA:        msg.AssetA,
			AssetB:        msg.AssetB,
			ReceiveAmount: msg.Receive,
			Bump:          uint32(bump),
			Vault:         vault,
			VaultBump:     uint32(vaultBump),
			Reserve:       conf.Reserve.Clone(),
		},
	}, nil
}

// TakeHandler fulfills escrows.
type TakeHandler struct {
	auth   x.Authenticator
	bucket Bucket
	vaults VaultBucket
	bank   cash.Controller
}

var _ harbor.Handler = TakeHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h TakeHandler) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &harbor.CheckResult{GasAllocated: takeEscrowCost}, nil
}

// Deliver pays the maker, hands the vault content to the taker and closes
// the escrow. The payment is always moved first, so the vault is never
// touched unless the taker paid.
func (h TakeHandler) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.DeliverResult, error) {
	msg, esc, taker, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	payment := coin.NewCoin(esc.ReceiveAmount, esc.AssetB)
	if err := h.bank.MoveCoins(db, taker, esc.Maker, payment); err != nil {
		return nil, errors.Wrap(err, "cannot pay maker")
	}
	if err := releaseVault(db, h.bank, esc, taker); err != nil {
		return nil, err
	}
	if err := closeEscrow(db, h.bank, h.bucket, h.vaults, msg.Escrow, esc); err != nil {
		return nil, err
	}

	harbor.GetLogger(ctx).Debug("escrow taken", "escrow", msg.Escrow, "taker", taker)
	return &harbor.DeliverResult{Data: msg.Escrow, Log: "escrow taken"}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h TakeHandler) validate(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*TakeMsg, *Escrow, harbor.Address, error) {
	var msg TakeMsg
	if err := harbor.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	taker, err := signerOrDefault(ctx, h.auth, msg.Taker)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "taker")
	}
	esc, err := loadOpen(db, h.bucket, h.vaults, msg.Escrow, msg.Vault)
	if err != nil {
		return nil, nil, nil, err
	}
	if taker.Equals(esc.Maker) {
		return nil, nil, nil, errors.Wrap(errors.ErrInvalidInput, "maker cannot take own escrow")
	}

	payment := coin.NewCoin(esc.ReceiveAmount, esc.AssetB)
	balance, err := h.bank.Balance(db, taker)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "cannot get taker balance")
	}
	if !balance.Contains(payment) {
		return nil, nil, nil, errors.Wrapf(cash.ErrInsufficientFunds, "taker holds %s, payment is %s", balance.Get(esc.AssetB), payment)
	}
	return &msg, esc, taker, nil
}

// RefundHandler cancels escrows.
type RefundHandler struct {
	auth   x.Authenticator
	bucket Bucket
	vaults VaultBucket
	bank   cash.Controller
}

var _ harbor.Handler = RefundHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h RefundHandler) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &harbor.CheckResult{GasAllocated: refundEscrowCost}, nil
}

// Deliver returns the vault content to the maker and closes the escrow.
func (h RefundHandler) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.DeliverResult, error) {
	msg, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := releaseVault(db, h.bank, esc, esc.Maker); err != nil {
		return nil, err
	}
	if err := closeEscrow(db, h.bank, h.bucket, h.vaults, msg.Escrow, esc); err != nil {
		return nil, err
	}

	harbor.GetLogger(ctx).Debug("escrow refunded", "escrow", msg.Escrow)
	return &harbor.DeliverResult{Data: msg.Escrow, Log: "escrow refunded"}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h RefundHandler) validate(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*RefundMsg, *Escrow, error) {
	var msg RefundMsg
	if err := harbor.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	esc, err := loadOpen(db, h.bucket, h.vaults, msg.Escrow, msg.Vault)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, esc.Maker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the maker can refund")
	}
	return &msg, esc, nil
}

// signerOrDefault returns the given address if it signed the transaction,
// or the main signer if no address is given.
func signerOrDefault(ctx harbor.Context, auth x.Authenticator, addr harbor.Address) (harbor.Address, error) {
	if len(addr) == 0 {
		signer := x.MainSigner(ctx, auth)
		if signer == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
		}
		return signer.Address(), nil
	}
	if !auth.HasAddress(ctx, addr) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", addr)
	}
	return addr, nil
}

// loadOpen returns the open escrow referenced by given addresses, after
// verifying that the vault belongs to it.
func loadOpen(db harbor.ReadOnlyKVStore, bucket Bucket, vaults VaultBucket, escrowAddr, vaultAddr harbor.Address) (*Escrow, error) {
	var esc Escrow
	if err := bucket.One(db, escrowAddr, &esc); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", escrowAddr)
	}
	if err := verifyEscrow(&esc, escrowAddr, vaultAddr); err != nil {
		return nil, err
	}
	var vault Vault
	if err := vaults.One(db, vaultAddr, &vault); err != nil {
		return nil, errors.Wrapf(err, "vault %s", vaultAddr)
	}
	if !vault.Authority.Equals(escrowAddr) || vault.Ticker != esc.AssetA {
		return nil, errors.Wrapf(ErrVaultMismatch, "vault %s is not held by escrow %s", vaultAddr, escrowAddr)
	}
	return &esc, nil
}

// releaseVault moves the full vault balance of asset A to given recipient.
func releaseVault(db harbor.KVStore, bank cash.Controller, esc *Escrow, recipient harbor.Address) error {
	balance, err := bank.Balance(db, esc.Vault)
	if err != nil {
		return errors.Wrap(err, "cannot get vault balance")
	}
	held := balance.Get(esc.AssetA)
	if held.IsZero() {
		return nil
	}
	if err := bank.MoveCoins(db, esc.Vault, recipient, held); err != nil {
		return errors.Wrap(err, "cannot release vault")
	}
	return nil
}

// closeEscrow returns everything left in the vault and the reserve to the
// maker, then removes the vault and the escrow. It must be the last step
// of an operation.
func closeEscrow(db harbor.KVStore, bank cash.Controller, bucket Bucket, vaults VaultBucket, addr harbor.Address, esc *Escrow) error {
	for _, holder := range []harbor.Address{esc.Vault, addr} {
		if err := sweep(db, bank, holder, esc.Maker); err != nil {
			return err
		}
		if err := bank.Purge(db, holder); err != nil {
			return errors.Wrapf(err, "cannot purge %s", holder)
		}
	}
	if err := vaults.Delete(db, esc.Vault); err != nil {
		return errors.Wrap(err, "cannot delete vault")
	}
	if err := bucket.Delete(db, addr); err != nil {
		return errors.Wrap(err, "cannot delete escrow")
	}
	return nil
}

func sweep(db harbor.KVStore, bank cash.Controller, from, to harbor.Address) error {
	balance, err := bank.Balance(db, from)
	if err != nil {
		return errors.Wrapf(err, "cannot get %s balance", from)
	}
	for _, c := range balance {
		if err := bank.MoveCoins(db, from, to, *c); err != nil {
			return errors.Wrapf(err, "cannot sweep %s", from)
		}
	}
	return nil
}
