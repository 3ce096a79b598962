/*
Package coin defines the amounts of assets moved around by the ledger.

An asset is identified by its ticker. Amounts are whole, non negative units
and every arithmetic operation is checked for overflow.
*/
package coin

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"

	"github.com/safeharbor/harbor/codec"
	"github.com/safeharbor/harbor/errors"
)

// IsCC returns true if s is a valid ticker, three or four upper case
// letters.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Coin is an amount of a single asset.
type Coin struct {
	Ticker string `protobuf:"bytes,1,opt,name=ticker,proto3" json:"ticker"`
	Amount uint64 `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
}

func NewCoin(amount uint64, ticker string) Coin {
	return Coin{Ticker: ticker, Amount: amount}
}

// NewCoinp is NewCoin returning a pointer.
func NewCoinp(amount uint64, ticker string) *Coin {
	return &Coin{Ticker: ticker, Amount: amount}
}

// IsEmpty returns true for a nil or zero coin.
func IsEmpty(c *Coin) bool {
	return c == nil || c.Amount == 0
}

// Add returns the sum of both coins. A zero coin without a ticker is
// neutral, otherwise tickers must match.
func (c Coin) Add(o Coin) (Coin, error) {
	switch {
	case c.Ticker == "" && c.Amount == 0:
		return o, nil
	case o.Ticker == "" && o.Amount == 0:
		return c, nil
	case c.Ticker != o.Ticker:
		return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "cannot add %s to %s", o.Ticker, c.Ticker)
	case o.Amount > math.MaxUint64-c.Amount:
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", c, o)
	}
	return Coin{Ticker: c.Ticker, Amount: c.Amount + o.Amount}, nil
}

// Subtract returns c less o. ErrInsufficientAmount is returned if o is
// larger than c.
func (c Coin) Subtract(o Coin) (Coin, error) {
	switch {
	case o.Amount == 0:
		return c, nil
	case c.Ticker != o.Ticker:
		return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "cannot subtract %s from %s", o.Ticker, c.Ticker)
	case o.Amount > c.Amount:
		return Coin{}, errors.Wrapf(errors.ErrInsufficientAmount, "%s - %s", c, o)
	}
	return Coin{Ticker: c.Ticker, Amount: c.Amount - o.Amount}, nil
}

// Compare returns the sign of c - o, ignoring tickers.
func (c Coin) Compare(o Coin) int {
	if c.Amount == o.Amount {
		return 0
	}
	if c.Amount > o.Amount {
		return 1
	}
	return -1
}

// IsGTE returns true if o has the same ticker and c is at least as large.
func (c Coin) IsGTE(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount >= o.Amount
}

func (c Coin) Equals(o Coin) bool {
	return c == o
}

func (c Coin) IsZero() bool {
	return c.Amount == 0
}

func (c Coin) IsPositive() bool {
	return c.Amount != 0
}

// Clone returns a copy of c, nil for nil.
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	cpy := *c
	return &cpy
}

// Validate returns ErrInvalidInput if the ticker is malformed.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrInvalidInput, "ticker %q", c.Ticker)
	}
	return nil
}

// String returns the form read by ParseHumanFormat.
func (c Coin) String() string {
	if c.Ticker == "" {
		return strconv.FormatUint(c.Amount, 10)
	}
	return strconv.FormatUint(c.Amount, 10) + " " + c.Ticker
}

var humanFormat = regexp.MustCompile(`^\s*(\d+)\s*([A-Z]{3,4})\s*$`)

// ParseHumanFormat reads a coin written as "<amount> <ticker>", for
// example "10 IOV".
func ParseHumanFormat(s string) (Coin, error) {
	m := humanFormat.FindStringSubmatch(s)
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInvalidInput, "coin %q is not <amount> <ticker>", s)
	}
	amount, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "amount %s", m[1])
	}
	return NewCoin(amount, m[2]), nil
}

// Set implements flag.Value.
func (c *Coin) Set(s string) (err error) {
	*c, err = ParseHumanFormat(s)
	return err
}

// UnmarshalJSON accepts both the human format string and an object with
// ticker and amount fields.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if json.Unmarshal(raw, &human) == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	type plain Coin
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	*c = Coin(p)
	return nil
}

func (c *Coin) Marshal() ([]byte, error) {
	return codec.Marshal((*coinMsg)(c))
}

func (c *Coin) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*coinMsg)(c))
}

type coinMsg Coin

func (m *coinMsg) Reset()         { *m = coinMsg{} }
func (m *coinMsg) String() string { return codec.Text(m) }
func (*coinMsg) ProtoMessage()    {}
