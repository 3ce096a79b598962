package coin

import (
	"sort"
	"strings"

	"github.com/safeharbor/harbor/errors"
)

// Coins is a set of amounts, at most one per ticker. The normalized form,
// required by all operations, is sorted by ticker and holds no zero amount.
// Use NormalizeCoins on input from outside the ledger.
type Coins []*Coin

// CombineCoins returns the normalized sum of given coins.
func CombineCoins(cs ...Coin) (Coins, error) {
	var sum Coins
	for _, c := range cs {
		var err error
		if sum, err = sum.Add(c); err != nil {
			return nil, err
		}
	}
	return sum, sum.Validate()
}

// NormalizeCoins merges coins of the same ticker, drops zero amounts and
// sorts the result. A set that is already normalized is returned as is,
// an empty set as nil.
func NormalizeCoins(cs Coins) (Coins, error) {
	if normalized(cs) {
		if len(cs) == 0 {
			return nil, nil
		}
		return cs, nil
	}
	var res Coins
	for _, c := range cs {
		if IsEmpty(c) {
			continue
		}
		var err error
		if res, err = res.Add(*c); err != nil {
			return nil, errors.Wrap(err, "normalize")
		}
	}
	return res, nil
}

func normalized(cs Coins) bool {
	for i, c := range cs {
		if IsEmpty(c) {
			return false
		}
		if i > 0 && cs[i-1].Ticker >= c.Ticker {
			return false
		}
	}
	return true
}

// search returns the position of ticker in the set and whether it is held.
func (cs Coins) search(ticker string) (int, bool) {
	i := sort.Search(len(cs), func(i int) bool { return cs[i].Ticker >= ticker })
	return i, i < len(cs) && cs[i].Ticker == ticker
}

// Clone returns a deep copy.
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make(Coins, len(cs))
	for i, c := range cs {
		res[i] = c.Clone()
	}
	return res
}

// Add returns a new set holding c on top of cs.
func (cs Coins) Add(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs, nil
	}
	res := cs.Clone()
	i, ok := res.search(c.Ticker)
	if ok {
		sum, err := res[i].Add(c)
		if err != nil {
			return nil, err
		}
		res[i] = &sum
		return res, nil
	}
	res = append(res, nil)
	copy(res[i+1:], res[i:])
	res[i] = &c
	return res, nil
}

// Subtract returns a new set with c taken out of cs. A ticker that drops to
// zero is removed. ErrInsufficientAmount is returned if cs holds less
// than c.
func (cs Coins) Subtract(c Coin) (Coins, error) {
	if c.IsZero() {
		return cs, nil
	}
	i, ok := cs.search(c.Ticker)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "no %s held", c.Ticker)
	}
	rest, err := cs[i].Subtract(c)
	if err != nil {
		return nil, err
	}
	res := cs.Clone()
	if rest.IsZero() {
		return append(res[:i], res[i+1:]...), nil
	}
	res[i] = &rest
	return res, nil
}

// Contains returns true if cs holds at least c.
func (cs Coins) Contains(c Coin) bool {
	return c.IsZero() || cs.Get(c.Ticker).Amount >= c.Amount
}

// Get returns the amount held of ticker, zero if none.
func (cs Coins) Get(ticker string) Coin {
	if i, ok := cs.search(ticker); ok {
		return *cs[i]
	}
	return Coin{Ticker: ticker}
}

func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// IsPositive returns true if the set is not empty and holds no zero amount.
func (cs Coins) IsPositive() bool {
	for _, c := range cs {
		if !c.IsPositive() {
			return false
		}
	}
	return len(cs) > 0
}

func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i, c := range cs {
		if !c.Equals(*o[i]) {
			return false
		}
	}
	return true
}

func (cs Coins) String() string {
	s := make([]string, len(cs))
	for i, c := range cs {
		s[i] = c.String()
	}
	return "[" + strings.Join(s, ", ") + "]"
}

// Validate returns an error unless the set is normalized and every coin is
// valid.
func (cs Coins) Validate() error {
	for i, c := range cs {
		if c == nil {
			return errors.Wrap(errors.ErrEmpty, "nil coin")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if c.IsZero() {
			return errors.Wrapf(errors.ErrInvalidState, "zero %s", c.Ticker)
		}
		if i > 0 && cs[i-1].Ticker >= c.Ticker {
			return errors.Wrapf(errors.ErrInvalidState, "%s not sorted after %s", c.Ticker, cs[i-1].Ticker)
		}
	}
	return nil
}
