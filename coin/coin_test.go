package coin

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/harbortest/assert"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCoinArithmetic(t *testing.T) {
	Convey("Given a coin of 100 ALF", t, func() {
		c := NewCoin(100, "ALF")

		Convey("Adding the same asset sums the amounts", func() {
			sum, err := c.Add(NewCoin(50, "ALF"))
			So(err, ShouldBeNil)
			So(sum, ShouldResemble, NewCoin(150, "ALF"))
		})

		Convey("Adding a zero coin without ticker is a noop", func() {
			sum, err := c.Add(Coin{})
			So(err, ShouldBeNil)
			So(sum, ShouldResemble, c)
		})

		Convey("Adding a different asset fails", func() {
			_, err := c.Add(NewCoin(1, "BET"))
			So(errors.ErrInvalidInput.Is(err), ShouldBeTrue)
		})

		Convey("Adding past the maximum amount overflows", func() {
			_, err := c.Add(NewCoin(math.MaxUint64, "ALF"))
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
		})

		Convey("Subtracting the full amount leaves zero", func() {
			diff, err := c.Subtract(NewCoin(100, "ALF"))
			So(err, ShouldBeNil)
			So(diff.IsZero(), ShouldBeTrue)
		})

		Convey("Subtracting more than held is insufficient", func() {
			_, err := c.Subtract(NewCoin(101, "ALF"))
			So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)
		})

		Convey("Comparison ignores nothing but the amount", func() {
			So(c.Compare(NewCoin(99, "ALF")), ShouldEqual, 1)
			So(c.Compare(NewCoin(100, "ALF")), ShouldEqual, 0)
			So(c.Compare(NewCoin(101, "ALF")), ShouldEqual, -1)
			So(c.IsGTE(NewCoin(100, "ALF")), ShouldBeTrue)
			So(c.IsGTE(NewCoin(1, "BET")), ShouldBeFalse)
		})
	})
}

func TestCoinValidate(t *testing.T) {
	cases := map[string]struct {
		coin    Coin
		wantErr *errors.Error
	}{
		"valid":           {coin: NewCoin(1, "ALF")},
		"zero is valid":   {coin: NewCoin(0, "ALF")},
		"missing ticker":  {coin: NewCoin(1, ""), wantErr: errors.ErrInvalidInput},
		"lowercase":       {coin: NewCoin(1, "alf"), wantErr: errors.ErrInvalidInput},
		"ticker too long": {coin: NewCoin(1, "ALPHA"), wantErr: errors.ErrInvalidInput},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.coin.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestCoinHumanFormat(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    Coin
		wantErr *errors.Error
	}{
		"simple":        {raw: "100 ALF", want: NewCoin(100, "ALF")},
		"no space":      {raw: "7BET", want: NewCoin(7, "BET")},
		"negative":      {raw: "-1 ALF", wantErr: errors.ErrInvalidInput},
		"fractional":    {raw: "1.5 ALF", wantErr: errors.ErrInvalidInput},
		"too large":     {raw: "18446744073709551616 ALF", wantErr: errors.ErrOverflow},
		"missing value": {raw: "ALF", wantErr: errors.ErrInvalidInput},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseHumanFormat(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
				parsed, err := ParseHumanFormat(got.String())
				assert.Nil(t, err)
				assert.Equal(t, got, parsed)
			}
		})
	}
}

func TestCoinDeserialization(t *testing.T) {
	cases := map[string]struct {
		json    string
		want    Coin
		wantErr bool
	}{
		"human readable":  {json: `"42 ALF"`, want: NewCoin(42, "ALF")},
		"structured":      {json: `{"ticker": "BET", "amount": 3}`, want: NewCoin(3, "BET")},
		"invalid string":  {json: `"ALF 42"`, wantErr: true},
		"negative amount": {json: `{"ticker": "BET", "amount": -3}`, wantErr: true},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var c Coin
			err := json.Unmarshal([]byte(tc.json), &c)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, c)
		})
	}
}

func TestCoinWireFormat(t *testing.T) {
	c := NewCoin(300, "ALF")
	raw, err := c.Marshal()
	assert.Nil(t, err)
	// ticker field, length 3, "ALF", amount field, varint 300
	assert.Equal(t, []byte{0x0a, 0x03, 'A', 'L', 'F', 0x10, 0xac, 0x02}, raw)

	var loaded Coin
	assert.Nil(t, loaded.Unmarshal(raw))
	assert.Equal(t, c, loaded)
}
