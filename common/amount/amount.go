package amount

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// MaxUint128 is the largest value an Amount may hold in a ledger
var MaxUint128 = &Amount{Int: new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))}

var zeroInt = big.NewInt(0)

// Amount is an unsigned integer amount of raw token units based on the big.Int
type Amount struct {
	*big.Int
}

func newAmount(value int64) *Amount {
	return &Amount{
		Int: big.NewInt(value),
	}
}

// NewAmount returns the amount of the raw units
func NewAmount(v uint64) *Amount {
	return &Amount{
		Int: new(big.Int).SetUint64(v),
	}
}

// Zero returns a new zero amount
func Zero() *Amount {
	return newAmount(0)
}

// NewAmountFromBytes parse the amount from the byte array
func NewAmountFromBytes(bs []byte) *Amount {
	b := newAmount(0)
	b.Int.SetBytes(bs)
	return b
}

// MarshalJSON is a marshaler function
func (am *Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + am.String() + `"`), nil
}

// UnmarshalJSON is a unmarshaler function
func (am *Amount) UnmarshalJSON(bs []byte) error {
	if len(bs) < 3 {
		return errors.WithStack(ErrInvalidAmountFormat)
	}
	if bs[0] != '"' || bs[len(bs)-1] != '"' {
		return errors.WithStack(ErrInvalidAmountFormat)
	}
	v, err := ParseAmount(string(bs[1 : len(bs)-1]))
	if err != nil {
		return err
	}
	am.Int = v.Int
	return nil
}

// MarshalText is used by toml and yaml encoders
func (am *Amount) MarshalText() ([]byte, error) {
	return []byte(am.String()), nil
}

// UnmarshalText is used by toml and yaml decoders
func (am *Amount) UnmarshalText(bs []byte) error {
	v, err := ParseAmount(string(bs))
	if err != nil {
		return err
	}
	am.Int = v.Int
	return nil
}

// Clone returns the clonend value of it
func (am *Amount) Clone() *Amount {
	c := newAmount(0)
	c.Int.Add(am.Int, zeroInt)
	return c
}

// Add returns a + b (*immutable)
func (am *Amount) Add(b *Amount) *Amount {
	c := newAmount(0)
	c.Int.Add(am.Int, b.Int)
	return c
}

// Sub returns a - b (*immutable)
func (am *Amount) Sub(b *Amount) *Amount {
	c := newAmount(0)
	c.Int.Sub(am.Int, b.Int)
	return c
}

// CheckedAdd returns a + b or ErrOverflow when the result exceeds MaxUint128
func (am *Amount) CheckedAdd(b *Amount) (*Amount, error) {
	c := am.Add(b)
	if c.Cmp(MaxUint128.Int) > 0 {
		return nil, errors.Wrapf(ErrOverflow, "%v + %v", am.String(), b.String())
	}
	return c, nil
}

// CheckedSub returns a - b or ErrUnderflow when b is greater than a
func (am *Amount) CheckedSub(b *Amount) (*Amount, error) {
	if am.Less(b) {
		return nil, errors.Wrapf(ErrUnderflow, "%v - %v", am.String(), b.String())
	}
	return am.Sub(b), nil
}

// DivC returns a / b (*immutable)
func (am *Amount) DivC(b int64) *Amount {
	c := newAmount(0)
	c.Int.Div(am.Int, big.NewInt(b))
	return c
}

// MulC returns a * b (*immutable)
func (am *Amount) MulC(b int64) *Amount {
	c := newAmount(0)
	c.Int.Mul(am.Int, big.NewInt(b))
	return c
}

// IsZero returns a == 0
func (am *Amount) IsZero() bool {
	return am.Int.Cmp(zeroInt) == 0
}

// IsMinus returns a < 0
func (am *Amount) IsMinus() bool {
	return am.Int.Cmp(zeroInt) < 0
}

// Less returns a < b
func (am *Amount) Less(b *Amount) bool {
	return am.Int.Cmp(b.Int) < 0
}

// Equal checks that two values is same or not
func (am *Amount) Equal(b *Amount) bool {
	return am.Int.Cmp(b.Int) == 0
}

// String returns the decimal string of the amount
func (am *Amount) String() string {
	if am == nil || am.Int == nil {
		return "0"
	}
	return am.Int.String()
}

// ParseAmount parse the amount from the decimal or 0x-prefixed hex string
func ParseAmount(str string) (*Amount, error) {
	str = strings.TrimSpace(str)
	base := 10
	if strings.HasPrefix(str, "0x") {
		str = str[2:]
		base = 16
	}
	if len(str) == 0 {
		return nil, errors.WithStack(ErrInvalidAmountFormat)
	}
	bi, ok := new(big.Int).SetString(str, base)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidAmountFormat, "%q", str)
	}
	if bi.Sign() < 0 || bi.Cmp(MaxUint128.Int) > 0 {
		return nil, errors.Wrapf(ErrInvalidAmountFormat, "%q out of range", str)
	}
	return &Amount{Int: bi}, nil
}

