package token

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/meverselabs/ledger/common/bin"
	"github.com/meverselabs/ledger/core/types"
)

// ExpirationKind tags the deadline of a grant
type ExpirationKind uint8

// expiration kinds
const (
	ExpiresNever    ExpirationKind = 0
	ExpiresAtHeight ExpirationKind = 1
	ExpiresAtTime   ExpirationKind = 2
)

// Expiration is the deadline of a grant checked against the block context
type Expiration struct {
	Kind  ExpirationKind
	Value uint64
}

func Never() Expiration {
	return Expiration{Kind: ExpiresNever}
}

func AtHeight(Height uint64) Expiration {
	return Expiration{Kind: ExpiresAtHeight, Value: Height}
}

// AtTime expires at the block time in seconds since epoch
func AtTime(Time uint64) Expiration {
	return Expiration{Kind: ExpiresAtTime, Value: Time}
}

// IsExpired reports whether the deadline is reached at the block
func (e Expiration) IsExpired(b types.BlockContext) bool {
	switch e.Kind {
	case ExpiresAtHeight:
		return b.Height >= e.Value
	case ExpiresAtTime:
		return b.Time >= e.Value
	default:
		return false
	}
}

func (e Expiration) String() string {
	switch e.Kind {
	case ExpiresAtHeight:
		return "at_height:" + strconv.FormatUint(e.Value, 10)
	case ExpiresAtTime:
		return "at_time:" + strconv.FormatUint(e.Value, 10)
	default:
		return "never"
	}
}

// ParseExpiration parses "never", "at_height:<h>" or "at_time:<seconds>"
func ParseExpiration(s string) (Expiration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "never" {
		return Never(), nil
	}
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		return Expiration{}, errors.Wrapf(ErrInvalidExpirationFormat, "%q", s)
	}
	v, err := strconv.ParseUint(s[idx+1:], 10, 64)
	if err != nil {
		return Expiration{}, errors.Wrapf(ErrInvalidExpirationFormat, "%q", s)
	}
	switch s[:idx] {
	case "at_height":
		return AtHeight(v), nil
	case "at_time":
		return AtTime(v), nil
	}
	return Expiration{}, errors.Wrapf(ErrInvalidExpirationFormat, "%q", s)
}

func (e Expiration) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Expiration) UnmarshalText(bs []byte) error {
	v, err := ParseExpiration(string(bs))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func (e Expiration) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Uint8(w, uint8(e.Kind)); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint64(w, e.Value); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (e *Expiration) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	var kind uint8
	if sum, err := sr.Uint8(r, &kind); err != nil {
		return sum, err
	}
	if ExpirationKind(kind) > ExpiresAtTime {
		return sr.Sum(), errors.Wrapf(ErrInvalidExpirationFormat, "kind %v", kind)
	}
	e.Kind = ExpirationKind(kind)
	if sum, err := sr.Uint64(r, &e.Value); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
