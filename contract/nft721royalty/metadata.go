package nft721royalty

import (
	"io"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/bin"
)

// Metadata is the royalty extension of a token.
// A token without a percentage pays no royalty.
type Metadata struct {
	RoyaltyPercentage     *uint64
	RoyaltyPaymentAddress string
}

func (m *Metadata) validate() error {
	if m.RoyaltyPercentage != nil && *m.RoyaltyPercentage > 100 {
		return errors.Wrapf(ErrInvalidRoyaltyPercentage, "%v", *m.RoyaltyPercentage)
	}
	if m.RoyaltyPaymentAddress != "" {
		if _, err := common.ParseAddress(m.RoyaltyPaymentAddress); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metadata) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Bool(w, m.RoyaltyPercentage != nil); err != nil {
		return sum, err
	}
	if m.RoyaltyPercentage != nil {
		if sum, err := sw.Uint64(w, *m.RoyaltyPercentage); err != nil {
			return sum, err
		}
	}
	if sum, err := sw.String(w, m.RoyaltyPaymentAddress); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (m *Metadata) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	var hasPercentage bool
	if sum, err := sr.Bool(r, &hasPercentage); err != nil {
		return sum, err
	}
	m.RoyaltyPercentage = nil
	if hasPercentage {
		pct, sum, err := sr.GetUint64(r)
		if err != nil {
			return sum, err
		}
		m.RoyaltyPercentage = &pct
	}
	if sum, err := sr.String(r, &m.RoyaltyPaymentAddress); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}

// UnmarshalText reads the extension from its JSON form,
// {"royalty_percentage": 10, "royalty_payment_address": "0x..."}
func (m *Metadata) UnmarshalText(text []byte) error {
	if !gjson.ValidBytes(text) {
		return errors.Wrapf(ErrInvalidMetadata, "%q", text)
	}
	res := gjson.ParseBytes(text)
	m.RoyaltyPercentage = nil
	if pct := res.Get("royalty_percentage"); pct.Exists() {
		if pct.Type != gjson.Number || pct.Num < 0 {
			return errors.Wrapf(ErrInvalidMetadata, "royalty_percentage %v", pct.Raw)
		}
		v := pct.Uint()
		m.RoyaltyPercentage = &v
	}
	m.RoyaltyPaymentAddress = res.Get("royalty_payment_address").String()
	return nil
}
