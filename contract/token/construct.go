package token

import (
	"io"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/amount"
	"github.com/meverselabs/ledger/common/bin"
)

// InitialBalance is a balance credited when the token is created
type InitialBalance struct {
	Address common.Address
	Amount  *amount.Amount
}

// MinterData names the account allowed to mint and the optional supply cap
type MinterData struct {
	Minter common.Address
	Cap    *amount.Amount
}

type TokenContractConstruction struct {
	Name            string
	Symbol          string
	Decimals        uint8
	InitialBalances []InitialBalance
	Mint            *MinterData
}

func (s *TokenContractConstruction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.String(w, s.Name); err != nil {
		return sum, err
	}
	if sum, err := sw.String(w, s.Symbol); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint8(w, s.Decimals); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, uint32(len(s.InitialBalances))); err != nil {
		return sum, err
	}
	for _, v := range s.InitialBalances {
		if sum, err := sw.Address(w, v.Address); err != nil {
			return sum, err
		}
		if sum, err := sw.Amount(w, v.Amount); err != nil {
			return sum, err
		}
	}
	if sum, err := sw.Bool(w, s.Mint != nil); err != nil {
		return sum, err
	}
	if s.Mint != nil {
		if sum, err := sw.Address(w, s.Mint.Minter); err != nil {
			return sum, err
		}
		if sum, err := sw.Bool(w, s.Mint.Cap != nil); err != nil {
			return sum, err
		}
		if s.Mint.Cap != nil {
			if sum, err := sw.Amount(w, s.Mint.Cap); err != nil {
				return sum, err
			}
		}
	}
	return sw.Sum(), nil
}

func (s *TokenContractConstruction) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.String(r, &s.Name); err != nil {
		return sum, err
	}
	if sum, err := sr.String(r, &s.Symbol); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint8(r, &s.Decimals); err != nil {
		return sum, err
	}
	if Len, sum, err := sr.GetUint32(r); err != nil {
		return sum, err
	} else {
		s.InitialBalances = []InitialBalance{}
		for i := uint32(0); i < Len; i++ {
			var v InitialBalance
			if sum, err := sr.Address(r, &v.Address); err != nil {
				return sum, err
			}
			if sum, err := sr.Amount(r, &v.Amount); err != nil {
				return sum, err
			}
			s.InitialBalances = append(s.InitialBalances, v)
		}
	}
	var hasMint bool
	if sum, err := sr.Bool(r, &hasMint); err != nil {
		return sum, err
	}
	s.Mint = nil
	if hasMint {
		s.Mint = &MinterData{}
		if sum, err := sr.Address(r, &s.Mint.Minter); err != nil {
			return sum, err
		}
		var hasCap bool
		if sum, err := sr.Bool(r, &hasCap); err != nil {
			return sum, err
		}
		if hasCap {
			if sum, err := sr.Amount(r, &s.Mint.Cap); err != nil {
				return sum, err
			}
		}
	}
	return sr.Sum(), nil
}
