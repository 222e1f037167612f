package nft721royalty

import (
	"io"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/bin"
)

type NFT721RoyaltyContractConstruction struct {
	Name   string
	Symbol string
	Minter common.Address
	Admin  *common.Address
}

func (s *NFT721RoyaltyContractConstruction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.String(w, s.Name); err != nil {
		return sum, err
	}
	if sum, err := sw.String(w, s.Symbol); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.Minter); err != nil {
		return sum, err
	}
	if sum, err := sw.Bool(w, s.Admin != nil); err != nil {
		return sum, err
	}
	if s.Admin != nil {
		if sum, err := sw.Address(w, *s.Admin); err != nil {
			return sum, err
		}
	}
	return sw.Sum(), nil
}

func (s *NFT721RoyaltyContractConstruction) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.String(r, &s.Name); err != nil {
		return sum, err
	}
	if sum, err := sr.String(r, &s.Symbol); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.Minter); err != nil {
		return sum, err
	}
	var hasAdmin bool
	if sum, err := sr.Bool(r, &hasAdmin); err != nil {
		return sum, err
	}
	s.Admin = nil
	if hasAdmin {
		s.Admin = &common.Address{}
		if sum, err := sr.Address(r, s.Admin); err != nil {
			return sum, err
		}
	}
	return sr.Sum(), nil
}
