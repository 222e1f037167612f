package nft721royalty

import (
	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/amount"
	"github.com/meverselabs/ledger/core/types"
)

func (cont *NFT721RoyaltyContract) Front() interface{} {
	return &front{
		cont: cont,
	}
}

type front struct {
	cont *NFT721RoyaltyContract
}

func (f *front) Mint(cc *types.ContractContext, TokenID string, Owner common.Address, TokenURI string, Extension *Metadata) error {
	return f.cont.Mint(cc, TokenID, Owner, TokenURI, Extension)
}

func (f *front) TransferNft(cc *types.ContractContext, Recipient common.Address, TokenID string) error {
	return f.cont.TransferNft(cc, Recipient, TokenID)
}

func (f *front) Burn(cc *types.ContractContext, TokenID string) error {
	return f.cont.Burn(cc, TokenID)
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (f *front) Name(cc types.ContractLoader) string {
	return f.cont.Name(cc)
}

func (f *front) Symbol(cc types.ContractLoader) string {
	return f.cont.Symbol(cc)
}

func (f *front) Minter(cc types.ContractLoader) common.Address {
	return f.cont.Minter(cc)
}

func (f *front) Admin(cc types.ContractLoader) *common.Address {
	return f.cont.Admin(cc)
}

func (f *front) NumTokens(cc types.ContractLoader) uint64 {
	return f.cont.NumTokens(cc)
}

func (f *front) OwnerOf(cc types.ContractLoader, TokenID string) (common.Address, error) {
	return f.cont.OwnerOf(cc, TokenID)
}

func (f *front) NftInfo(cc types.ContractLoader, TokenID string) (*NftInfo, error) {
	return f.cont.NftInfo(cc, TokenID)
}

func (f *front) Tokens(cc types.ContractLoader, Owner common.Address, StartAfter *string, Limit uint32) ([]string, error) {
	return f.cont.Tokens(cc, Owner, StartAfter, Limit)
}

func (f *front) RoyaltyInfo(cc types.ContractLoader, TokenID string, SalePrice *amount.Amount) (*RoyaltyInfo, error) {
	return f.cont.RoyaltyInfo(cc, TokenID, SalePrice)
}

func (f *front) CheckRoyalties(cc types.ContractLoader) bool {
	return f.cont.CheckRoyalties(cc)
}
