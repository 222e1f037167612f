package nft721royalty

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/amount"
	"github.com/meverselabs/ledger/common/bin"
	"github.com/meverselabs/ledger/core/types"
)

// NFT721RoyaltyContract is a non fungible token collection whose tokens may carry a sale royalty
type NFT721RoyaltyContract struct {
	addr   common.Address
	master common.Address
}

func (cont *NFT721RoyaltyContract) Address() common.Address {
	return cont.addr
}

func (cont *NFT721RoyaltyContract) Master() common.Address {
	return cont.master
}

func (cont *NFT721RoyaltyContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
}

func (cont *NFT721RoyaltyContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	data := &NFT721RoyaltyContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	if strings.TrimSpace(data.Name) == "" || strings.TrimSpace(data.Symbol) == "" {
		return errors.Wrap(ErrInvalidConstruction, "name and symbol are required")
	}
	cc.SetContractData([]byte{tagName}, []byte(data.Name))
	cc.SetContractData([]byte{tagSymbol}, []byte(data.Symbol))
	cc.SetContractData([]byte{tagMinter}, data.Minter[:])
	if data.Admin != nil {
		cc.SetContractData([]byte{tagAdmin}, data.Admin[:])
	}
	return nil
}

//////////////////////////////////////////////////
// Public Writer Functions
//////////////////////////////////////////////////

// Mint creates the token for the owner, only the minter may call it
func (cont *NFT721RoyaltyContract) Mint(cc *types.ContractContext, TokenID string, Owner common.Address, TokenURI string, Extension *Metadata) error {
	if cc.From() != cont.Minter(cc) {
		return errors.Wrapf(ErrUnauthorized, "%v is not the minter", cc.From().String())
	}
	if TokenID == "" {
		return errors.WithStack(ErrInvalidTokenID)
	}
	if cont.exists(cc, TokenID) {
		return errors.Wrapf(ErrTokenClaimed, "%v", TokenID)
	}
	if Extension == nil {
		Extension = &Metadata{}
	}
	if err := Extension.validate(); err != nil {
		return err
	}
	bs, _, err := bin.WriterToBytes(Extension)
	if err != nil {
		return err
	}
	cc.SetContractData(makeTokenURIKey(TokenID), []byte(TokenURI))
	cc.SetContractData(makeExtensionKey(TokenID), bs)
	cont.setOwner(cc, TokenID, Owner)
	cc.SetContractData([]byte{tagNumTokens}, bin.Uint64Bytes(cont.NumTokens(cc)+1))
	cc.EmitEvent("mint", "minter", cc.From().String(), "owner", Owner.String(), "token_id", TokenID)
	return nil
}

// TransferNft moves the token of the caller to the recipient
func (cont *NFT721RoyaltyContract) TransferNft(cc *types.ContractContext, Recipient common.Address, TokenID string) error {
	owner, err := cont.OwnerOf(cc, TokenID)
	if err != nil {
		return err
	}
	if owner != cc.From() {
		return errors.Wrapf(ErrUnauthorized, "%v is not the owner of %v", cc.From().String(), TokenID)
	}
	cc.SetAccountData(owner, makeOwnedTokenKey(TokenID), nil)
	cont.setOwner(cc, TokenID, Recipient)
	cc.EmitEvent("transfer_nft", "sender", owner.String(), "recipient", Recipient.String(), "token_id", TokenID)
	return nil
}

// Burn destroys the token of the caller
func (cont *NFT721RoyaltyContract) Burn(cc *types.ContractContext, TokenID string) error {
	owner, err := cont.OwnerOf(cc, TokenID)
	if err != nil {
		return err
	}
	if owner != cc.From() {
		return errors.Wrapf(ErrUnauthorized, "%v is not the owner of %v", cc.From().String(), TokenID)
	}
	cc.SetAccountData(owner, makeOwnedTokenKey(TokenID), nil)
	cc.SetContractData(makeNFTOwnerKey(TokenID), nil)
	cc.SetContractData(makeTokenURIKey(TokenID), nil)
	cc.SetContractData(makeExtensionKey(TokenID), nil)
	cc.SetContractData([]byte{tagNumTokens}, bin.Uint64Bytes(cont.NumTokens(cc)-1))
	cc.EmitEvent("burn", "sender", owner.String(), "token_id", TokenID)
	return nil
}

func (cont *NFT721RoyaltyContract) setOwner(cc *types.ContractContext, TokenID string, Owner common.Address) {
	cc.SetContractData(makeNFTOwnerKey(TokenID), Owner[:])
	cc.SetAccountData(Owner, makeOwnedTokenKey(TokenID), []byte{1})
}

func (cont *NFT721RoyaltyContract) exists(cc types.ContractLoader, TokenID string) bool {
	return len(cc.ContractData(makeNFTOwnerKey(TokenID))) > 0
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (cont *NFT721RoyaltyContract) Name(cc types.ContractLoader) string {
	return string(cc.ContractData([]byte{tagName}))
}

func (cont *NFT721RoyaltyContract) Symbol(cc types.ContractLoader) string {
	return string(cc.ContractData([]byte{tagSymbol}))
}

func (cont *NFT721RoyaltyContract) Minter(cc types.ContractLoader) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{tagMinter}))
}

// Admin returns nil when the collection has no admin
func (cont *NFT721RoyaltyContract) Admin(cc types.ContractLoader) *common.Address {
	bs := cc.ContractData([]byte{tagAdmin})
	if len(bs) == 0 {
		return nil
	}
	addr := common.BytesToAddress(bs)
	return &addr
}

func (cont *NFT721RoyaltyContract) NumTokens(cc types.ContractLoader) uint64 {
	bs := cc.ContractData([]byte{tagNumTokens})
	if len(bs) == 0 {
		return 0
	}
	return bin.Uint64(bs)
}

func (cont *NFT721RoyaltyContract) OwnerOf(cc types.ContractLoader, TokenID string) (common.Address, error) {
	bs := cc.ContractData(makeNFTOwnerKey(TokenID))
	if len(bs) == 0 {
		return common.Address{}, errors.Wrapf(ErrNotExistToken, "%v", TokenID)
	}
	return common.BytesToAddress(bs), nil
}

// NftInfo is the uri and the extension of a token
type NftInfo struct {
	TokenURI  string
	Extension *Metadata
}

func (cont *NFT721RoyaltyContract) NftInfo(cc types.ContractLoader, TokenID string) (*NftInfo, error) {
	if !cont.exists(cc, TokenID) {
		return nil, errors.Wrapf(ErrNotExistToken, "%v", TokenID)
	}
	ext := &Metadata{}
	if bs := cc.ContractData(makeExtensionKey(TokenID)); len(bs) > 0 {
		if _, err := ext.ReadFrom(bytes.NewReader(bs)); err != nil {
			return nil, err
		}
	}
	return &NftInfo{
		TokenURI:  string(cc.ContractData(makeTokenURIKey(TokenID))),
		Extension: ext,
	}, nil
}

// Tokens lists the tokens of the owner in id order after StartAfter
func (cont *NFT721RoyaltyContract) Tokens(cc types.ContractLoader, Owner common.Address, StartAfter *string, Limit uint32) ([]string, error) {
	keys, err := cc.AccountDataKeys(Owner, []byte{tagOwnedToken})
	if err != nil {
		return nil, err
	}
	limit := clampLimit(Limit)
	ids := []string{}
	for _, key := range keys {
		if len(ids) >= limit {
			break
		}
		id := string(key[1:])
		if StartAfter != nil && id <= *StartAfter {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RoyaltyInfo is the payment owed to the royalty address for a sale
type RoyaltyInfo struct {
	Address       string
	RoyaltyAmount *amount.Amount
}

// RoyaltyInfo returns the royalty of the sale price rounded down, or an empty payment when the token has none
func (cont *NFT721RoyaltyContract) RoyaltyInfo(cc types.ContractLoader, TokenID string, SalePrice *amount.Amount) (*RoyaltyInfo, error) {
	info, err := cont.NftInfo(cc, TokenID)
	if err != nil {
		return nil, err
	}
	ext := info.Extension
	if ext.RoyaltyPercentage == nil {
		return &RoyaltyInfo{RoyaltyAmount: amount.Zero()}, nil
	}
	return &RoyaltyInfo{
		Address:       ext.RoyaltyPaymentAddress,
		RoyaltyAmount: SalePrice.MulC(int64(*ext.RoyaltyPercentage)).DivC(100),
	}, nil
}

// CheckRoyalties reports that the collection implements royalties
func (cont *NFT721RoyaltyContract) CheckRoyalties(cc types.ContractLoader) bool {
	return true
}
