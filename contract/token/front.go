package token

import (
	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/amount"
	"github.com/meverselabs/ledger/core/types"
)

func (cont *TokenContract) Front() interface{} {
	return &front{
		cont: cont,
	}
}

type front struct {
	cont *TokenContract
}

func (f *front) Transfer(cc *types.ContractContext, To common.Address, Amount *amount.Amount) error {
	return f.cont.Transfer(cc, To, Amount)
}

func (f *front) Burn(cc *types.ContractContext, Amount *amount.Amount) error {
	return f.cont.Burn(cc, Amount)
}

func (f *front) Send(cc *types.ContractContext, Contract common.Address, Amount *amount.Amount, Msg []byte) error {
	return f.cont.Send(cc, Contract, Amount, Msg)
}

func (f *front) Mint(cc *types.ContractContext, To common.Address, Amount *amount.Amount) error {
	return f.cont.Mint(cc, To, Amount)
}

func (f *front) UpdateMinter(cc *types.ContractContext, NewMinter *common.Address) error {
	return f.cont.UpdateMinter(cc, NewMinter)
}

func (f *front) IncreaseAllowance(cc *types.ContractContext, Spender common.Address, Amount *amount.Amount, Expires *Expiration) error {
	return f.cont.IncreaseAllowance(cc, Spender, Amount, Expires)
}

func (f *front) DecreaseAllowance(cc *types.ContractContext, Spender common.Address, Amount *amount.Amount, Expires *Expiration) error {
	return f.cont.DecreaseAllowance(cc, Spender, Amount, Expires)
}

func (f *front) TransferFrom(cc *types.ContractContext, Owner common.Address, Recipient common.Address, Amount *amount.Amount) error {
	return f.cont.TransferFrom(cc, Owner, Recipient, Amount)
}

func (f *front) BurnFrom(cc *types.ContractContext, Owner common.Address, Amount *amount.Amount) error {
	return f.cont.BurnFrom(cc, Owner, Amount)
}

func (f *front) SendFrom(cc *types.ContractContext, Owner common.Address, Contract common.Address, Amount *amount.Amount, Msg []byte) error {
	return f.cont.SendFrom(cc, Owner, Contract, Amount, Msg)
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

func (f *front) Decimals(cc types.ContractLoader) uint8 {
	return f.cont.Decimals(cc)
}

func (f *front) TotalSupply(cc types.ContractLoader) *amount.Amount {
	return f.cont.TotalSupply(cc)
}

func (f *front) BalanceOf(cc types.ContractLoader, From common.Address) *amount.Amount {
	return f.cont.BalanceOf(cc, From)
}

func (f *front) TokenInfo(cc types.ContractLoader) *TokenInfo {
	return f.cont.TokenInfo(cc)
}

func (f *front) Minter(cc types.ContractLoader) *MinterData {
	return f.cont.Minter(cc)
}

func (f *front) Allowance(cc types.ContractLoader, Owner common.Address, Spender common.Address) (*Allowance, error) {
	return f.cont.Allowance(cc, Owner, Spender)
}

func (f *front) SpenderAllowance(cc types.ContractLoader, Spender common.Address, Owner common.Address) (*Allowance, error) {
	return f.cont.SpenderAllowance(cc, Spender, Owner)
}

func (f *front) AllAllowances(cc types.ContractLoader, Owner common.Address, StartAfter *common.Address, Limit uint32) ([]*AllowanceInfo, error) {
	return f.cont.AllAllowances(cc, Owner, StartAfter, Limit)
}

func (f *front) AllSpenderAllowances(cc types.ContractLoader, Spender common.Address, StartAfter *common.Address, Limit uint32) ([]*SpenderAllowanceInfo, error) {
	return f.cont.AllSpenderAllowances(cc, Spender, StartAfter, Limit)
}
