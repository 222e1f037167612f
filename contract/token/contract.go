package token

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/amount"
	"github.com/meverselabs/ledger/core/types"
)

// TokenContract is a fungible token whose holders can delegate spending through allowances
type TokenContract struct {
	addr   common.Address
	master common.Address
}

func (cont *TokenContract) Address() common.Address {
	return cont.addr
}

func (cont *TokenContract) Master() common.Address {
	return cont.master
}

func (cont *TokenContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
}

func (cont *TokenContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	data := &TokenContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	if err := validateConstruction(data); err != nil {
		return err
	}
	cc.SetContractData([]byte{tagTokenName}, []byte(data.Name))
	cc.SetContractData([]byte{tagTokenSymbol}, []byte(data.Symbol))
	cc.SetContractData([]byte{tagTokenDecimals}, []byte{data.Decimals})

	seen := map[common.Address]bool{}
	total := amount.Zero()
	for _, v := range data.InitialBalances {
		if seen[v.Address] {
			return errors.Wrapf(ErrDuplicateInitialBalance, "%v", v.Address.String())
		}
		seen[v.Address] = true
		if err := checkAmount(v.Amount); err != nil {
			return err
		}
		if err := cont.addBalance(cc, v.Address, v.Amount); err != nil {
			return err
		}
		var err error
		if total, err = total.CheckedAdd(v.Amount); err != nil {
			return errors.Wrap(ErrArithmeticOverflow, err.Error())
		}
	}
	cont.setTotalSupply(cc, total)

	if data.Mint != nil {
		cc.SetContractData([]byte{tagTokenMinter}, data.Mint.Minter[:])
		if data.Mint.Cap != nil {
			if err := checkAmount(data.Mint.Cap); err != nil {
				return err
			}
			if data.Mint.Cap.Less(total) {
				return errors.Wrapf(ErrCannotExceedCap, "initial supply %v cap %v", total.String(), data.Mint.Cap.String())
			}
			// prefixed so that a zero cap is still stored
			cc.SetContractData([]byte{tagTokenCap}, append([]byte{1}, data.Mint.Cap.Bytes()...))
		}
	}
	return nil
}

func validateConstruction(data *TokenContractConstruction) error {
	if len(data.Name) < 3 || len(data.Name) > 50 {
		return errors.Wrap(ErrInvalidConstruction, "name is not in the expected format (3-50 UTF-8 bytes)")
	}
	if len(data.Symbol) < 3 || len(data.Symbol) > 12 {
		return errors.Wrap(ErrInvalidConstruction, "ticker symbol is not in expected format [a-zA-Z\\-]{3,12}")
	}
	for _, c := range data.Symbol {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && c != '-' {
			return errors.Wrap(ErrInvalidConstruction, "ticker symbol is not in expected format [a-zA-Z\\-]{3,12}")
		}
	}
	if data.Decimals > 18 {
		return errors.Wrap(ErrInvalidConstruction, "decimals must not exceed 18")
	}
	return nil
}

// checkAmount rejects amounts outside of the unsigned 128-bit range
func checkAmount(am *amount.Amount) error {
	if am == nil || am.Int == nil {
		return errors.Wrap(ErrInvalidAmount, "nil amount")
	}
	if am.IsMinus() {
		return errors.Wrapf(ErrInvalidAmount, "negative amount %v", am.String())
	}
	if amount.MaxUint128.Less(am) {
		return errors.Wrapf(ErrInvalidAmount, "%v exceeds 128 bits", am.String())
	}
	return nil
}

func checkNonZeroAmount(am *amount.Amount) error {
	if err := checkAmount(am); err != nil {
		return err
	}
	if am.IsZero() {
		return errors.WithStack(ErrInvalidZeroAmount)
	}
	return nil
}

//////////////////////////////////////////////////
// Balance Ledger
//////////////////////////////////////////////////

func (cont *TokenContract) addBalance(cc *types.ContractContext, addr common.Address, am *amount.Amount) error {
	bal := cont.BalanceOf(cc, addr)
	bal, err := bal.CheckedAdd(am)
	if err != nil {
		return errors.Wrapf(ErrArithmeticOverflow, "balance of %v: %v", addr.String(), err)
	}
	cc.SetAccountData(addr, []byte{tagTokenAmount}, bal.Bytes())
	return nil
}

func (cont *TokenContract) subBalance(cc *types.ContractContext, addr common.Address, am *amount.Amount) error {
	bal := cont.BalanceOf(cc, addr)
	bal, err := bal.CheckedSub(am)
	if err != nil {
		return errors.Wrapf(ErrInsufficientFunds, "balance of %v: %v", addr.String(), err)
	}
	if bal.IsZero() {
		cc.SetAccountData(addr, []byte{tagTokenAmount}, nil)
	} else {
		cc.SetAccountData(addr, []byte{tagTokenAmount}, bal.Bytes())
	}
	return nil
}

func (cont *TokenContract) setTotalSupply(cc *types.ContractContext, total *amount.Amount) {
	cc.SetContractData([]byte{tagTokenTotalSupply}, total.Bytes())
}

func (cont *TokenContract) addTotalSupply(cc *types.ContractContext, am *amount.Amount) error {
	total, err := cont.TotalSupply(cc).CheckedAdd(am)
	if err != nil {
		return errors.Wrap(ErrArithmeticOverflow, err.Error())
	}
	cont.setTotalSupply(cc, total)
	return nil
}

func (cont *TokenContract) subTotalSupply(cc *types.ContractContext, am *amount.Amount) error {
	total, err := cont.TotalSupply(cc).CheckedSub(am)
	if err != nil {
		return errors.Wrap(ErrArithmeticUnderflow, err.Error())
	}
	cont.setTotalSupply(cc, total)
	return nil
}

// move debits the from account and credits the to account
func (cont *TokenContract) move(cc *types.ContractContext, From common.Address, To common.Address, am *amount.Amount) error {
	if err := cont.subBalance(cc, From, am); err != nil {
		return err
	}
	return cont.addBalance(cc, To, am)
}

// notify calls Receive of the contract as this token in the same invocation
func (cont *TokenContract) notify(cc *types.ContractContext, Contract common.Address, Sender common.Address, am *amount.Amount, Msg []byte) error {
	if _, err := cc.Exec(cc, Contract, "Receive", []interface{}{Sender, am, Msg}); err != nil {
		return errors.Wrapf(err, "receive of %v", Contract.String())
	}
	return nil
}

//////////////////////////////////////////////////
// Public Writer Functions
//////////////////////////////////////////////////

func (cont *TokenContract) Transfer(cc *types.ContractContext, To common.Address, Amount *amount.Amount) error {
	if err := checkNonZeroAmount(Amount); err != nil {
		return err
	}
	if err := cont.move(cc, cc.From(), To, Amount); err != nil {
		return err
	}
	cc.EmitEvent("transfer", "from", cc.From().String(), "to", To.String(), "amount", Amount.String())
	return nil
}

func (cont *TokenContract) Burn(cc *types.ContractContext, Amount *amount.Amount) error {
	if err := checkNonZeroAmount(Amount); err != nil {
		return err
	}
	if err := cont.subBalance(cc, cc.From(), Amount); err != nil {
		return err
	}
	if err := cont.subTotalSupply(cc, Amount); err != nil {
		return err
	}
	cc.EmitEvent("burn", "from", cc.From().String(), "amount", Amount.String())
	return nil
}

// Send moves the amount to the contract and calls its Receive with the caller as the sender
func (cont *TokenContract) Send(cc *types.ContractContext, Contract common.Address, Amount *amount.Amount, Msg []byte) error {
	if err := checkNonZeroAmount(Amount); err != nil {
		return err
	}
	if err := cont.move(cc, cc.From(), Contract, Amount); err != nil {
		return err
	}
	cc.EmitEvent("send", "from", cc.From().String(), "to", Contract.String(), "amount", Amount.String())
	return cont.notify(cc, Contract, cc.From(), Amount, Msg)
}

func (cont *TokenContract) Mint(cc *types.ContractContext, To common.Address, Amount *amount.Amount) error {
	if err := checkNonZeroAmount(Amount); err != nil {
		return err
	}
	minter := cont.Minter(cc)
	if minter == nil || minter.Minter != cc.From() {
		return errors.Wrapf(ErrUnauthorized, "%v is not the minter", cc.From().String())
	}
	if minter.Cap != nil {
		total, err := cont.TotalSupply(cc).CheckedAdd(Amount)
		if err != nil {
			return errors.Wrap(ErrArithmeticOverflow, err.Error())
		}
		if minter.Cap.Less(total) {
			return errors.Wrapf(ErrCannotExceedCap, "supply %v cap %v", total.String(), minter.Cap.String())
		}
	}
	if err := cont.addTotalSupply(cc, Amount); err != nil {
		return err
	}
	if err := cont.addBalance(cc, To, Amount); err != nil {
		return err
	}
	cc.EmitEvent("mint", "to", To.String(), "amount", Amount.String())
	return nil
}

// UpdateMinter hands the minter role over, a nil minter disables minting for good
func (cont *TokenContract) UpdateMinter(cc *types.ContractContext, NewMinter *common.Address) error {
	minter := cont.Minter(cc)
	if minter == nil || minter.Minter != cc.From() {
		return errors.Wrapf(ErrUnauthorized, "%v is not the minter", cc.From().String())
	}
	if NewMinter == nil {
		cc.SetContractData([]byte{tagTokenMinter}, nil)
		cc.SetContractData([]byte{tagTokenCap}, nil)
		cc.EmitEvent("update_minter", "new_minter", "none")
		return nil
	}
	cc.SetContractData([]byte{tagTokenMinter}, NewMinter[:])
	cc.EmitEvent("update_minter", "new_minter", NewMinter.String())
	return nil
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (cont *TokenContract) Name(cc types.ContractLoader) string {
	return string(cc.ContractData([]byte{tagTokenName}))
}

func (cont *TokenContract) Symbol(cc types.ContractLoader) string {
	return string(cc.ContractData([]byte{tagTokenSymbol}))
}

func (cont *TokenContract) Decimals(cc types.ContractLoader) uint8 {
	bs := cc.ContractData([]byte{tagTokenDecimals})
	if len(bs) == 0 {
		return 0
	}
	return bs[0]
}

func (cont *TokenContract) TotalSupply(cc types.ContractLoader) *amount.Amount {
	return amount.NewAmountFromBytes(cc.ContractData([]byte{tagTokenTotalSupply}))
}

func (cont *TokenContract) BalanceOf(cc types.ContractLoader, addr common.Address) *amount.Amount {
	return amount.NewAmountFromBytes(cc.AccountData(addr, []byte{tagTokenAmount}))
}

// TokenInfo is the description of the token
type TokenInfo struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *amount.Amount
}

func (cont *TokenContract) TokenInfo(cc types.ContractLoader) *TokenInfo {
	return &TokenInfo{
		Name:        cont.Name(cc),
		Symbol:      cont.Symbol(cc),
		Decimals:    cont.Decimals(cc),
		TotalSupply: cont.TotalSupply(cc),
	}
}

// Minter returns nil when the token cannot be minted
func (cont *TokenContract) Minter(cc types.ContractLoader) *MinterData {
	bs := cc.ContractData([]byte{tagTokenMinter})
	if len(bs) == 0 {
		return nil
	}
	m := &MinterData{
		Minter: common.BytesToAddress(bs),
	}
	if bs := cc.ContractData([]byte{tagTokenCap}); len(bs) > 0 {
		m.Cap = amount.NewAmountFromBytes(bs[1:])
	}
	return m
}
