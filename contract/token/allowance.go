package token

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/amount"
	"github.com/meverselabs/ledger/common/bin"
	"github.com/meverselabs/ledger/core/types"
)

// Allowance is how much a spender may still move out of the owner's balance
type Allowance struct {
	Amount  *amount.Amount
	Expires Expiration
}

// DefaultAllowance is the value of a grant that is not stored
func DefaultAllowance() *Allowance {
	return &Allowance{
		Amount:  amount.Zero(),
		Expires: Never(),
	}
}

func (a *Allowance) Clone() *Allowance {
	return &Allowance{
		Amount:  a.Amount.Clone(),
		Expires: a.Expires,
	}
}

func (a *Allowance) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Amount(w, a.Amount); err != nil {
		return sum, err
	}
	if sum, err := sw.WriterTo(w, a.Expires); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (a *Allowance) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Amount(r, &a.Amount); err != nil {
		return sum, err
	}
	if sum, err := sr.ReaderFrom(r, &a.Expires); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}

// allowanceUpdater turns the stored grant (nil when absent) into the grant to store (nil to delete)
type allowanceUpdater func(current *Allowance) (*Allowance, error)

func readAllowance(cc types.ContractLoader, addr common.Address, key []byte) (*Allowance, error) {
	bs := cc.AccountData(addr, key)
	if len(bs) == 0 {
		return nil, nil
	}
	a := &Allowance{}
	if _, err := a.ReadFrom(bytes.NewReader(bs)); err != nil {
		return nil, err
	}
	return a, nil
}

func writeAllowance(cc *types.ContractContext, addr common.Address, key []byte, a *Allowance) error {
	if a == nil {
		cc.SetAccountData(addr, key, nil)
		return nil
	}
	bs, _, err := bin.WriterToBytes(a)
	if err != nil {
		return err
	}
	cc.SetAccountData(addr, key, bs)
	return nil
}

// updateAllowance applies fn to the grant in the owner index and to its mirror in the spender index.
// Both sides hold the same value, so fn gives the same result twice.
// The invocation snapshot discards both writes when anything later fails.
func updateAllowance(cc *types.ContractContext, owner common.Address, spender common.Address, fn allowanceUpdater) (*Allowance, error) {
	sides := []struct {
		addr common.Address
		key  []byte
	}{
		{owner, makeAllowanceKey(spender)},
		{spender, makeAllowanceSpenderKey(owner)},
	}
	var result *Allowance
	for _, side := range sides {
		current, err := readAllowance(cc, side.addr, side.key)
		if err != nil {
			return nil, err
		}
		next, err := fn(current)
		if err != nil {
			return nil, err
		}
		if err := writeAllowance(cc, side.addr, side.key, next); err != nil {
			return nil, err
		}
		result = next
	}
	return result, nil
}

func validateExpires(cc *types.ContractContext, Expires *Expiration) error {
	if Expires != nil && Expires.IsExpired(cc.Block()) {
		return errors.Wrapf(ErrInvalidExpiration, "%v at %v", Expires.String(), cc.Block().String())
	}
	return nil
}

//////////////////////////////////////////////////
// Allowance Writer Functions
//////////////////////////////////////////////////

// IncreaseAllowance adds the amount to the grant of the caller to the spender.
// A given expiration replaces the stored one.
func (cont *TokenContract) IncreaseAllowance(cc *types.ContractContext, Spender common.Address, Amount *amount.Amount, Expires *Expiration) error {
	owner := cc.From()
	if Spender == owner {
		return errors.WithStack(ErrSelfAllowance)
	}
	if err := checkAmount(Amount); err != nil {
		return err
	}
	if _, err := updateAllowance(cc, owner, Spender, func(current *Allowance) (*Allowance, error) {
		val := DefaultAllowance()
		if current != nil {
			val = current.Clone()
		}
		if Expires != nil {
			if err := validateExpires(cc, Expires); err != nil {
				return nil, err
			}
			val.Expires = *Expires
		}
		sum, err := val.Amount.CheckedAdd(Amount)
		if err != nil {
			return nil, errors.Wrap(ErrArithmeticOverflow, err.Error())
		}
		val.Amount = sum
		return val, nil
	}); err != nil {
		return err
	}
	cc.EmitEvent("increase_allowance", "owner", owner.String(), "spender", Spender.String(), "amount", Amount.String())
	return nil
}

// DecreaseAllowance subtracts the amount from the grant of the caller to the spender.
// A decrease that reaches zero removes the grant and ignores the expiration.
func (cont *TokenContract) DecreaseAllowance(cc *types.ContractContext, Spender common.Address, Amount *amount.Amount, Expires *Expiration) error {
	owner := cc.From()
	if Spender == owner {
		return errors.WithStack(ErrSelfAllowance)
	}
	if err := checkAmount(Amount); err != nil {
		return err
	}
	if _, err := updateAllowance(cc, owner, Spender, func(current *Allowance) (*Allowance, error) {
		if current == nil {
			return nil, errors.Wrapf(ErrNoAllowance, "owner %v spender %v", owner.String(), Spender.String())
		}
		if !Amount.Less(current.Amount) {
			return nil, nil
		}
		val := current.Clone()
		rest, err := val.Amount.CheckedSub(Amount)
		if err != nil {
			return nil, errors.Wrap(ErrArithmeticOverflow, err.Error())
		}
		val.Amount = rest
		if Expires != nil {
			if err := validateExpires(cc, Expires); err != nil {
				return nil, err
			}
			val.Expires = *Expires
		}
		return val, nil
	}); err != nil {
		return err
	}
	cc.EmitEvent("decrease_allowance", "owner", owner.String(), "spender", Spender.String(), "amount", Amount.String())
	return nil
}

// deductAllowance spends the amount of the grant of the owner to the spender.
// It must succeed before any balance is touched, and a grant spent to zero stays stored.
func (cont *TokenContract) deductAllowance(cc *types.ContractContext, owner common.Address, spender common.Address, Amount *amount.Amount) (*Allowance, error) {
	block := cc.Block()
	return updateAllowance(cc, owner, spender, func(current *Allowance) (*Allowance, error) {
		if current == nil {
			return nil, errors.Wrapf(ErrNoAllowance, "owner %v spender %v", owner.String(), spender.String())
		}
		if current.Expires.IsExpired(block) {
			return nil, errors.Wrapf(ErrExpired, "%v at %v", current.Expires.String(), block.String())
		}
		rest, err := current.Amount.CheckedSub(Amount)
		if err != nil {
			return nil, errors.Wrapf(ErrArithmeticOverflow, "insufficient allowance: %v", err)
		}
		val := current.Clone()
		val.Amount = rest
		return val, nil
	})
}

// TransferFrom moves the amount from the owner to the recipient on behalf of the caller
func (cont *TokenContract) TransferFrom(cc *types.ContractContext, Owner common.Address, Recipient common.Address, Amount *amount.Amount) error {
	if err := checkAmount(Amount); err != nil {
		return err
	}
	if _, err := cont.deductAllowance(cc, Owner, cc.From(), Amount); err != nil {
		return err
	}
	if err := cont.move(cc, Owner, Recipient, Amount); err != nil {
		return err
	}
	cc.EmitEvent("transfer_from", "from", Owner.String(), "to", Recipient.String(), "by", cc.From().String(), "amount", Amount.String())
	return nil
}

// BurnFrom destroys the amount of the owner on behalf of the caller
func (cont *TokenContract) BurnFrom(cc *types.ContractContext, Owner common.Address, Amount *amount.Amount) error {
	if err := checkAmount(Amount); err != nil {
		return err
	}
	if _, err := cont.deductAllowance(cc, Owner, cc.From(), Amount); err != nil {
		return err
	}
	if err := cont.subBalance(cc, Owner, Amount); err != nil {
		return err
	}
	if err := cont.subTotalSupply(cc, Amount); err != nil {
		return err
	}
	cc.EmitEvent("burn_from", "from", Owner.String(), "by", cc.From().String(), "amount", Amount.String())
	return nil
}

// SendFrom moves the amount of the owner to the contract on behalf of the caller and notifies the contract.
// The notification names the caller as the sender, and its failure fails the whole call.
func (cont *TokenContract) SendFrom(cc *types.ContractContext, Owner common.Address, Contract common.Address, Amount *amount.Amount, Msg []byte) error {
	if err := checkAmount(Amount); err != nil {
		return err
	}
	if _, err := cont.deductAllowance(cc, Owner, cc.From(), Amount); err != nil {
		return err
	}
	if err := cont.move(cc, Owner, Contract, Amount); err != nil {
		return err
	}
	cc.EmitEvent("send_from", "from", Owner.String(), "to", Contract.String(), "by", cc.From().String(), "amount", Amount.String())
	return cont.notify(cc, Contract, cc.From(), Amount, Msg)
}

//////////////////////////////////////////////////
// Allowance Reader Functions
//////////////////////////////////////////////////

// Allowance returns the grant of the owner to the spender or the default
func (cont *TokenContract) Allowance(cc types.ContractLoader, Owner common.Address, Spender common.Address) (*Allowance, error) {
	a, err := readAllowance(cc, Owner, makeAllowanceKey(Spender))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return DefaultAllowance(), nil
	}
	return a, nil
}

// SpenderAllowance reads the same grant through the spender index
func (cont *TokenContract) SpenderAllowance(cc types.ContractLoader, Spender common.Address, Owner common.Address) (*Allowance, error) {
	a, err := readAllowance(cc, Spender, makeAllowanceSpenderKey(Owner))
	if err != nil {
		return nil, err
	}
	if a == nil {
		return DefaultAllowance(), nil
	}
	return a, nil
}

// AllowanceInfo is a grant of the owner listed by spender
type AllowanceInfo struct {
	Spender   common.Address
	Allowance *amount.Amount
	Expires   Expiration
}

// SpenderAllowanceInfo is a grant to the spender listed by owner
type SpenderAllowanceInfo struct {
	Owner     common.Address
	Allowance *amount.Amount
	Expires   Expiration
}

// AllAllowances lists the grants of the owner in spender order after StartAfter
func (cont *TokenContract) AllAllowances(cc types.ContractLoader, Owner common.Address, StartAfter *common.Address, Limit uint32) ([]*AllowanceInfo, error) {
	list := []*AllowanceInfo{}
	err := eachAllowance(cc, Owner, tagAllowance, StartAfter, clampLimit(Limit), func(addr common.Address, a *Allowance) {
		list = append(list, &AllowanceInfo{Spender: addr, Allowance: a.Amount, Expires: a.Expires})
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// AllSpenderAllowances lists the grants to the spender in owner order after StartAfter
func (cont *TokenContract) AllSpenderAllowances(cc types.ContractLoader, Spender common.Address, StartAfter *common.Address, Limit uint32) ([]*SpenderAllowanceInfo, error) {
	list := []*SpenderAllowanceInfo{}
	err := eachAllowance(cc, Spender, tagAllowanceSpender, StartAfter, clampLimit(Limit), func(addr common.Address, a *Allowance) {
		list = append(list, &SpenderAllowanceInfo{Owner: addr, Allowance: a.Amount, Expires: a.Expires})
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func eachAllowance(cc types.ContractLoader, addr common.Address, tag byte, StartAfter *common.Address, limit int, fn func(common.Address, *Allowance)) error {
	keys, err := cc.AccountDataKeys(addr, []byte{tag})
	if err != nil {
		return err
	}
	count := 0
	for _, key := range keys {
		if count >= limit {
			break
		}
		other := addressFromKey(key)
		if StartAfter != nil && bytes.Compare(other[:], StartAfter[:]) <= 0 {
			continue
		}
		a, err := readAllowance(cc, addr, key)
		if err != nil {
			return err
		}
		if a == nil {
			continue
		}
		fn(other, a)
		count++
	}
	return nil
}
