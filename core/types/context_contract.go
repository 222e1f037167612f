package types

import (
	"github.com/meverselabs/ledger/common"
)

// ContractContext is an context for the contract
type ContractContext struct {
	cont common.Address
	from common.Address
	ctx  *Context
	Exec ExecFunc
}

// Version returns the version of the state
func (cc *ContractContext) Version() uint16 {
	return cc.ctx.Version()
}

// Block returns the block context of the current invocation
func (cc *ContractContext) Block() BlockContext {
	return cc.ctx.Block()
}

// Address returns the address of the running contract
func (cc *ContractContext) Address() common.Address {
	return cc.cont
}

// From returns current caller address
func (cc *ContractContext) From() common.Address {
	return cc.from
}

// IsContract returns is the contract
func (cc *ContractContext) IsContract(addr common.Address) bool {
	return cc.ctx.Top().IsContract(addr)
}

// ContractData returns the contract data from the top snapshot
func (cc *ContractContext) ContractData(name []byte) []byte {
	return cc.ctx.Top().Data(cc.cont, common.Address{}, name)
}

// SetContractData inserts the contract data to the top snapshot
func (cc *ContractContext) SetContractData(name []byte, value []byte) {
	cc.ctx.Top().SetData(cc.cont, common.Address{}, name, value)
}

// AccountData returns the account data from the top snapshot
func (cc *ContractContext) AccountData(addr common.Address, name []byte) []byte {
	return cc.ctx.Top().Data(cc.cont, addr, name)
}

// SetAccountData inserts the account data to the top snapshot
func (cc *ContractContext) SetAccountData(addr common.Address, name []byte, value []byte) {
	cc.ctx.Top().SetData(cc.cont, addr, name, value)
}

// AccountDataKeys returns the names of the account data under the prefix in ascending order
func (cc *ContractContext) AccountDataKeys(addr common.Address, Prefix []byte) ([][]byte, error) {
	return cc.ctx.Top().DataKeys(cc.cont, addr, Prefix)
}

// EmitEvent records the event of the running contract to the top snapshot
func (cc *ContractContext) EmitEvent(Type string, kvs ...string) {
	cc.ctx.Top().EmitEvent(NewEvent(cc.cont, Type, kvs...))
}
