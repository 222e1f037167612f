package types

import "github.com/meverselabs/ledger/common"

// ContractLoader defines functions that loads state data of a contract
type ContractLoader interface {
	Block() BlockContext
	IsContract(addr common.Address) bool
	ContractData(name []byte) []byte
	AccountData(addr common.Address, name []byte) []byte
	AccountDataKeys(addr common.Address, Prefix []byte) ([][]byte, error)
}
