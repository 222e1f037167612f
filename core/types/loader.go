package types

import (
	"github.com/meverselabs/ledger/common"
)

// Loader defines functions that loads state data from the target store
type Loader interface {
	Version() uint16
	Block() BlockContext
	Seq() uint64
	IsContract(addr common.Address) bool
	Contract(addr common.Address) (Contract, error)
	Data(cont common.Address, addr common.Address, name []byte) []byte
	DataKeys(cont common.Address, addr common.Address, Prefix []byte) ([][]byte, error)
}

type emptyLoader struct {
}

// newEmptyLoader is used for generating genesis state
func newEmptyLoader() Loader {
	return &emptyLoader{}
}

// Version returns 0
func (st *emptyLoader) Version() uint16 {
	return 0
}

// Block returns the zero block
func (st *emptyLoader) Block() BlockContext {
	return BlockContext{}
}

// Seq returns 0
func (st *emptyLoader) Seq() uint64 {
	return 0
}

// IsContract returns false
func (st *emptyLoader) IsContract(addr common.Address) bool {
	return false
}

// Contract returns ErrNotExistContract
func (st *emptyLoader) Contract(addr common.Address) (Contract, error) {
	return nil, ErrNotExistContract
}

// Data returns nil
func (st *emptyLoader) Data(cont common.Address, addr common.Address, name []byte) []byte {
	return nil
}

// DataKeys returns nil
func (st *emptyLoader) DataKeys(cont common.Address, addr common.Address, Prefix []byte) ([][]byte, error) {
	return nil, nil
}
