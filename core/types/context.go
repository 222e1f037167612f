package types

import (
	"github.com/pkg/errors"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/hash"
)

// Context is an intermediate in-memory state using the context data stack between blocks
type Context struct {
	loader  Loader
	version uint16
	block   BlockContext
	seq     uint64
	cache   *contextCache
	stack   []*ContextData
}

// NewContext returns a Context that reads the state of the loader at its current block
func NewContext(loader Loader) *Context {
	ctx := &Context{
		loader:  loader,
		version: loader.Version(),
		block:   loader.Block(),
		seq:     loader.Seq(),
	}
	ctx.cache = newContextCache(ctx)
	ctx.stack = []*ContextData{NewContextData(ctx.cache, nil)}
	return ctx
}

// NewEmptyContext returns a EmptyContext
func NewEmptyContext() *Context {
	return NewContext(newEmptyLoader())
}

// NextContext returns the Context of the next block on top of this Context
func (ctx *Context) NextContext(Timestamp uint64) *Context {
	nctx := NewContext(ctx)
	nctx.block = ctx.block.Next(Timestamp)
	return nctx
}

// Version returns the version of the state
func (ctx *Context) Version() uint16 {
	return ctx.version
}

// Block returns the block context of the Context
func (ctx *Context) Block() BlockContext {
	return ctx.block
}

// SetBlock overrides the block context, used by genesis and scripted replays
func (ctx *Context) SetBlock(b BlockContext) {
	ctx.block = b
}

// Seq returns the deploy sequence
func (ctx *Context) Seq() uint64 {
	return ctx.seq
}

// Hash returns the hash value of the top snapshot
func (ctx *Context) Hash() hash.Hash256 {
	return ctx.Top().Hash()
}

// Top returns the top snapshot
func (ctx *Context) Top() *ContextData {
	return ctx.stack[len(ctx.stack)-1]
}

// IsContract returns is the contract
func (ctx *Context) IsContract(addr common.Address) bool {
	return ctx.Top().IsContract(addr)
}

// Contract returns the contract of the address
func (ctx *Context) Contract(addr common.Address) (Contract, error) {
	return ctx.Top().Contract(addr)
}

// Data returns the data from the top snapshot
func (ctx *Context) Data(cont common.Address, addr common.Address, name []byte) []byte {
	return ctx.Top().Data(cont, addr, name)
}

// DataKeys returns the data names under the prefix from the top snapshot
func (ctx *Context) DataKeys(cont common.Address, addr common.Address, Prefix []byte) ([][]byte, error) {
	return ctx.Top().DataKeys(cont, addr, Prefix)
}

// Events returns the events of the top snapshot
func (ctx *Context) Events() []*Event {
	return ctx.Top().Events
}

// ContractContext returns a ContractContext of the contract called by the from address
func (ctx *Context) ContractContext(cont Contract, from common.Address) *ContractContext {
	cc := &ContractContext{
		cont: cont.Address(),
		from: from,
		ctx:  ctx,
	}
	return cc
}

// DeployContract deploys the contract and calls OnCreate with the args.
// A failing OnCreate leaves no trace of the contract.
func (ctx *Context) DeployContract(owner common.Address, ClassID uint64, Args []byte) (Contract, error) {
	if !IsValidClassID(ClassID) {
		return nil, errors.Wrapf(ErrInvalidClassID, "%v", ClassID)
	}
	ctx.seq++
	return ctx.DeployContractWithAddress(owner, ClassID, ContractAddress(owner, ClassID, ctx.seq), Args)
}

// DeployContractWithAddress deploys the contract to the given address
func (ctx *Context) DeployContractWithAddress(owner common.Address, ClassID uint64, addr common.Address, Args []byte) (Contract, error) {
	cd := &ContractDefine{
		Address: addr,
		Owner:   owner,
		ClassID: ClassID,
	}
	cont, err := CreateContract(cd)
	if err != nil {
		return nil, err
	}

	sn := ctx.Snapshot()
	if err := ctx.Top().defineContract(cd); err != nil {
		ctx.Revert(sn)
		return nil, err
	}
	cc := ctx.ContractContext(cont, owner)
	intr := NewInteractor(ctx, cont, cc)
	cc.Exec = intr.Exec
	if err := cont.OnCreate(cc, Args); err != nil {
		ctx.Revert(sn)
		return nil, err
	}
	ctx.Commit(sn)
	return cont, nil
}

// Snapshot push a snapshot and returns the snapshot number of it
func (ctx *Context) Snapshot() int {
	ctd := NewContextData(ctx.cache, ctx.Top())
	ctx.stack[len(ctx.stack)-1].isTop = false
	ctx.stack = append(ctx.stack, ctd)
	return len(ctx.stack)
}

// Revert removes snapshots after the snapshot number
func (ctx *Context) Revert(sn int) {
	if sn < 2 {
		sn = 2
	}
	if len(ctx.stack) >= sn {
		ctx.stack = ctx.stack[:sn-1]
	}
	ctx.stack[len(ctx.stack)-1].isTop = true
}

// Commit apply snapshots to the top after the snapshot number
func (ctx *Context) Commit(sn int) {
	if sn < 2 {
		sn = 2
	}
	for len(ctx.stack) >= sn {
		ctd := ctx.Top()
		ctx.stack = ctx.stack[:len(ctx.stack)-1]
		top := ctx.Top()
		for addr, cd := range ctd.ContractDefineMap {
			top.ContractDefineMap[addr] = cd
		}
		for key, value := range ctd.DataMap {
			delete(top.DeletedDataMap, key)
			top.DataMap[key] = value
		}
		for key := range ctd.DeletedDataMap {
			delete(top.DataMap, key)
			top.DeletedDataMap[key] = true
		}
		top.Events = append(top.Events, ctd.Events...)
	}
	ctx.Top().isTop = true
}

// StackSize returns the size of the context data stack
func (ctx *Context) StackSize() int {
	return len(ctx.stack)
}
