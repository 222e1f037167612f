package chain

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/rlog"
	"github.com/meverselabs/ledger/core/types"
)

// Chain executes invocations block by block on top of the store
type Chain struct {
	sync.Mutex
	store     *Store
	log       *zap.SugaredLogger
	closeLock sync.RWMutex
	isClose   bool
}

// NewChain returns a Chain
func NewChain(store *Store) *Chain {
	cn := &Chain{
		store: store,
		log:   rlog.Named("chain"),
	}
	return cn
}

// Close terminates the chain and its store
func (cn *Chain) Close() {
	cn.closeLock.Lock()
	defer cn.closeLock.Unlock()

	cn.isClose = true
	cn.store.Close()
}

// Store returns the store of the chain
func (cn *Chain) Store() *Store {
	return cn.store
}

// NewContext returns the context of the block following the last committed one
func (cn *Chain) NewContext(Timestamp uint64) *types.Context {
	ctx := types.NewContext(cn.store)
	ctx.SetBlock(cn.store.Block().Next(Timestamp))
	return ctx
}

// NewContextAt returns the context of the given block.
// The block must be after the last committed one.
func (cn *Chain) NewContextAt(b types.BlockContext) (*types.Context, error) {
	last := cn.store.Block()
	if b.Height <= last.Height {
		return nil, errors.Wrapf(ErrInvalidHeight, "block %v after %v", b.Height, last.Height)
	}
	if b.Time < last.Time {
		return nil, errors.Wrapf(ErrInvalidTimestamp, "time %v before %v", b.Time, last.Time)
	}
	ctx := types.NewContext(cn.store)
	ctx.SetBlock(b)
	return ctx, nil
}

// Deploy deploys a contract of the class to the context
func (cn *Chain) Deploy(ctx *types.Context, owner common.Address, ClassID uint64, Args []byte) (common.Address, error) {
	cont, err := ctx.DeployContract(owner, ClassID, Args)
	if err != nil {
		cn.log.Debugw("deploy failed", "owner", owner.String(), "class", types.ContractName(ClassID), "error", err)
		return common.Address{}, err
	}
	cn.log.Infow("contract deployed", "address", cont.Address().String(), "class", types.ContractName(ClassID), "block", ctx.Block().Height)
	return cont.Address(), nil
}

// Execute invokes the method of the contract by the from address on the context
func (cn *Chain) Execute(ctx *types.Context, from common.Address, to common.Address, Method string, Args []interface{}) ([]interface{}, []*types.Event, error) {
	cn.closeLock.RLock()
	defer cn.closeLock.RUnlock()
	if cn.isClose {
		return nil, nil, errors.WithStack(ErrChainClosed)
	}

	result, events, err := types.ExecuteContractCall(ctx, from, to, Method, Args)
	if err != nil {
		cn.log.Debugw("execution failed", "from", from.String(), "to", to.String(), "method", Method, "error", err)
		return nil, nil, err
	}
	cn.log.Debugw("executed", "from", from.String(), "to", to.String(), "method", Method, "events", len(events))
	return result, events, nil
}

// Query runs a read only method of the contract against the committed state
func (cn *Chain) Query(to common.Address, Method string, Args []interface{}) ([]interface{}, error) {
	cn.closeLock.RLock()
	defer cn.closeLock.RUnlock()
	if cn.isClose {
		return nil, errors.WithStack(ErrChainClosed)
	}

	ctx := types.NewContext(cn.store)
	return types.ExecuteContractQuery(ctx, to, Method, Args)
}

// CommitBlock persists the context as the next block
func (cn *Chain) CommitBlock(ctx *types.Context) error {
	cn.closeLock.RLock()
	defer cn.closeLock.RUnlock()
	if cn.isClose {
		return errors.WithStack(ErrChainClosed)
	}

	cn.Lock()
	defer cn.Unlock()

	if err := cn.store.StoreContext(ctx); err != nil {
		return err
	}
	cn.log.Infow("block committed", "height", ctx.Block().Height, "time", ctx.Block().Time, "hash", ctx.Hash().String())
	return nil
}
