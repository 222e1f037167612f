package chain

import (
	"bytes"
	"sync"

	"github.com/bluele/gcache"
	"github.com/pkg/errors"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/bin"
	"github.com/meverselabs/ledger/core/backend"
	"github.com/meverselabs/ledger/core/types"
)

// DefaultCacheSize is the number of entries kept by each store cache
const DefaultCacheSize = 4096

// Store saves the committed contract state.
// All updates of a block are executed in one backend transaction.
type Store struct {
	sync.Mutex
	db        backend.StoreBackend
	version   uint16
	block     types.BlockContext
	seq       uint64
	dataCache gcache.Cache
	contCache gcache.Cache
	closeLock sync.RWMutex
	isClose   bool
}

// OpenStore opens the backend of the driver at the path and returns a Store on it
func OpenStore(Driver string, Path string, Version uint16, CacheSize int) (*Store, error) {
	db, err := backend.Create(Driver, Path)
	if err != nil {
		return nil, err
	}
	st, err := NewStore(db, Version, CacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// NewStore returns a Store that reads the last committed block of the backend
func NewStore(db backend.StoreBackend, Version uint16, CacheSize int) (*Store, error) {
	if CacheSize <= 0 {
		CacheSize = DefaultCacheSize
	}
	st := &Store{
		db:        db,
		version:   Version,
		dataCache: gcache.New(CacheSize).LRU().Build(),
		contCache: gcache.New(CacheSize).LRU().Build(),
	}
	if err := db.View(func(txn backend.StoreReader) error {
		if bs, err := txn.Get(tagVersion); err == nil {
			if v := bin.Uint16(bs); v != Version {
				return errors.Wrapf(ErrInvalidVersion, "stored %v given %v", v, Version)
			}
		} else if !errors.Is(err, backend.ErrNotExistKey) {
			return err
		}
		if bs, err := txn.Get(tagBlock); err == nil {
			st.block.Height = bin.Uint64(bs[:8])
			st.block.Time = bin.Uint64(bs[8:])
		} else if !errors.Is(err, backend.ErrNotExistKey) {
			return err
		}
		if bs, err := txn.Get(tagSeq); err == nil {
			st.seq = bin.Uint64(bs)
		} else if !errors.Is(err, backend.ErrNotExistKey) {
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return st, nil
}

// Close terminate and clean store
func (st *Store) Close() {
	st.closeLock.Lock()
	defer st.closeLock.Unlock()

	if st.isClose {
		return
	}
	st.isClose = true
	st.db.Shrink()
	st.db.Close()
	st.dataCache.Purge()
	st.contCache.Purge()
}

// Version returns the state version
func (st *Store) Version() uint16 {
	return st.version
}

// Block returns the last committed block context
func (st *Store) Block() types.BlockContext {
	st.Lock()
	defer st.Unlock()
	return st.block
}

// Seq returns the committed deploy sequence
func (st *Store) Seq() uint64 {
	st.Lock()
	defer st.Unlock()
	return st.seq
}

// IsContract returns is the contract
func (st *Store) IsContract(addr common.Address) bool {
	cd, err := st.contractDefine(addr)
	return err == nil && cd != nil
}

// Contract returns the contract form the store
func (st *Store) Contract(addr common.Address) (types.Contract, error) {
	cd, err := st.contractDefine(addr)
	if err != nil {
		return nil, err
	}
	if cd == nil {
		return nil, errors.Wrapf(types.ErrNotExistContract, "%v", addr.String())
	}
	return types.CreateContract(cd)
}

func (st *Store) contractDefine(addr common.Address) (*types.ContractDefine, error) {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return nil, errors.WithStack(ErrStoreClosed)
	}

	if v, err := st.contCache.Get(addr); err == nil {
		return v.(*types.ContractDefine), nil
	}
	var cd *types.ContractDefine
	if err := st.db.View(func(txn backend.StoreReader) error {
		value, err := txn.Get(toContractKey(addr))
		if err != nil {
			if errors.Is(err, backend.ErrNotExistKey) {
				return nil
			}
			return err
		}
		cd = &types.ContractDefine{}
		_, err = cd.ReadFrom(bytes.NewReader(value))
		return err
	}); err != nil {
		return nil, err
	}
	if cd != nil {
		st.contCache.Set(addr, cd)
	}
	return cd, nil
}

// Contracts returns every deployed contract in address order
func (st *Store) Contracts() ([]*types.ContractDefine, error) {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return nil, errors.WithStack(ErrStoreClosed)
	}

	cds := []*types.ContractDefine{}
	if err := st.db.View(func(txn backend.StoreReader) error {
		return txn.Iterate(tagContract, func(key []byte, value []byte) error {
			cd := &types.ContractDefine{}
			if _, err := cd.ReadFrom(bytes.NewReader(value)); err != nil {
				return err
			}
			cds = append(cds, cd)
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return cds, nil
}

// Data returns the account data from the store
func (st *Store) Data(cont common.Address, addr common.Address, name []byte) []byte {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return nil
	}

	key := string(cont[:]) + string(addr[:]) + string(name)
	if v, err := st.dataCache.Get(key); err == nil {
		return v.([]byte)
	}
	var data []byte
	if err := st.db.View(func(txn backend.StoreReader) error {
		value, err := txn.Get(toDataKey(key))
		if err != nil {
			return err
		}
		data = make([]byte, len(value))
		copy(data, value)
		return nil
	}); err != nil {
		if !errors.Is(err, backend.ErrNotExistKey) {
			return nil
		}
	}
	st.dataCache.Set(key, data)
	return data
}

// DataKeys returns the names of the stored data under the prefix in ascending order
func (st *Store) DataKeys(cont common.Address, addr common.Address, Prefix []byte) ([][]byte, error) {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return nil, errors.WithStack(ErrStoreClosed)
	}

	names := [][]byte{}
	if err := st.db.View(func(txn backend.StoreReader) error {
		return txn.Iterate(toDataPrefix(cont, addr, Prefix), func(key []byte, value []byte) error {
			names = append(names, fromDataKeyName(key))
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return names, nil
}

// StoreContext persists the context of the next block.
// The context must have no open snapshot.
func (st *Store) StoreContext(ctx *types.Context) error {
	st.closeLock.RLock()
	defer st.closeLock.RUnlock()
	if st.isClose {
		return errors.WithStack(ErrStoreClosed)
	}

	st.Lock()
	defer st.Unlock()

	if ctx.StackSize() > 1 {
		return errors.WithStack(ErrDirtyContext)
	}
	b := ctx.Block()
	if b.Height <= st.block.Height {
		return errors.Wrapf(ErrInvalidHeight, "block %v after %v", b.Height, st.block.Height)
	}
	if b.Time < st.block.Time {
		return errors.Wrapf(ErrInvalidTimestamp, "time %v before %v", b.Time, st.block.Time)
	}
	ctd := ctx.Top()

	if err := st.db.Update(func(txn backend.StoreWriter) error {
		if err := txn.Set(tagVersion, bin.Uint16Bytes(st.version)); err != nil {
			return err
		}
		bs := make([]byte, 16)
		bin.PutUint64(bs, b.Height)
		bin.PutUint64(bs[8:], b.Time)
		if err := txn.Set(tagBlock, bs); err != nil {
			return err
		}
		if err := txn.Set(tagSeq, bin.Uint64Bytes(ctx.Seq())); err != nil {
			return err
		}
		return applyContextData(txn, ctd)
	}); err != nil {
		return err
	}

	types.EachAllAddressContractDefine(ctd.ContractDefineMap, func(key common.Address, cd *types.ContractDefine) error {
		st.contCache.Set(key, cd.Clone())
		return nil
	})
	types.EachAllStringBytes(ctd.DataMap, func(key string, value []byte) error {
		data := make([]byte, len(value))
		copy(data, value)
		st.dataCache.Set(key, data)
		return nil
	})
	types.EachAllStringBool(ctd.DeletedDataMap, func(key string, value bool) error {
		st.dataCache.Remove(key)
		return nil
	})
	st.block = b
	st.seq = ctx.Seq()
	return nil
}

func applyContextData(txn backend.StoreWriter, ctd *types.ContextData) error {
	if err := types.EachAllAddressContractDefine(ctd.ContractDefineMap, func(key common.Address, cd *types.ContractDefine) error {
		bs, _, err := bin.WriterToBytes(cd)
		if err != nil {
			return err
		}
		return txn.Set(toContractKey(key), bs)
	}); err != nil {
		return err
	}
	if err := types.EachAllStringBytes(ctd.DataMap, func(key string, value []byte) error {
		return txn.Set(toDataKey(key), value)
	}); err != nil {
		return err
	}
	if err := types.EachAllStringBool(ctd.DeletedDataMap, func(key string, value bool) error {
		return txn.Delete(toDataKey(key))
	}); err != nil {
		return err
	}
	return nil
}
