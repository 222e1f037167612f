package backend

import (
	"sort"

	"github.com/pkg/errors"
)

// StoreBackend is the ordered key value store the chain state is persisted to
type StoreBackend interface {
	Shrink()
	Close()
	View(fn func(txn StoreReader) error) error
	Update(fn func(txn StoreWriter) error) error
}

// StoreReader reads a consistent view of the store
type StoreReader interface {
	Get(key []byte) ([]byte, error)
	Iterate(prefix []byte, fn func(key []byte, value []byte) error) error
}

// StoreWriter writes to the store, every write of an Update commits together
type StoreWriter interface {
	StoreReader
	Set(key []byte, value []byte) error
	Delete(key []byte) error
}

type CreateBackend func(Path string) (StoreBackend, error)

var gDriverMap = map[string]CreateBackend{}

// RegisterDriver must be called only at initialization time
func RegisterDriver(Name string, fn CreateBackend) {
	gDriverMap[Name] = fn
}

// Create opens the store at the path with the driver of the name
func Create(Name string, Path string) (StoreBackend, error) {
	fn, has := gDriverMap[Name]
	if !has {
		return nil, errors.Wrapf(ErrNotExistDriver, "%q", Name)
	}
	return fn(Path)
}

// Drivers returns the names of the registered drivers
func Drivers() []string {
	names := make([]string, 0, len(gDriverMap))
	for name := range gDriverMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrefixEnd returns the smallest key greater than every key with the prefix.
// A nil result means the prefix has no upper bound.
func PrefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
