package types

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/hash"
)

// ContextData is a state layer of the context
type ContextData struct {
	cache             *contextCache
	Parent            *ContextData
	ContractDefineMap map[common.Address]*ContractDefine
	DataMap           map[string][]byte
	DeletedDataMap    map[string]bool
	Events            []*Event
	isTop             bool
}

// NewContextData returns a ContextData
func NewContextData(cache *contextCache, Parent *ContextData) *ContextData {
	ctd := &ContextData{
		cache:             cache,
		Parent:            Parent,
		ContractDefineMap: map[common.Address]*ContractDefine{},
		DataMap:           map[string][]byte{},
		DeletedDataMap:    map[string]bool{},
		isTop:             true,
	}
	return ctd
}

// IsContract returns is the contract
func (ctd *ContextData) IsContract(addr common.Address) bool {
	if _, has := ctd.ContractDefineMap[addr]; has {
		return true
	} else if ctd.Parent != nil {
		return ctd.Parent.IsContract(addr)
	} else {
		return ctd.cache.IsContract(addr)
	}
}

// Contract returns the contract
func (ctd *ContextData) Contract(addr common.Address) (Contract, error) {
	if cd, has := ctd.ContractDefineMap[addr]; has {
		return CreateContract(cd)
	} else if ctd.Parent != nil {
		return ctd.Parent.Contract(addr)
	} else {
		return ctd.cache.Contract(addr)
	}
}

// defineContract registers the contract define to the layer
func (ctd *ContextData) defineContract(cd *ContractDefine) error {
	if ctd.IsContract(cd.Address) {
		return errors.Wrapf(ErrExistContract, "%v", cd.Address.String())
	}
	ctd.ContractDefineMap[cd.Address] = cd
	return nil
}

// Data returns the data
func (ctd *ContextData) Data(cont common.Address, addr common.Address, name []byte) []byte {
	key := dataKey(cont, addr, name)
	if _, has := ctd.DeletedDataMap[key]; has {
		return nil
	}
	if value, has := ctd.DataMap[key]; has {
		return value
	}
	var value []byte
	if ctd.Parent != nil {
		value = ctd.Parent.Data(cont, addr, name)
	} else {
		value = ctd.cache.Data(cont, addr, name)
	}
	if len(value) == 0 {
		return nil
	}
	if ctd.isTop {
		nvalue := make([]byte, len(value))
		copy(nvalue, value)
		return nvalue
	}
	return value
}

// SetData inserts the data, an empty value deletes it
func (ctd *ContextData) SetData(cont common.Address, addr common.Address, name []byte, value []byte) {
	key := dataKey(cont, addr, name)
	if len(value) == 0 {
		delete(ctd.DataMap, key)
		ctd.DeletedDataMap[key] = true
	} else {
		delete(ctd.DeletedDataMap, key)
		nvalue := make([]byte, len(value))
		copy(nvalue, value)
		ctd.DataMap[key] = nvalue
	}
}

// EmitEvent appends the event to the layer
func (ctd *ContextData) EmitEvent(e *Event) {
	ctd.Events = append(ctd.Events, e)
}

// Hash returns the hash value of the layer
func (ctd *ContextData) Hash() hash.Hash256 {
	var buffer bytes.Buffer
	buffer.WriteString("ContractDefineMap")
	EachAllAddressContractDefine(ctd.ContractDefineMap, func(key common.Address, cd *ContractDefine) error {
		buffer.Write(key[:])
		buffer.Write(cd.Owner[:])
		return nil
	})
	buffer.WriteString("DataMap")
	EachAllStringBytes(ctd.DataMap, func(key string, value []byte) error {
		buffer.WriteString(key)
		buffer.Write(value)
		return nil
	})
	buffer.WriteString("DeletedDataMap")
	EachAllStringBool(ctd.DeletedDataMap, func(key string, value bool) error {
		buffer.WriteString(key)
		return nil
	})
	return hash.Hash(buffer.Bytes())
}

// EachAllAddressContractDefine iterates the map in address order
func EachAllAddressContractDefine(mp map[common.Address]*ContractDefine, fn func(key common.Address, cd *ContractDefine) error) error {
	keys := make([]common.Address, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i][:], keys[j][:]) < 0 })
	for _, k := range keys {
		if err := fn(k, mp[k]); err != nil {
			return err
		}
	}
	return nil
}

// EachAllStringBytes iterates the map in key order
func EachAllStringBytes(mp map[string][]byte, fn func(key string, value []byte) error) error {
	keys := make([]string, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn(k, mp[k]); err != nil {
			return err
		}
	}
	return nil
}

// EachAllStringBool iterates the map in key order
func EachAllStringBool(mp map[string]bool, fn func(key string, value bool) error) error {
	keys := make([]string, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn(k, mp[k]); err != nil {
			return err
		}
	}
	return nil
}
