package types

import (
	"bytes"
	"strings"

	"github.com/tidwall/btree"

	"github.com/meverselabs/ledger/common"
)

const btreeDegrees = 64

// dataKey is the map key of a data entry: contract | account | name
func dataKey(cont common.Address, addr common.Address, name []byte) string {
	return string(cont[:]) + string(addr[:]) + string(name)
}

// SplitDataKey splits a map key of ContextData.DataMap into its parts
func SplitDataKey(key string) (common.Address, common.Address, []byte) {
	var cont, addr common.Address
	copy(cont[:], key[:common.AddressLength])
	copy(addr[:], key[common.AddressLength:2*common.AddressLength])
	return cont, addr, []byte(key[2*common.AddressLength:])
}

type nameItem []byte

func (a nameItem) Less(than btree.Item, ctx interface{}) bool {
	return bytes.Compare(a, than.(nameItem)) < 0
}

// DataKeys returns the names under the prefix visible from this layer in ascending order.
// Loader keys are merged with the additions and deletions of every layer down to this one.
func (ctd *ContextData) DataKeys(cont common.Address, addr common.Address, Prefix []byte) ([][]byte, error) {
	tr := btree.New(btreeDegrees, nil)
	if err := ctd.collectDataKeys(tr, cont, addr, Prefix); err != nil {
		return nil, err
	}
	names := make([][]byte, 0, tr.Len())
	tr.Ascend(func(item btree.Item) bool {
		names = append(names, []byte(item.(nameItem)))
		return true
	})
	return names, nil
}

func (ctd *ContextData) collectDataKeys(tr *btree.BTree, cont common.Address, addr common.Address, Prefix []byte) error {
	if ctd.Parent != nil {
		if err := ctd.Parent.collectDataKeys(tr, cont, addr, Prefix); err != nil {
			return err
		}
	} else {
		names, err := ctd.cache.DataKeys(cont, addr, Prefix)
		if err != nil {
			return err
		}
		for _, name := range names {
			tr.ReplaceOrInsert(nameItem(name))
		}
	}
	base := dataKey(cont, addr, Prefix)
	skip := 2 * common.AddressLength
	for key := range ctd.DataMap {
		if strings.HasPrefix(key, base) {
			tr.ReplaceOrInsert(nameItem(key[skip:]))
		}
	}
	for key := range ctd.DeletedDataMap {
		if strings.HasPrefix(key, base) {
			tr.Delete(nameItem(key[skip:]))
		}
	}
	return nil
}
