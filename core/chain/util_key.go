package chain

import (
	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/core/types"
)

var (
	tagVersion  = []byte{1, 0}
	tagBlock    = []byte{1, 1}
	tagSeq      = []byte{1, 2}
	tagContract = []byte{2, 0}
	tagData     = []byte{3, 0}
)

func toContractKey(addr common.Address) []byte {
	bs := make([]byte, 2+common.AddressLength)
	copy(bs, tagContract)
	copy(bs[2:], addr[:])
	return bs
}

// toDataKey prefixes the runtime data key (contract | account | name)
func toDataKey(key string) []byte {
	cont, addr, name := types.SplitDataKey(key)
	return toDataPrefix(cont, addr, name)
}

func toDataPrefix(cont common.Address, addr common.Address, Prefix []byte) []byte {
	bs := make([]byte, 2+2*common.AddressLength+len(Prefix))
	copy(bs, tagData)
	copy(bs[2:], cont[:])
	copy(bs[2+common.AddressLength:], addr[:])
	copy(bs[2+2*common.AddressLength:], Prefix)
	return bs
}

func fromDataKeyName(key []byte) []byte {
	name := make([]byte, len(key)-2-2*common.AddressLength)
	copy(name, key[2+2*common.AddressLength:])
	return name
}
