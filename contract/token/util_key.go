package token

import (
	"github.com/meverselabs/ledger/common"
)

var (
	tagTokenName        = byte(0x01)
	tagTokenSymbol      = byte(0x02)
	tagTokenDecimals    = byte(0x03)
	tagTokenTotalSupply = byte(0x04)
	tagTokenMinter      = byte(0x05)
	tagTokenCap         = byte(0x06)
	tagTokenAmount      = byte(0x10)
	tagAllowance        = byte(0x12)
	tagAllowanceSpender = byte(0x13)
)

// DefaultLimit and MaxLimit bound the allowance listings
const (
	DefaultLimit = 10
	MaxLimit     = 30
)

func makeTokenKey(addr common.Address, key byte) []byte {
	bs := make([]byte, 1+common.AddressLength)
	bs[0] = key
	copy(bs[1:], addr[:])
	return bs
}

// makeAllowanceKey is stored under the owner account and keyed by the spender
func makeAllowanceKey(spender common.Address) []byte {
	return makeTokenKey(spender, tagAllowance)
}

// makeAllowanceSpenderKey is stored under the spender account and keyed by the owner
func makeAllowanceSpenderKey(owner common.Address) []byte {
	return makeTokenKey(owner, tagAllowanceSpender)
}

func addressFromKey(key []byte) common.Address {
	return common.BytesToAddress(key[1:])
}

func clampLimit(Limit uint32) int {
	if Limit == 0 {
		return DefaultLimit
	}
	if Limit > MaxLimit {
		return MaxLimit
	}
	return int(Limit)
}
