package nft721royalty

var (
	tagName       = byte(0x01)
	tagSymbol     = byte(0x02)
	tagMinter     = byte(0x03)
	tagAdmin      = byte(0x04)
	tagNumTokens  = byte(0x05)
	tagNFTOwner   = byte(0x10)
	tagTokenURI   = byte(0x11)
	tagExtension  = byte(0x12)
	tagOwnedToken = byte(0x20)
)

// DefaultLimit and MaxLimit bound the token listings
const (
	DefaultLimit = 10
	MaxLimit     = 30
)

func makeNFTKey(key byte, body []byte) []byte {
	bs := make([]byte, 1+len(body))
	bs[0] = key
	copy(bs[1:], body[:])
	return bs
}

func makeNFTOwnerKey(tokenID string) []byte {
	return makeNFTKey(tagNFTOwner, []byte(tokenID))
}

func makeTokenURIKey(tokenID string) []byte {
	return makeNFTKey(tagTokenURI, []byte(tokenID))
}

func makeExtensionKey(tokenID string) []byte {
	return makeNFTKey(tagExtension, []byte(tokenID))
}

// makeOwnedTokenKey is stored under the owner account
func makeOwnedTokenKey(tokenID string) []byte {
	return makeNFTKey(tagOwnedToken, []byte(tokenID))
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
