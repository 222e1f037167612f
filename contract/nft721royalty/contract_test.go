package nft721royalty_test

import (
	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/amount"
	"github.com/meverselabs/ledger/common/bin"
	"github.com/meverselabs/ledger/contract/nft721royalty"
	"github.com/meverselabs/ledger/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var nftClassID = types.MustRegisterContractType(&nft721royalty.NFT721RoyaltyContract{})

var (
	minter    = common.HexToAddress("0x0000000000000000000000000000000000000e01")
	collector = common.HexToAddress("0x0000000000000000000000000000000000000e02")
	buyer     = common.HexToAddress("0x0000000000000000000000000000000000000e03")
	artist    = "0x0000000000000000000000000000000000000e04"
)

func pct(v uint64) *uint64 {
	return &v
}

var _ = Describe("NFT721RoyaltyContract", func() {
	var ctx *types.Context
	var nft common.Address

	exec := func(from common.Address, method string, args ...interface{}) error {
		_, _, err := types.ExecuteContractCall(ctx, from, nft, method, args)
		return err
	}
	query := func(method string, args ...interface{}) (interface{}, error) {
		is, err := types.ExecuteContractQuery(ctx, nft, method, args)
		if err != nil {
			return nil, err
		}
		return is[0], nil
	}

	BeforeEach(func() {
		ctx = types.NewEmptyContext()
		bs, _, err := bin.WriterToBytes(&nft721royalty.NFT721RoyaltyContractConstruction{
			Name:   "Royal Art",
			Symbol: "ROYAL",
			Minter: minter,
		})
		Expect(err).To(Succeed())
		cont, err := ctx.DeployContract(minter, nftClassID, bs)
		Expect(err).To(Succeed())
		nft = cont.Address()
	})

	It("mints by the minter only", func() {
		Expect(exec(collector, "Mint", "t1", collector, "ipfs://t1", nil)).To(MatchError(nft721royalty.ErrUnauthorized))
		Expect(exec(minter, "Mint", "t1", collector, "ipfs://t1", nil)).To(Succeed())
		Expect(exec(minter, "Mint", "t1", buyer, "ipfs://t1", nil)).To(MatchError(nft721royalty.ErrTokenClaimed))
		Expect(exec(minter, "Mint", "", buyer, "ipfs://none", nil)).To(MatchError(nft721royalty.ErrInvalidTokenID))

		owner, err := query("OwnerOf", "t1")
		Expect(err).To(Succeed())
		Expect(owner).To(Equal(collector))
		Expect(query("NumTokens")).To(Equal(uint64(1)))
		Expect(query("Minter")).To(Equal(minter))
		Expect(query("Admin")).To(BeNil())
	})

	It("validates the royalty extension", func() {
		err := exec(minter, "Mint", "t1", collector, "", &nft721royalty.Metadata{RoyaltyPercentage: pct(101), RoyaltyPaymentAddress: artist})
		Expect(err).To(MatchError(nft721royalty.ErrInvalidRoyaltyPercentage))
		err = exec(minter, "Mint", "t1", collector, "", &nft721royalty.Metadata{RoyaltyPercentage: pct(10), RoyaltyPaymentAddress: "artist"})
		Expect(err).To(MatchError(common.ErrInvalidAddress))
		Expect(query("NumTokens")).To(Equal(uint64(0)))
	})

	It("computes the royalty rounded down", func() {
		Expect(exec(minter, "Mint", "t1", collector, "ipfs://t1", &nft721royalty.Metadata{RoyaltyPercentage: pct(10), RoyaltyPaymentAddress: artist})).To(Succeed())

		v, err := query("RoyaltyInfo", "t1", amount.NewAmount(105))
		Expect(err).To(Succeed())
		info := v.(*nft721royalty.RoyaltyInfo)
		Expect(info.Address).To(Equal(artist))
		Expect(info.RoyaltyAmount.String()).To(Equal("10"))

		v, err = query("NftInfo", "t1")
		Expect(err).To(Succeed())
		Expect(v.(*nft721royalty.NftInfo).TokenURI).To(Equal("ipfs://t1"))
		Expect(query("CheckRoyalties")).To(BeTrue())
	})

	It("pays nothing without a royalty", func() {
		Expect(exec(minter, "Mint", "t1", collector, "", nil)).To(Succeed())
		v, err := query("RoyaltyInfo", "t1", amount.NewAmount(1000))
		Expect(err).To(Succeed())
		info := v.(*nft721royalty.RoyaltyInfo)
		Expect(info.Address).To(Equal(""))
		Expect(info.RoyaltyAmount.String()).To(Equal("0"))
	})

	It("reads the extension from its textual form", func() {
		Expect(exec(minter, "Mint", "t1", collector.String(), "", `{"royalty_percentage":25,"royalty_payment_address":"`+artist+`"}`)).To(Succeed())
		v, err := query("RoyaltyInfo", "t1", "400")
		Expect(err).To(Succeed())
		Expect(v.(*nft721royalty.RoyaltyInfo).RoyaltyAmount.String()).To(Equal("100"))
	})

	It("transfers by the owner only", func() {
		Expect(exec(minter, "Mint", "t1", collector, "", nil)).To(Succeed())
		Expect(exec(buyer, "TransferNft", buyer, "t1")).To(MatchError(nft721royalty.ErrUnauthorized))
		Expect(exec(collector, "TransferNft", buyer, "t2")).To(MatchError(nft721royalty.ErrNotExistToken))
		Expect(exec(collector, "TransferNft", buyer, "t1")).To(Succeed())

		Expect(query("OwnerOf", "t1")).To(Equal(buyer))
		Expect(query("Tokens", collector, nil, uint32(0))).To(BeEmpty())
		Expect(query("Tokens", buyer, nil, uint32(0))).To(Equal([]string{"t1"}))
	})

	It("lists and burns the tokens of an owner", func() {
		for _, id := range []string{"c", "a", "b"} {
			Expect(exec(minter, "Mint", id, collector, "", nil)).To(Succeed())
		}
		Expect(query("Tokens", collector, nil, uint32(2))).To(Equal([]string{"a", "b"}))
		after := "b"
		Expect(query("Tokens", collector, &after, uint32(2))).To(Equal([]string{"c"}))

		Expect(exec(minter, "Burn", "a")).To(MatchError(nft721royalty.ErrUnauthorized))
		Expect(exec(collector, "Burn", "a")).To(Succeed())
		Expect(query("NumTokens")).To(Equal(uint64(2)))
		_, err := query("OwnerOf", "a")
		Expect(err).To(MatchError(nft721royalty.ErrNotExistToken))
	})
})
