package token_test

import (
	"bytes"
	"io"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/amount"
	"github.com/meverselabs/ledger/common/bin"
	"github.com/meverselabs/ledger/contract/receiver"
	"github.com/meverselabs/ledger/contract/token"
	"github.com/meverselabs/ledger/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TokenContract", func() {
	var ctx *types.Context

	BeforeEach(func() {
		ctx = newContext()
	})

	Describe("construction", func() {
		It("stores the token info and the initial balances", func() {
			tok := mustDeployToken(ctx, balance(owner, 1000), balance(owner2, 24))

			info := query(ctx, tok, "TokenInfo").(*token.TokenInfo)
			Expect(info.Name).To(Equal("Auto Gen"))
			Expect(info.Symbol).To(Equal("AUTO"))
			Expect(info.Decimals).To(Equal(uint8(3)))
			Expect(info.TotalSupply.String()).To(Equal("1024"))
			Expect(balanceOf(ctx, tok, owner)).To(Equal("1000"))
			Expect(balanceOf(ctx, tok, owner2)).To(Equal("24"))
		})

		DescribeTable("rejects invalid data",
			func(modify func(*token.TokenContractConstruction), expected error) {
				data := construction(balance(owner, 10))
				modify(data)
				_, err := deployToken(ctx, data)
				Expect(err).To(MatchError(expected))
			},
			Entry("short name", func(d *token.TokenContractConstruction) { d.Name = "ab" }, token.ErrInvalidConstruction),
			Entry("short symbol", func(d *token.TokenContractConstruction) { d.Symbol = "AB" }, token.ErrInvalidConstruction),
			Entry("symbol with digits", func(d *token.TokenContractConstruction) { d.Symbol = "AB1" }, token.ErrInvalidConstruction),
			Entry("too many decimals", func(d *token.TokenContractConstruction) { d.Decimals = 19 }, token.ErrInvalidConstruction),
			Entry("duplicated balance", func(d *token.TokenContractConstruction) {
				d.InitialBalances = append(d.InitialBalances, balance(owner, 5))
			}, token.ErrDuplicateInitialBalance),
			Entry("supply over cap", func(d *token.TokenContractConstruction) {
				d.Mint.Cap = amount.NewAmount(9)
			}, token.ErrCannotExceedCap),
		)

		It("leaves no contract behind when it fails", func() {
			data := construction(balance(owner, 10))
			data.Symbol = "!!!"
			_, err := deployToken(ctx, data)
			Expect(err).To(HaveOccurred())
			Expect(ctx.Top().ContractDefineMap).To(BeEmpty())
		})

		It("rejects a balance count beyond the data", func() {
			var buf bytes.Buffer
			_, err := bin.WriteString(&buf, "Auto Gen")
			Expect(err).To(Succeed())
			_, err = bin.WriteString(&buf, "AUTO")
			Expect(err).To(Succeed())
			_, err = bin.WriteUint8(&buf, 3)
			Expect(err).To(Succeed())
			_, err = bin.WriteUint32(&buf, 0xFFFFFFFF)
			Expect(err).To(Succeed())

			_, err = ctx.DeployContract(admin, tokenClassID, buf.Bytes())
			Expect(err).To(MatchError(io.EOF))
			Expect(ctx.Top().ContractDefineMap).To(BeEmpty())
		})
	})

	Describe("base operations", func() {
		var tok common.Address

		BeforeEach(func() {
			tok = mustDeployToken(ctx, balance(owner, 1000))
		})

		It("transfers", func() {
			_, err := exec(ctx, owner, tok, "Transfer", rcpt, amount.NewAmount(300))
			Expect(err).To(Succeed())
			Expect(balanceOf(ctx, tok, owner)).To(Equal("700"))
			Expect(balanceOf(ctx, tok, rcpt)).To(Equal("300"))
		})

		It("fails to transfer more than the balance", func() {
			_, err := exec(ctx, owner, tok, "Transfer", rcpt, amount.NewAmount(1001))
			Expect(err).To(MatchError(token.ErrInsufficientFunds))
			Expect(balanceOf(ctx, tok, owner)).To(Equal("1000"))
		})

		It("rejects a zero amount", func() {
			_, err := exec(ctx, owner, tok, "Transfer", rcpt, amount.Zero())
			Expect(err).To(MatchError(token.ErrInvalidZeroAmount))
			_, err = exec(ctx, owner, tok, "Burn", amount.Zero())
			Expect(err).To(MatchError(token.ErrInvalidZeroAmount))
		})

		It("burns", func() {
			_, err := exec(ctx, owner, tok, "Burn", amount.NewAmount(1000))
			Expect(err).To(Succeed())
			Expect(balanceOf(ctx, tok, owner)).To(Equal("0"))
			Expect(totalSupply(ctx, tok)).To(Equal("0"))
		})

		It("sends to a contract and notifies it", func() {
			recv := mustDeployReceiver(ctx, tok)
			_, err := exec(ctx, owner, tok, "Send", recv, amount.NewAmount(40), []byte(`{"memo":"direct"}`))
			Expect(err).To(Succeed())
			Expect(balanceOf(ctx, tok, recv)).To(Equal("40"))
			Expect(query(ctx, recv, "LastSender")).To(Equal(owner))
			Expect(query(ctx, recv, "LastMemo")).To(Equal("direct"))

			_, err = exec(ctx, owner, tok, "Send", recv, amount.NewAmount(40), []byte(`not json`))
			Expect(err).To(MatchError(receiver.ErrInvalidPayload))
			Expect(balanceOf(ctx, tok, recv)).To(Equal("40"))
		})

		It("mints up to the cap by the minter", func() {
			_, err := exec(ctx, owner, tok, "Mint", rcpt, amount.NewAmount(5))
			Expect(err).To(MatchError(token.ErrUnauthorized))

			_, err = exec(ctx, admin, tok, "Mint", rcpt, amount.NewAmount(5))
			Expect(err).To(Succeed())
			Expect(totalSupply(ctx, tok)).To(Equal("1005"))
			Expect(balanceOf(ctx, tok, rcpt)).To(Equal("5"))
		})

		It("stops minting at the cap", func() {
			data := construction(balance(owner, 10))
			data.Mint.Cap = amount.NewAmount(15)
			capped, err := deployToken(ctx, data)
			Expect(err).To(Succeed())

			_, err = exec(ctx, admin, capped, "Mint", rcpt, amount.NewAmount(5))
			Expect(err).To(Succeed())
			_, err = exec(ctx, admin, capped, "Mint", rcpt, amount.NewAmount(1))
			Expect(err).To(MatchError(token.ErrCannotExceedCap))

			m := query(ctx, capped, "Minter").(*token.MinterData)
			Expect(m.Minter).To(Equal(admin))
			Expect(m.Cap.String()).To(Equal("15"))
		})

		It("hands over and removes the minter", func() {
			_, err := exec(ctx, admin, tok, "UpdateMinter", &owner)
			Expect(err).To(Succeed())
			_, err = exec(ctx, admin, tok, "Mint", rcpt, amount.NewAmount(1))
			Expect(err).To(MatchError(token.ErrUnauthorized))

			_, err = exec(ctx, owner, tok, "UpdateMinter", nil)
			Expect(err).To(Succeed())
			Expect(query(ctx, tok, "Minter")).To(BeNil())
			_, err = exec(ctx, owner, tok, "Mint", rcpt, amount.NewAmount(1))
			Expect(err).To(MatchError(token.ErrUnauthorized))
		})
	})
})
