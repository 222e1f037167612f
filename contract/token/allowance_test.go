package token_test

import (
	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/amount"
	"github.com/meverselabs/ledger/contract/receiver"
	"github.com/meverselabs/ledger/contract/token"
	"github.com/meverselabs/ledger/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Allowance", func() {
	var ctx *types.Context
	var tok common.Address

	BeforeEach(func() {
		ctx = newContext()
		tok = mustDeployToken(ctx, balance(owner, 999999), balance(owner2, 12345))
	})

	Describe("IncreaseAllowance", func() {
		It("adds to the stored grant", func() {
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(7777), nil)
			Expect(err).To(Succeed())
			_, err = exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(223), nil)
			Expect(err).To(Succeed())

			am, exp := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("8000"))
			Expect(exp).To(Equal(token.Never()))
		})

		It("replaces the expiration only when one is given", func() {
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(10), expPtr(token.AtHeight(500)))
			Expect(err).To(Succeed())
			_, err = exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(10), nil)
			Expect(err).To(Succeed())
			_, exp := allowanceOf(ctx, tok, owner, spender)
			Expect(exp).To(Equal(token.AtHeight(500)))

			_, err = exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(10), expPtr(token.AtTime(startTime+60)))
			Expect(err).To(Succeed())
			am, exp := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("30"))
			Expect(exp).To(Equal(token.AtTime(startTime + 60)))
		})

		It("rejects a grant to the owner itself without writing", func() {
			before := ctx.Hash()
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", owner, amount.NewAmount(100), nil)
			Expect(err).To(MatchError(token.ErrSelfAllowance))
			Expect(ctx.Hash()).To(Equal(before))

			am, _ := allowanceOf(ctx, tok, owner, owner)
			Expect(am).To(Equal("0"))
		})

		It("rejects an expiration that has already passed", func() {
			for _, e := range []token.Expiration{token.AtHeight(startHeight), token.AtHeight(1), token.AtTime(startTime)} {
				_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(100), expPtr(e))
				Expect(err).To(MatchError(token.ErrInvalidExpiration))
			}
			list := query(ctx, tok, "AllAllowances", owner, nil, uint32(0)).([]*token.AllowanceInfo)
			Expect(list).To(BeEmpty())
		})

		It("fails on overflow and keeps the grant", func() {
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.MaxUint128.Clone(), nil)
			Expect(err).To(Succeed())
			_, err = exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(1), nil)
			Expect(err).To(MatchError(token.ErrArithmeticOverflow))

			am, _ := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal(amount.MaxUint128.String()))
		})

		It("accepts textual arguments", func() {
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender.String(), "1500", "at_height:200")
			Expect(err).To(Succeed())
			am, exp := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("1500"))
			Expect(exp).To(Equal(token.AtHeight(200)))

			_, err = exec(ctx, owner, tok, "IncreaseAllowance", "0xnothex", "1", nil)
			Expect(err).To(MatchError(token.ErrInvalidAddress))
		})

		It("emits an event", func() {
			_, events, err := types.ExecuteContractCall(ctx, owner, tok, "IncreaseAllowance", []interface{}{spender, amount.NewAmount(5), nil})
			Expect(err).To(Succeed())
			Expect(events).To(HaveLen(1))
			Expect(events[0].Type).To(Equal("increase_allowance"))
		})

		It("keeps grants of different owners and spenders apart", func() {
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(11), nil)
			Expect(err).To(Succeed())
			_, err = exec(ctx, owner, tok, "IncreaseAllowance", spender2, amount.NewAmount(22), nil)
			Expect(err).To(Succeed())
			_, err = exec(ctx, owner2, tok, "IncreaseAllowance", spender, amount.NewAmount(33), nil)
			Expect(err).To(Succeed())

			am, _ := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("11"))
			am, _ = allowanceOf(ctx, tok, owner, spender2)
			Expect(am).To(Equal("22"))
			am, _ = allowanceOf(ctx, tok, owner2, spender)
			Expect(am).To(Equal("33"))
			am, _ = allowanceOf(ctx, tok, owner2, spender2)
			Expect(am).To(Equal("0"))
		})

		It("stores an explicit zero grant on a zero increase", func() {
			Expect(query(ctx, tok, "AllAllowances", owner, nil, uint32(0))).To(BeEmpty())
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.Zero(), nil)
			Expect(err).To(Succeed())

			am, exp := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("0"))
			Expect(exp).To(Equal(token.Never()))
			list := query(ctx, tok, "AllAllowances", owner, nil, uint32(0)).([]*token.AllowanceInfo)
			Expect(list).To(HaveLen(1))
			Expect(list[0].Spender).To(Equal(spender))
			Expect(query(ctx, tok, "AllSpenderAllowances", spender, nil, uint32(0))).To(HaveLen(1))
		})
	})

	Describe("DecreaseAllowance", func() {
		It("keeps the stored expiration on a partial decrease", func() {
			H := startHeight + 50
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(7777), expPtr(token.AtHeight(H)))
			Expect(err).To(Succeed())
			_, err = exec(ctx, owner, tok, "DecreaseAllowance", spender, amount.NewAmount(4444), nil)
			Expect(err).To(Succeed())

			am, exp := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("3333"))
			Expect(exp).To(Equal(token.AtHeight(H)))
		})

		It("replaces the expiration when one is given", func() {
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(100), nil)
			Expect(err).To(Succeed())
			_, err = exec(ctx, owner, tok, "DecreaseAllowance", spender, amount.NewAmount(40), expPtr(token.AtTime(startTime+1000)))
			Expect(err).To(Succeed())

			am, exp := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("60"))
			Expect(exp).To(Equal(token.AtTime(startTime + 1000)))
		})

		It("validates the expiration of a partial decrease", func() {
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(100), nil)
			Expect(err).To(Succeed())
			_, err = exec(ctx, owner, tok, "DecreaseAllowance", spender, amount.NewAmount(40), expPtr(token.AtHeight(startHeight)))
			Expect(err).To(MatchError(token.ErrInvalidExpiration))

			am, exp := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("100"))
			Expect(exp).To(Equal(token.Never()))
		})

		It("removes the grant when decreased by at least its amount", func() {
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(100), expPtr(token.AtHeight(startHeight+10)))
			Expect(err).To(Succeed())
			// an elapsed expiration does not matter when the grant goes away
			_, err = exec(ctx, owner, tok, "DecreaseAllowance", spender, amount.NewAmount(101), expPtr(token.AtHeight(1)))
			Expect(err).To(Succeed())

			am, exp := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("0"))
			Expect(exp).To(Equal(token.Never()))
			Expect(query(ctx, tok, "AllAllowances", owner, nil, uint32(0))).To(BeEmpty())
			Expect(query(ctx, tok, "AllSpenderAllowances", spender, nil, uint32(0))).To(BeEmpty())
		})

		It("fails without a grant", func() {
			_, err := exec(ctx, owner, tok, "DecreaseAllowance", spender, amount.NewAmount(1), nil)
			Expect(err).To(MatchError(token.ErrNoAllowance))
		})

		It("rejects the owner itself", func() {
			_, err := exec(ctx, owner, tok, "DecreaseAllowance", owner, amount.NewAmount(1), nil)
			Expect(err).To(MatchError(token.ErrSelfAllowance))
		})
	})

	Describe("TransferFrom", func() {
		It("moves the balance and deducts the grant", func() {
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(77777), nil)
			Expect(err).To(Succeed())
			_, err = exec(ctx, spender, tok, "TransferFrom", owner, rcpt, amount.NewAmount(44444))
			Expect(err).To(Succeed())

			Expect(balanceOf(ctx, tok, owner)).To(Equal("955555"))
			Expect(balanceOf(ctx, tok, rcpt)).To(Equal("44444"))
			Expect(balanceOf(ctx, tok, spender)).To(Equal("0"))
			am, _ := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("33333"))
		})

		It("fails once the grant expired and leaves it as it was", func() {
			H := startHeight + 5
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(7777), expPtr(token.AtHeight(H)))
			Expect(err).To(Succeed())

			ctx.SetBlock(types.BlockContext{Height: H, Time: startTime + 25})
			_, err = exec(ctx, spender, tok, "TransferFrom", owner, rcpt, amount.NewAmount(1))
			Expect(err).To(MatchError(token.ErrExpired))
			_, err = exec(ctx, spender, tok, "TransferFrom", owner, rcpt, amount.Zero())
			Expect(err).To(MatchError(token.ErrExpired))

			am, exp := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("7777"))
			Expect(exp).To(Equal(token.AtHeight(H)))
			Expect(balanceOf(ctx, tok, owner)).To(Equal("999999"))
		})

		It("fails once a grant by time expired", func() {
			T := startTime + 60
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(300), expPtr(token.AtTime(T)))
			Expect(err).To(Succeed())

			ctx.SetBlock(types.BlockContext{Height: startHeight + 1, Time: T - 1})
			_, err = exec(ctx, spender, tok, "TransferFrom", owner, rcpt, amount.NewAmount(100))
			Expect(err).To(Succeed())

			ctx.SetBlock(types.BlockContext{Height: startHeight + 2, Time: T})
			_, err = exec(ctx, spender, tok, "TransferFrom", owner, rcpt, amount.NewAmount(1))
			Expect(err).To(MatchError(token.ErrExpired))

			am, exp := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("200"))
			Expect(exp).To(Equal(token.AtTime(T)))
			Expect(balanceOf(ctx, tok, rcpt)).To(Equal("100"))
		})

		It("fails beyond the grant", func() {
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(10), nil)
			Expect(err).To(Succeed())
			_, err = exec(ctx, spender, tok, "TransferFrom", owner, rcpt, amount.NewAmount(11))
			Expect(err).To(MatchError(token.ErrArithmeticOverflow))
			am, _ := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("10"))
		})

		It("fails without a grant", func() {
			_, err := exec(ctx, spender, tok, "TransferFrom", owner, rcpt, amount.NewAmount(1))
			Expect(err).To(MatchError(token.ErrNoAllowance))
		})

		It("keeps a grant spent down to zero", func() {
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(10), nil)
			Expect(err).To(Succeed())
			_, err = exec(ctx, spender, tok, "TransferFrom", owner, rcpt, amount.NewAmount(10))
			Expect(err).To(Succeed())

			list := query(ctx, tok, "AllAllowances", owner, nil, uint32(0)).([]*token.AllowanceInfo)
			Expect(list).To(HaveLen(1))
			Expect(list[0].Spender).To(Equal(spender))
			Expect(list[0].Allowance.String()).To(Equal("0"))
		})

		It("rolls the grant back when the owner cannot pay", func() {
			_, err := exec(ctx, owner2, tok, "IncreaseAllowance", spender, amount.NewAmount(50000), nil)
			Expect(err).To(Succeed())
			before := ctx.Hash()

			_, err = exec(ctx, spender, tok, "TransferFrom", owner2, rcpt, amount.NewAmount(20000))
			Expect(err).To(MatchError(token.ErrInsufficientFunds))

			Expect(ctx.Hash()).To(Equal(before))
			am, _ := allowanceOf(ctx, tok, owner2, spender)
			Expect(am).To(Equal("50000"))
			Expect(balanceOf(ctx, tok, owner2)).To(Equal("12345"))
			Expect(balanceOf(ctx, tok, rcpt)).To(Equal("0"))
		})
	})

	Describe("BurnFrom", func() {
		It("burns from the owner and reduces the supply", func() {
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(1000), nil)
			Expect(err).To(Succeed())
			_, err = exec(ctx, spender, tok, "BurnFrom", owner, amount.NewAmount(600))
			Expect(err).To(Succeed())

			Expect(balanceOf(ctx, tok, owner)).To(Equal("999399"))
			Expect(totalSupply(ctx, tok)).To(Equal("1011744"))
			am, _ := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("400"))
		})

		It("fails beyond the grant", func() {
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(1000), nil)
			Expect(err).To(Succeed())
			_, err = exec(ctx, spender, tok, "BurnFrom", owner, amount.NewAmount(1001))
			Expect(err).To(MatchError(token.ErrArithmeticOverflow))
			Expect(totalSupply(ctx, tok)).To(Equal("1012344"))
		})

		It("rolls back when the owner cannot pay", func() {
			_, err := exec(ctx, owner2, tok, "IncreaseAllowance", spender, amount.NewAmount(50000), nil)
			Expect(err).To(Succeed())
			before := ctx.Hash()

			_, err = exec(ctx, spender, tok, "BurnFrom", owner2, amount.NewAmount(20000))
			Expect(err).To(MatchError(token.ErrInsufficientFunds))

			Expect(ctx.Hash()).To(Equal(before))
			am, _ := allowanceOf(ctx, tok, owner2, spender)
			Expect(am).To(Equal("50000"))
			Expect(balanceOf(ctx, tok, owner2)).To(Equal("12345"))
			Expect(totalSupply(ctx, tok)).To(Equal("1012344"))
		})

		It("fails once the grant expired", func() {
			T := startTime + 60
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(1000), expPtr(token.AtTime(T)))
			Expect(err).To(Succeed())

			ctx.SetBlock(types.BlockContext{Height: startHeight + 1, Time: T})
			_, err = exec(ctx, spender, tok, "BurnFrom", owner, amount.NewAmount(1))
			Expect(err).To(MatchError(token.ErrExpired))
			_, err = exec(ctx, spender, tok, "BurnFrom", owner, amount.Zero())
			Expect(err).To(MatchError(token.ErrExpired))

			am, _ := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("1000"))
			Expect(balanceOf(ctx, tok, owner)).To(Equal("999999"))
			Expect(totalSupply(ctx, tok)).To(Equal("1012344"))
		})
	})

	Describe("SendFrom", func() {
		var recv common.Address

		BeforeEach(func() {
			recv = mustDeployReceiver(ctx, tok)
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender, amount.NewAmount(500), nil)
			Expect(err).To(Succeed())
		})

		It("moves the balance and notifies the contract with the spender as sender", func() {
			_, err := exec(ctx, spender, tok, "SendFrom", owner, recv, amount.NewAmount(200), []byte(`{"memo":"hello"}`))
			Expect(err).To(Succeed())

			Expect(balanceOf(ctx, tok, recv)).To(Equal("200"))
			Expect(balanceOf(ctx, tok, owner)).To(Equal("999799"))
			am, _ := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("300"))

			Expect(query(ctx, recv, "LastSender")).To(Equal(spender))
			Expect(query(ctx, recv, "LastMemo")).To(Equal("hello"))
			Expect(query(ctx, recv, "Received", spender).(*amount.Amount).String()).To(Equal("200"))
		})

		It("reverts everything when the contract rejects", func() {
			before := ctx.Hash()
			_, err := exec(ctx, spender, tok, "SendFrom", owner, recv, amount.NewAmount(200), []byte(`{"reject":true}`))
			Expect(err).To(MatchError(receiver.ErrRejected))

			Expect(ctx.Hash()).To(Equal(before))
			Expect(balanceOf(ctx, tok, recv)).To(Equal("0"))
			am, _ := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("500"))
			Expect(query(ctx, recv, "LastSender")).To(Equal(common.Address{}))
		})

		It("rolls back when the owner cannot pay", func() {
			_, err := exec(ctx, owner2, tok, "IncreaseAllowance", spender, amount.NewAmount(50000), nil)
			Expect(err).To(Succeed())
			before := ctx.Hash()

			_, err = exec(ctx, spender, tok, "SendFrom", owner2, recv, amount.NewAmount(20000), []byte(`{"memo":"hello"}`))
			Expect(err).To(MatchError(token.ErrInsufficientFunds))

			Expect(ctx.Hash()).To(Equal(before))
			am, _ := allowanceOf(ctx, tok, owner2, spender)
			Expect(am).To(Equal("50000"))
			Expect(balanceOf(ctx, tok, owner2)).To(Equal("12345"))
			Expect(balanceOf(ctx, tok, recv)).To(Equal("0"))
			Expect(totalSupply(ctx, tok)).To(Equal("1012344"))
			Expect(query(ctx, recv, "LastSender")).To(Equal(common.Address{}))
		})

		It("fails once the grant expired", func() {
			T := startTime + 60
			_, err := exec(ctx, owner, tok, "IncreaseAllowance", spender2, amount.NewAmount(500), expPtr(token.AtTime(T)))
			Expect(err).To(Succeed())

			ctx.SetBlock(types.BlockContext{Height: startHeight + 1, Time: T + 1})
			_, err = exec(ctx, spender2, tok, "SendFrom", owner, recv, amount.NewAmount(1), nil)
			Expect(err).To(MatchError(token.ErrExpired))
			_, err = exec(ctx, spender2, tok, "SendFrom", owner, recv, amount.Zero(), nil)
			Expect(err).To(MatchError(token.ErrExpired))

			am, _ := allowanceOf(ctx, tok, owner, spender2)
			Expect(am).To(Equal("500"))
			Expect(balanceOf(ctx, tok, recv)).To(Equal("0"))
		})

		It("fails when the target is not a contract", func() {
			_, err := exec(ctx, spender, tok, "SendFrom", owner, rcpt, amount.NewAmount(200), nil)
			Expect(err).To(MatchError(types.ErrNotExistContract))
			am, _ := allowanceOf(ctx, tok, owner, spender)
			Expect(am).To(Equal("500"))
		})
	})

	Describe("listing", func() {
		BeforeEach(func() {
			for i, s := range []common.Address{spender3, spender, spender2} {
				_, err := exec(ctx, owner, tok, "IncreaseAllowance", s, amount.NewAmount(uint64(i+1)*100), nil)
				Expect(err).To(Succeed())
			}
			_, err := exec(ctx, owner2, tok, "IncreaseAllowance", spender, amount.NewAmount(9), expPtr(token.AtHeight(900)))
			Expect(err).To(Succeed())
		})

		It("lists the grants of an owner in spender order", func() {
			list := query(ctx, tok, "AllAllowances", owner, nil, uint32(0)).([]*token.AllowanceInfo)
			Expect(list).To(HaveLen(3))
			Expect(list[0].Spender).To(Equal(spender))
			Expect(list[0].Allowance.String()).To(Equal("200"))
			Expect(list[1].Spender).To(Equal(spender2))
			Expect(list[2].Spender).To(Equal(spender3))
			Expect(list[2].Allowance.String()).To(Equal("100"))
		})

		It("pages with a start and a limit", func() {
			list := query(ctx, tok, "AllAllowances", owner, nil, uint32(2)).([]*token.AllowanceInfo)
			Expect(list).To(HaveLen(2))
			Expect(list[1].Spender).To(Equal(spender2))

			next := query(ctx, tok, "AllAllowances", owner, &list[1].Spender, uint32(2)).([]*token.AllowanceInfo)
			Expect(next).To(HaveLen(1))
			Expect(next[0].Spender).To(Equal(spender3))
		})

		It("lists the grants to a spender in owner order", func() {
			list := query(ctx, tok, "AllSpenderAllowances", spender, nil, uint32(0)).([]*token.SpenderAllowanceInfo)
			Expect(list).To(HaveLen(2))
			Expect(list[0].Owner).To(Equal(owner))
			Expect(list[0].Allowance.String()).To(Equal("200"))
			Expect(list[1].Owner).To(Equal(owner2))
			Expect(list[1].Expires).To(Equal(token.AtHeight(900)))

			after := query(ctx, tok, "AllSpenderAllowances", spender, &owner, uint32(10)).([]*token.SpenderAllowanceInfo)
			Expect(after).To(HaveLen(1))
			Expect(after[0].Owner).To(Equal(owner2))
		})
	})
})
