package chain_test

import (
	"os"

	"github.com/pkg/errors"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/core/backend"
	_ "github.com/meverselabs/ledger/core/backend/bolt_driver"
	_ "github.com/meverselabs/ledger/core/backend/leveldb_driver"
	"github.com/meverselabs/ledger/core/chain"
	"github.com/meverselabs/ledger/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Chain", func() {
	for _, driver := range backend.Drivers() {
		driver := driver

		Describe(driver, func() {
			var (
				dir string
				cn  *chain.Chain
			)

			open := func() *chain.Chain {
				st, err := chain.OpenStore(driver, dir, 1, 16)
				Expect(err).To(Succeed())
				return chain.NewChain(st)
			}

			BeforeEach(func() {
				var err error
				dir, err = os.MkdirTemp("", "ledger-chain")
				Expect(err).To(Succeed())
				cn = open()
			})

			AfterEach(func() {
				cn.Close()
				Expect(os.RemoveAll(dir)).To(Succeed())
			})

			deploy := func() common.Address {
				ctx := cn.NewContext(10)
				cont, err := cn.Deploy(ctx, owner, noteClassID, []byte("notes"))
				Expect(err).To(Succeed())
				Expect(cn.CommitBlock(ctx)).To(Succeed())
				return cont
			}

			It("persists committed blocks across a restart", func() {
				cont := deploy()

				ctx := cn.NewContext(20)
				for _, name := range []string{"b", "a", "c"} {
					_, events, err := cn.Execute(ctx, alice, cont, "Write", []interface{}{name, "body " + name})
					Expect(err).To(Succeed())
					Expect(events).To(HaveLen(1))
				}
				_, _, err := cn.Execute(ctx, alice, cont, "Erase", []interface{}{"c"})
				Expect(err).To(Succeed())
				Expect(cn.CommitBlock(ctx)).To(Succeed())

				cn.Close()
				cn = open()

				Expect(cn.Store().Block()).To(Equal(types.BlockContext{Height: 2, Time: 20}))
				Expect(cn.Store().Seq()).To(Equal(uint64(1)))

				is, err := cn.Query(cont, "Title", nil)
				Expect(err).To(Succeed())
				Expect(is[0]).To(Equal("notes"))

				is, err = cn.Query(cont, "Names", []interface{}{alice})
				Expect(err).To(Succeed())
				Expect(is[0]).To(Equal([]string{"a", "b"}))

				is, err = cn.Query(cont, "Read", []interface{}{alice, "b"})
				Expect(err).To(Succeed())
				Expect(is[0]).To(Equal("body b"))

				cds, err := cn.Store().Contracts()
				Expect(err).To(Succeed())
				Expect(cds).To(HaveLen(1))
				Expect(cds[0].Address).To(Equal(cont))
			})

			It("merges pending writes with committed keys", func() {
				cont := deploy()
				ctx := cn.NewContext(20)
				_, _, err := cn.Execute(ctx, alice, cont, "Write", []interface{}{"x", "1"})
				Expect(err).To(Succeed())
				Expect(cn.CommitBlock(ctx)).To(Succeed())

				ctx = cn.NewContext(30)
				_, _, err = cn.Execute(ctx, alice, cont, "Write", []interface{}{"y", "2"})
				Expect(err).To(Succeed())
				_, _, err = cn.Execute(ctx, alice, cont, "Erase", []interface{}{"x"})
				Expect(err).To(Succeed())
				is, _, err := cn.Execute(ctx, alice, cont, "Names", []interface{}{alice})
				Expect(err).To(Succeed())
				Expect(is[0]).To(Equal([]string{"y"}))
			})

			It("keeps deploy addresses unique after a restart", func() {
				first := deploy()
				cn.Close()
				cn = open()
				second := deploy()
				Expect(second).NotTo(Equal(first))
				Expect(cn.Store().Seq()).To(Equal(uint64(2)))
			})

			It("rejects a block that does not follow the last one", func() {
				deploy()
				_, err := cn.NewContextAt(types.BlockContext{Height: 1, Time: 50})
				Expect(errors.Is(err, chain.ErrInvalidHeight)).To(BeTrue())
				_, err = cn.NewContextAt(types.BlockContext{Height: 5, Time: 1})
				Expect(errors.Is(err, chain.ErrInvalidTimestamp)).To(BeTrue())

				ctx, err := cn.NewContextAt(types.BlockContext{Height: 5, Time: 50})
				Expect(err).To(Succeed())
				ctx.Snapshot()
				Expect(errors.Is(cn.CommitBlock(ctx), chain.ErrDirtyContext)).To(BeTrue())
			})

			It("rejects a store of another version", func() {
				deploy()
				cn.Close()
				_, err := chain.OpenStore(driver, dir, 2, 16)
				Expect(errors.Is(err, chain.ErrInvalidVersion)).To(BeTrue())
				cn = open()
			})
		})
	}
})
