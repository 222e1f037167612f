package app

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/meverselabs/ledger/cmd/config"
	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/bin"
	"github.com/meverselabs/ledger/common/rlog"
	"github.com/meverselabs/ledger/contract/nft721royalty"
	"github.com/meverselabs/ledger/contract/receiver"
	"github.com/meverselabs/ledger/contract/token"
	"github.com/meverselabs/ledger/core/chain"
	"github.com/meverselabs/ledger/core/types"
)

// class ids of the contracts served by the ledger
var (
	TokenClassID    = types.MustRegisterContractType(&token.TokenContract{})
	ReceiverClassID = types.MustRegisterContractType(&receiver.ReceiverContract{})
	NFTClassID      = types.MustRegisterContractType(&nft721royalty.NFT721RoyaltyContract{})
)

var classNames = map[string]uint64{
	"token":         TokenClassID,
	"receiver":      ReceiverClassID,
	"nft721royalty": NFTClassID,
}

// ClassID returns the class id of the short contract name
func ClassID(name string) (uint64, error) {
	id, has := classNames[strings.ToLower(strings.TrimSpace(name))]
	if !has {
		return 0, errors.Wrapf(ErrUnknownClass, "%q", name)
	}
	return id, nil
}

// ClassNames returns the short contract names in order
func ClassNames() []string {
	names := make([]string, 0, len(classNames))
	for name := range classNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LedgerApp writes the genesis of the ledger
type LedgerApp struct {
	cn  *chain.Chain
	log *zap.SugaredLogger
}

// NewLedgerApp returns a LedgerApp
func NewLedgerApp(cn *chain.Chain) *LedgerApp {
	return &LedgerApp{
		cn:  cn,
		log: rlog.Named("app"),
	}
}

// Name returns the name of the application
func (app *LedgerApp) Name() string {
	return "LedgerApp"
}

// Version returns the version of the application
func (app *LedgerApp) Version() string {
	return "v0.1.0"
}

// GenesisResult is the addresses deployed by the genesis
type GenesisResult struct {
	Token common.Address
	NFT   *common.Address
}

// InitGenesis deploys the genesis contracts and commits them as the first block
func (app *LedgerApp) InitGenesis(g *config.Genesis) (*GenesisResult, error) {
	if h := app.cn.Store().Block().Height; h > 0 {
		return nil, errors.Wrapf(ErrAlreadyInitialized, "height %v", h)
	}
	admin, err := common.ParseAddress(g.Admin)
	if err != nil {
		return nil, errors.Wrap(err, "genesis admin")
	}
	ctx, err := app.cn.NewContextAt(types.BlockContext{Height: 1, Time: g.Time})
	if err != nil {
		return nil, err
	}

	data, err := tokenConstruction(&g.Token)
	if err != nil {
		return nil, err
	}
	bs, _, err := bin.WriterToBytes(data)
	if err != nil {
		return nil, err
	}
	result := &GenesisResult{}
	if result.Token, err = app.cn.Deploy(ctx, admin, TokenClassID, bs); err != nil {
		return nil, err
	}

	if g.NFT != nil {
		nftData, err := nftConstruction(g.NFT)
		if err != nil {
			return nil, err
		}
		bs, _, err := bin.WriterToBytes(nftData)
		if err != nil {
			return nil, err
		}
		addr, err := app.cn.Deploy(ctx, admin, NFTClassID, bs)
		if err != nil {
			return nil, err
		}
		result.NFT = &addr
	}

	if err := app.cn.CommitBlock(ctx); err != nil {
		return nil, err
	}
	app.log.Infow("genesis initialized", "token", result.Token.String(), "admin", admin.String())
	return result, nil
}

func tokenConstruction(g *config.TokenGenesis) (*token.TokenContractConstruction, error) {
	data := &token.TokenContractConstruction{
		Name:     g.Name,
		Symbol:   g.Symbol,
		Decimals: g.Decimals,
	}
	for _, b := range g.Balances {
		addr, err := common.ParseAddress(b.Address)
		if err != nil {
			return nil, errors.Wrap(err, "genesis balance")
		}
		data.InitialBalances = append(data.InitialBalances, token.InitialBalance{Address: addr, Amount: b.Amount})
	}
	if len(g.Minter) > 0 {
		minter, err := common.ParseAddress(g.Minter)
		if err != nil {
			return nil, errors.Wrap(err, "genesis minter")
		}
		data.Mint = &token.MinterData{Minter: minter, Cap: g.Cap}
	}
	return data, nil
}

func nftConstruction(g *config.NFTGenesis) (*nft721royalty.NFT721RoyaltyContractConstruction, error) {
	minter, err := common.ParseAddress(g.Minter)
	if err != nil {
		return nil, errors.Wrap(err, "genesis nft minter")
	}
	data := &nft721royalty.NFT721RoyaltyContractConstruction{
		Name:   g.Name,
		Symbol: g.Symbol,
		Minter: minter,
	}
	if len(g.Admin) > 0 {
		admin, err := common.ParseAddress(g.Admin)
		if err != nil {
			return nil, errors.Wrap(err, "genesis nft admin")
		}
		data.Admin = &admin
	}
	return data, nil
}
