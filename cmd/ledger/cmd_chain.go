package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meverselabs/ledger/cmd/app"
	"github.com/meverselabs/ledger/core/types"
)

func initCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "writes the genesis of the config as the first block",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cn, err := opts.openChain()
			if err != nil {
				return err
			}
			res, err := app.NewLedgerApp(cn).InitGenesis(&opts.cfg.Genesis)
			if err != nil {
				return err
			}
			fmt.Println("token :", res.Token.String())
			if res.NFT != nil {
				fmt.Println("nft :", res.NFT.String())
			}
			return nil
		},
	}
}

func contractsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "contracts",
		Short: "lists the deployed contracts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cn, err := opts.openChain()
			if err != nil {
				return err
			}
			cds, err := cn.Store().Contracts()
			if err != nil {
				return err
			}
			b := cn.Store().Block()
			fmt.Println("height :", b.Height, "time :", b.Time)
			fmt.Println("classes :", strings.Join(app.ClassNames(), ", "))
			for _, cd := range cds {
				fmt.Println(cd.Address.String(), types.ContractName(cd.ClassID), "owner", cd.Owner.String())
			}
			return nil
		},
	}
}
