package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/core/types"
)

func execCommand(opts *options) *cobra.Command {
	var timestamp uint64
	cmd := &cobra.Command{
		Use:   "exec [from] [contract] [method] [args...]",
		Short: "executes the method as the from address and commits it as a block",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := common.ParseAddress(args[0])
			if err != nil {
				return err
			}
			to, err := common.ParseAddress(args[1])
			if err != nil {
				return err
			}
			cn, err := opts.openChain()
			if err != nil {
				return err
			}
			if timestamp == 0 {
				timestamp = uint64(time.Now().Unix())
			}
			ctx := cn.NewContext(timestamp)
			result, events, err := cn.Execute(ctx, from, to, args[2], toInputs(args[3:]))
			if err != nil {
				return err
			}
			if err := cn.CommitBlock(ctx); err != nil {
				return err
			}
			fmt.Println("block :", ctx.Block().String())
			printResults(result)
			for _, e := range events {
				printJSON(e)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&timestamp, "time", 0, "block time in seconds, now when not given")
	return cmd
}

func queryCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "query [contract] [method] [args...]",
		Short: "runs a read only method against the committed state",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := common.ParseAddress(args[0])
			if err != nil {
				return err
			}
			cn, err := opts.openChain()
			if err != nil {
				return err
			}
			result, err := cn.Query(to, args[1], toInputs(args[2:]))
			if err != nil {
				return err
			}
			printResults(result)
			return nil
		},
	}
}

// toInputs passes the textual arguments to the contract, "null" gives an absent optional value
func toInputs(args []string) []interface{} {
	inputs := make([]interface{}, 0, len(args))
	for _, v := range args {
		if v == "null" {
			inputs = append(inputs, nil)
		} else {
			inputs = append(inputs, v)
		}
	}
	return inputs
}

func printResults(result []interface{}) {
	for _, v := range result {
		printJSON(v)
	}
}

func printJSON(v interface{}) {
	bs, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		fmt.Println(types.FormatResult(v))
		return
	}
	fmt.Println(string(bs))
}
