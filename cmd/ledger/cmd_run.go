package main

import (
	"os"

	"github.com/spf13/cobra"
)

func runCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run [script.yaml]",
		Short: "replays the calls of the script, each in its own block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := LoadScript(args[0])
			if err != nil {
				return err
			}
			cn, err := opts.openChain()
			if err != nil {
				return err
			}
			return s.Run(cn, os.Stdout)
		},
	}
}
