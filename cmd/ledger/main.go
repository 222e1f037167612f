package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/meverselabs/ledger/cmd/closer"
	"github.com/meverselabs/ledger/cmd/config"
	"github.com/meverselabs/ledger/common/rlog"
	"github.com/meverselabs/ledger/core/backend"
	"github.com/meverselabs/ledger/core/chain"

	_ "github.com/meverselabs/ledger/cmd/app"
	_ "github.com/meverselabs/ledger/core/backend/bolt_driver"
	_ "github.com/meverselabs/ledger/core/backend/leveldb_driver"
)

type options struct {
	cfgPath string
	envPath string
	cfg     *config.Config
	cm      *closer.Manager
}

func main() {
	opts := &options{cm: closer.NewManager()}
	rootCmd := &cobra.Command{
		Use:           "ledger",
		Short:         "runs the token ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := opts.cfgPath
			if !cmd.Flags().Changed("config") {
				if _, err := os.Stat(path); os.IsNotExist(err) {
					path = ""
				}
			}
			cfg, err := config.Load(path, opts.envPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			if err := rlog.Configure(rlog.Environment(cfg.Log.Env), cfg.Log.Level); err != nil {
				return err
			}
			rlog.Println("ledger", cmd.Name(), "backend", cfg.Backend, "data", cfg.DataPath)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.cfgPath, "config", "./config.toml", "config file path")
	rootCmd.PersistentFlags().StringVar(&opts.envPath, "env", ".env", "env file with LEDGER_ overrides")
	rootCmd.AddCommand(initCommand(opts))
	rootCmd.AddCommand(contractsCommand(opts))
	rootCmd.AddCommand(execCommand(opts))
	rootCmd.AddCommand(queryCommand(opts))
	rootCmd.AddCommand(runCommand(opts))

	err := rootCmd.Execute()
	opts.cm.CloseAll()
	if err != nil {
		rlog.Fatalln("error :", err)
	}
	rlog.Sync()
}

// openChain opens the store of the config, the chain is closed when the command ends
func (opts *options) openChain() (*chain.Chain, error) {
	st, err := chain.OpenStore(opts.cfg.Backend, opts.cfg.DataPath, opts.cfg.Version, opts.cfg.CacheSize)
	if err != nil {
		if errors.Is(err, backend.ErrNotExistDriver) {
			return nil, errors.Wrapf(err, "backends are %v", strings.Join(backend.Drivers(), ", "))
		}
		return nil, err
	}
	cn := chain.NewChain(st)
	opts.cm.Add("chain", cn)
	return cn, nil
}
