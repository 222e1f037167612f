package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/meverselabs/ledger/common/amount"
)

// environment overrides
const (
	EnvDataPath = "LEDGER_DATA_PATH"
	EnvBackend  = "LEDGER_BACKEND"
	EnvLogLevel = "LEDGER_LOG_LEVEL"
	EnvLogEnv   = "LEDGER_ENV"
)

// Config is the configuration of the ledger
type Config struct {
	DataPath  string
	Backend   string
	CacheSize int
	Version   uint16
	Log       LogConfig
	Genesis   Genesis
}

// LogConfig selects the logger profile and level
type LogConfig struct {
	Env   string
	Level string
}

// Genesis is the state written by init
type Genesis struct {
	Time  uint64
	Admin string
	Token TokenGenesis
	NFT   *NFTGenesis
}

// TokenGenesis describes the token deployed at genesis
type TokenGenesis struct {
	Name     string
	Symbol   string
	Decimals uint8
	Minter   string
	Cap      *amount.Amount
	Balances []BalanceGenesis
}

// BalanceGenesis is an initial balance of the token
type BalanceGenesis struct {
	Address string
	Amount  *amount.Amount
}

// NFTGenesis describes the optional royalty collection deployed at genesis
type NFTGenesis struct {
	Name   string
	Symbol string
	Minter string
	Admin  string
}

// Default returns the configuration used when nothing is given
func Default() *Config {
	return &Config{
		DataPath: "./ldata",
		Backend:  "leveldb",
		Version:  1,
	}
}

// Load reads the config file of the path over the defaults and applies the environment.
// A missing path keeps the defaults.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()
	if len(path) > 0 {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(envFiles...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv loads the env files and overrides the config with the LEDGER_ variables.
// Variables already set in the process win over the files.
func (cfg *Config) ApplyEnv(envFiles ...string) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if os.IsNotExist(errors.Cause(err)) {
				continue
			}
			return errors.Wrapf(err, "load env %v", f)
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataPath)); v != "" {
		cfg.DataPath = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackend)); v != "" {
		cfg.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogEnv)); v != "" {
		cfg.Log.Env = v
	}
	return nil
}

// LoadFile parse the config from the file of the path
func LoadFile(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return LoadReader(file, v)
}

// LoadString parse the config from the string
func LoadString(data string, v interface{}) error {
	return LoadReader(bytes.NewReader([]byte(data)), v)
}

// LoadReader parse the config from the file of the reader
func LoadReader(r io.Reader, v interface{}) error {
	dec := toml.NewDecoder(r)
	if _, err := dec.Decode(v); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
