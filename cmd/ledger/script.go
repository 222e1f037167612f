package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/core/chain"
	"github.com/meverselabs/ledger/core/types"
)

// script errors
var (
	ErrInvalidScript    = errors.New("invalid script")
	ErrUnexpectedResult = errors.New("unexpected result")
)

// Call is one invocation of a script.
// Height and Time move the block forward, ExpectError asserts that the call fails with the message.
type Call struct {
	From        string        `yaml:"from"`
	To          string        `yaml:"to"`
	Method      string        `yaml:"method"`
	Args        []interface{} `yaml:"args"`
	Height      uint64        `yaml:"height"`
	Time        uint64        `yaml:"time"`
	ExpectError string        `yaml:"expect_error"`
}

// Script is a list of calls replayed block by block
type Script struct {
	Calls []*Call `yaml:"calls"`
}

// LoadScript reads the script of the path
func LoadScript(path string) (*Script, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return ParseScript(bs)
}

// ParseScript parses the yaml of the script
func ParseScript(bs []byte) (*Script, error) {
	s := &Script{}
	if err := yaml.Unmarshal(bs, s); err != nil {
		return nil, errors.Wrap(ErrInvalidScript, err.Error())
	}
	for i, c := range s.Calls {
		if c == nil || len(c.Method) == 0 {
			return nil, errors.Wrapf(ErrInvalidScript, "call %v has no method", i)
		}
		if _, err := common.ParseAddress(c.From); err != nil {
			return nil, errors.Wrapf(err, "call %v from", i)
		}
		if _, err := common.ParseAddress(c.To); err != nil {
			return nil, errors.Wrapf(err, "call %v to", i)
		}
	}
	return s, nil
}

// Run executes every call in its own block and commits it.
// A failed call is committed as an empty block.
func (s *Script) Run(cn *chain.Chain, out io.Writer) error {
	for i, c := range s.Calls {
		last := cn.Store().Block()
		b := last.Next(c.Time)
		if c.Height > 0 {
			b.Height = c.Height
		}
		ctx, err := cn.NewContextAt(b)
		if err != nil {
			return errors.Wrapf(err, "call %v", i)
		}
		from := common.MustParseAddress(c.From)
		to := common.MustParseAddress(c.To)
		result, _, err := cn.Execute(ctx, from, to, c.Method, toScriptInputs(c.Args))
		if err := checkExpected(c, err); err != nil {
			return errors.Wrapf(err, "call %v %v", i, c.Method)
		}
		if err := cn.CommitBlock(ctx); err != nil {
			return err
		}
		if err != nil {
			fmt.Fprintf(out, "%v %v failed as expected: %v\n", b.String(), c.Method, err)
			continue
		}
		outputs := make([]string, 0, len(result))
		for _, v := range result {
			outputs = append(outputs, types.FormatResult(v))
		}
		fmt.Fprintf(out, "%v %v ok %v\n", b.String(), c.Method, strings.Join(outputs, " "))
	}
	return nil
}

func checkExpected(c *Call, err error) error {
	if len(c.ExpectError) == 0 {
		return err
	}
	if err == nil {
		return errors.Wrapf(ErrUnexpectedResult, "expected error %q", c.ExpectError)
	}
	if !strings.Contains(err.Error(), c.ExpectError) {
		return errors.Wrapf(ErrUnexpectedResult, "expected error %q got %v", c.ExpectError, err)
	}
	return nil
}

// toScriptInputs turns yaml scalars into contract inputs, "null" and ~ give an absent optional value
func toScriptInputs(args []interface{}) []interface{} {
	inputs := make([]interface{}, 0, len(args))
	for _, v := range args {
		if s, ok := v.(string); ok && s == "null" {
			v = nil
		}
		inputs = append(inputs, v)
	}
	return inputs
}
