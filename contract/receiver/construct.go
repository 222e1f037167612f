package receiver

import (
	"io"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/bin"
)

type ReceiverContractConstruction struct {
	Token common.Address
}

func (s *ReceiverContractConstruction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Address(w, s.Token); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *ReceiverContractConstruction) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Address(r, &s.Token); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
