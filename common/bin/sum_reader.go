package bin

import (
	"io"

	"github.com/pkg/errors"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/amount"
)

// SumReader decodes fields in order and keeps the number of bytes consumed,
// so a ReadFrom can return its total from any field
type SumReader struct {
	sum int64
}

func NewSumReader() *SumReader {
	return &SumReader{}
}

// step adds a successful read to the sum, a failed read leaves it as it was
func (sr *SumReader) step(n int64, err error) (int64, error) {
	if err != nil {
		return sr.sum, err
	}
	sr.sum += n
	return sr.sum, nil
}

func (sr *SumReader) Uint8(r io.Reader, p *uint8) (int64, error) {
	v, n, err := ReadUint8(r)
	if err == nil {
		*p = v
	}
	return sr.step(n, err)
}

func (sr *SumReader) GetUint32(r io.Reader) (uint32, int64, error) {
	v, n, err := ReadUint32(r)
	sum, err := sr.step(n, err)
	if err != nil {
		return 0, sum, err
	}
	return v, sum, nil
}

func (sr *SumReader) Uint64(r io.Reader, p *uint64) (int64, error) {
	v, n, err := ReadUint64(r)
	if err == nil {
		*p = v
	}
	return sr.step(n, err)
}

func (sr *SumReader) GetUint64(r io.Reader) (uint64, int64, error) {
	v, n, err := ReadUint64(r)
	sum, err := sr.step(n, err)
	if err != nil {
		return 0, sum, err
	}
	return v, sum, nil
}

func (sr *SumReader) String(r io.Reader, p *string) (int64, error) {
	v, n, err := ReadString(r)
	if err == nil {
		*p = v
	}
	return sr.step(n, err)
}

func (sr *SumReader) Bool(r io.Reader, p *bool) (int64, error) {
	v, n, err := ReadBool(r)
	if err == nil {
		*p = v
	}
	return sr.step(n, err)
}

// Address expects exactly common.AddressLength bytes
func (sr *SumReader) Address(r io.Reader, p *common.Address) (int64, error) {
	v, n, err := ReadBytes(r)
	if err == nil && len(v) != common.AddressLength {
		err = errors.Wrapf(ErrInvalidLength, "address of %v bytes", len(v))
	}
	if err == nil {
		copy((*p)[:], v)
	}
	return sr.step(n, err)
}

// Amount reads the big-endian magnitude, an empty value is zero
func (sr *SumReader) Amount(r io.Reader, p **amount.Amount) (int64, error) {
	v, n, err := ReadBytes(r)
	if err == nil {
		*p = amount.NewAmountFromBytes(v)
	}
	return sr.step(n, err)
}

func (sr *SumReader) ReaderFrom(r io.Reader, p io.ReaderFrom) (int64, error) {
	return sr.step(p.ReadFrom(r))
}

func (sr *SumReader) Sum() int64 {
	return sr.sum
}
