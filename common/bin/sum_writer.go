package bin

import (
	"io"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/amount"
)

// SumWriter encodes fields in order and keeps the number of bytes written
type SumWriter struct {
	sum int64
}

func NewSumWriter() *SumWriter {
	return &SumWriter{}
}

func (sw *SumWriter) step(n int64, err error) (int64, error) {
	if err != nil {
		return sw.sum, err
	}
	sw.sum += n
	return sw.sum, nil
}

func (sw *SumWriter) Uint8(w io.Writer, v uint8) (int64, error) {
	return sw.step(WriteUint8(w, v))
}

func (sw *SumWriter) Uint32(w io.Writer, v uint32) (int64, error) {
	return sw.step(WriteUint32(w, v))
}

func (sw *SumWriter) Uint64(w io.Writer, v uint64) (int64, error) {
	return sw.step(WriteUint64(w, v))
}

func (sw *SumWriter) String(w io.Writer, v string) (int64, error) {
	return sw.step(WriteString(w, v))
}

func (sw *SumWriter) Bool(w io.Writer, v bool) (int64, error) {
	return sw.step(WriteBool(w, v))
}

func (sw *SumWriter) Address(w io.Writer, v common.Address) (int64, error) {
	return sw.step(WriteBytes(w, v[:]))
}

// Amount writes nil as zero
func (sw *SumWriter) Amount(w io.Writer, v *amount.Amount) (int64, error) {
	var bs []byte
	if v != nil && v.Int != nil {
		bs = v.Bytes()
	}
	return sw.step(WriteBytes(w, bs))
}

func (sw *SumWriter) WriterTo(w io.Writer, v io.WriterTo) (int64, error) {
	return sw.step(v.WriteTo(w))
}

func (sw *SumWriter) Sum() int64 {
	return sw.sum
}
