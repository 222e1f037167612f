package receiver

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/amount"
	"github.com/meverselabs/ledger/core/types"
)

var (
	tagToken      = byte(0x01)
	tagLastSender = byte(0x02)
	tagLastMemo   = byte(0x03)
	tagReceived   = byte(0x10)
)

// ReceiverContract accepts the transfer notifications of one token.
// The payload is a JSON object: "reject" fails the notification and "memo" is recorded.
type ReceiverContract struct {
	addr   common.Address
	master common.Address
}

func (cont *ReceiverContract) Address() common.Address {
	return cont.addr
}

func (cont *ReceiverContract) Master() common.Address {
	return cont.master
}

func (cont *ReceiverContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
}

func (cont *ReceiverContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	data := &ReceiverContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	cc.SetContractData([]byte{tagToken}, data.Token[:])
	return nil
}

// Receive handles the notification of the token for the amount sent by the sender
func (cont *ReceiverContract) Receive(cc *types.ContractContext, Sender common.Address, Amount *amount.Amount, Msg []byte) error {
	if cc.From() != cont.Token(cc) {
		return errors.Wrapf(ErrUnauthorized, "%v is not the token", cc.From().String())
	}
	var memo string
	if len(Msg) > 0 {
		if !gjson.ValidBytes(Msg) {
			return errors.Wrapf(ErrInvalidPayload, "%q", Msg)
		}
		payload := gjson.ParseBytes(Msg)
		if payload.Get("reject").Bool() {
			return errors.Wrapf(ErrRejected, "%v from %v", Amount.String(), Sender.String())
		}
		memo = payload.Get("memo").String()
	}

	total := cont.Received(cc, Sender).Add(Amount)
	cc.SetAccountData(Sender, []byte{tagReceived}, total.Bytes())
	cc.SetContractData([]byte{tagLastSender}, Sender[:])
	cc.SetContractData([]byte{tagLastMemo}, []byte(memo))
	cc.EmitEvent("receive", "sender", Sender.String(), "amount", Amount.String(), "memo", memo)
	return nil
}

func (cont *ReceiverContract) Token(cc types.ContractLoader) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{tagToken}))
}

// Received returns the total amount notified for the sender
func (cont *ReceiverContract) Received(cc types.ContractLoader, Sender common.Address) *amount.Amount {
	return amount.NewAmountFromBytes(cc.AccountData(Sender, []byte{tagReceived}))
}

func (cont *ReceiverContract) LastSender(cc types.ContractLoader) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{tagLastSender}))
}

func (cont *ReceiverContract) LastMemo(cc types.ContractLoader) string {
	return string(cc.ContractData([]byte{tagLastMemo}))
}

func (cont *ReceiverContract) Front() interface{} {
	return &front{
		cont: cont,
	}
}

type front struct {
	cont *ReceiverContract
}

func (f *front) Receive(cc *types.ContractContext, Sender common.Address, Amount *amount.Amount, Msg []byte) error {
	return f.cont.Receive(cc, Sender, Amount, Msg)
}

func (f *front) Token(cc types.ContractLoader) common.Address {
	return f.cont.Token(cc)
}

func (f *front) Received(cc types.ContractLoader, Sender common.Address) *amount.Amount {
	return f.cont.Received(cc, Sender)
}

func (f *front) LastSender(cc types.ContractLoader) common.Address {
	return f.cont.LastSender(cc)
}

func (f *front) LastMemo(cc types.ContractLoader) string {
	return f.cont.LastMemo(cc)
}
