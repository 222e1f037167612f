package types

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/meverselabs/ledger/common"
	"github.com/meverselabs/ledger/common/amount"
)

// ExecLock serializes top level invocations
var ExecLock sync.Mutex

var errType = reflect.TypeOf((*error)(nil)).Elem()
var addressType = reflect.TypeOf(common.Address{})
var amountType = reflect.TypeOf(&amount.Amount{})
var bigIntType = reflect.TypeOf(&big.Int{})
var bytesType = reflect.TypeOf([]byte{})

type IInteractor interface {
	Destroy()
	Exec(Cc *ContractContext, Addr common.Address, MethodName string, Args []interface{}) ([]interface{}, error)
}

type ExecFunc = func(Cc *ContractContext, Addr common.Address, MethodName string, Args []interface{}) ([]interface{}, error)

type interactor struct {
	ctx    *Context
	cont   Contract
	conMap map[common.Address]Contract
	exit   bool
}

// NewInteractor returns the interactor that executes nested calls made from the contract
func NewInteractor(ctx *Context, cont Contract, cc *ContractContext) IInteractor {
	return &interactor{
		ctx:    ctx,
		cont:   cont,
		conMap: map[common.Address]Contract{cont.Address(): cont},
	}
}

func (i *interactor) Destroy() {
	i.exit = true
}

// Exec calls the method of the contract at the address as the contract of the Cc.
// The call runs in its own snapshot and is reverted when it fails.
func (i *interactor) Exec(Cc *ContractContext, ContAddr common.Address, MethodName string, Args []interface{}) ([]interface{}, error) {
	if i.exit {
		return nil, errors.WithStack(ErrInteractorDestroyed)
	}
	if MethodName == "" {
		return nil, errors.WithStack(ErrMethodNotGiven)
	}
	cont, err := i.getContract(ContAddr)
	if err != nil {
		return nil, err
	}
	ecc := i.currentContractContext(Cc, ContAddr)
	return _exec(ecc, cont, MethodName, Args)
}

func (i *interactor) getContract(Addr common.Address) (Contract, error) {
	if cont, ok := i.conMap[Addr]; ok {
		return cont, nil
	}
	if !i.ctx.IsContract(Addr) {
		return nil, errors.Wrapf(ErrNotExistContract, "%v", Addr.String())
	}
	cont, err := i.ctx.Contract(Addr)
	if err != nil {
		return nil, err
	}
	i.conMap[Addr] = cont
	return cont, nil
}

func (i *interactor) currentContractContext(Cc *ContractContext, Addr common.Address) *ContractContext {
	if Cc.cont == Addr {
		return Cc
	}
	return &ContractContext{
		cont: Addr,
		from: Cc.cont,
		ctx:  Cc.ctx,
		Exec: i.Exec,
	}
}

// ExecuteContractCall runs one top level invocation of the method by the from address.
// Every mutation of the invocation is committed together or not at all,
// and the events it emitted are returned on success.
func ExecuteContractCall(ctx *Context, from common.Address, to common.Address, MethodName string, Args []interface{}) ([]interface{}, []*Event, error) {
	ExecLock.Lock()
	defer ExecLock.Unlock()

	if !ctx.IsContract(to) {
		return nil, nil, errors.Wrapf(ErrNotExistContract, "%v", to.String())
	}
	cont, err := ctx.Contract(to)
	if err != nil {
		return nil, nil, err
	}
	cc := ctx.ContractContext(cont, from)
	intr := NewInteractor(ctx, cont, cc)
	defer intr.Destroy()
	cc.Exec = intr.Exec

	sn := ctx.Snapshot()
	result, err := _exec(cc, cont, MethodName, Args)
	if err != nil {
		ctx.Revert(sn)
		return nil, nil, err
	}
	events := make([]*Event, len(ctx.Top().Events))
	copy(events, ctx.Top().Events)
	ctx.Commit(sn)
	return result, events, nil
}

// ExecuteContractQuery runs the method and discards every mutation it made
func ExecuteContractQuery(ctx *Context, to common.Address, MethodName string, Args []interface{}) ([]interface{}, error) {
	ExecLock.Lock()
	defer ExecLock.Unlock()

	if !ctx.IsContract(to) {
		return nil, errors.Wrapf(ErrNotExistContract, "%v", to.String())
	}
	cont, err := ctx.Contract(to)
	if err != nil {
		return nil, err
	}
	cc := ctx.ContractContext(cont, common.ZeroAddr)
	intr := NewInteractor(ctx, cont, cc)
	defer intr.Destroy()
	cc.Exec = intr.Exec

	sn := ctx.Snapshot()
	defer ctx.Revert(sn)
	return _exec(cc, cont, MethodName, Args)
}

func _exec(ecc *ContractContext, cont Contract, MethodName string, Args []interface{}) (result []interface{}, err error) {
	ContAddr := cont.Address()
	rMethod, err := methodByName(cont, ContAddr, MethodName)
	if err != nil {
		return nil, err
	}
	in, err := ContractInputsConv(Args, rMethod)
	if err != nil {
		return nil, err
	}
	in = append([]reflect.Value{reflect.ValueOf(ecc)}, in...)

	sn := ecc.ctx.Snapshot()
	vs, err := func() (vs []reflect.Value, err error) {
		defer func() {
			if v := recover(); v != nil {
				err = errors.Wrapf(ErrContractPanic, "call method(%v) of contract(%v) message: %v", MethodName, ContAddr.String(), v)
			}
		}()
		return rMethod.Call(in), nil
	}()
	if err != nil {
		ecc.ctx.Revert(sn)
		return nil, err
	}
	result, err = getResults(rMethod.Type(), vs)
	if err != nil {
		ecc.ctx.Revert(sn)
		return nil, err
	}
	ecc.ctx.Commit(sn)
	return result, nil
}

func getResults(mType reflect.Type, vs []reflect.Value) (result []interface{}, err error) {
	result = []interface{}{}
	for i, v := range vs {
		if mType.Out(i).Implements(errType) {
			if !v.IsNil() {
				err = v.Interface().(error)
			}
			continue
		}
		result = append(result, v.Interface())
	}
	return
}

func methodByName(cont Contract, Addr common.Address, MethodName string) (reflect.Value, error) {
	vo := reflect.ValueOf(cont.Front())
	if !vo.IsValid() || (vo.Kind() == reflect.Ptr && vo.IsNil()) {
		return reflect.Value{}, errors.Wrapf(ErrNotExistMethod, "nil front of contract %v", Addr.String())
	}
	method := vo.MethodByName(MethodName)
	if !method.IsValid() {
		return reflect.Value{}, errors.Wrapf(ErrNotExistMethod, "%v of contract %v", MethodName, Addr.String())
	}
	if method.Type().NumIn() < 1 {
		return reflect.Value{}, errors.Wrapf(ErrNotExistMethod, "%v has no context parameter", MethodName)
	}
	return method, nil
}

// ContractInputsConv converts the arguments to the parameter types of the method.
// Strings are parsed into addresses, amounts, numbers and booleans so that textual callers can invoke any method.
func ContractInputsConv(Args []interface{}, rMethod reflect.Value) ([]reflect.Value, error) {
	mt := rMethod.Type()
	if mt.NumIn() != len(Args)+1 {
		return nil, errors.Wrapf(ErrInvalidInputCount, "got %v want %v", len(Args), mt.NumIn()-1)
	}
	in := make([]reflect.Value, len(Args))
	for i, v := range Args {
		param, err := convertInput(v, mt.In(i+1))
		if err != nil {
			return nil, errors.Wrapf(err, "input %v", i)
		}
		in[i] = param
	}
	return in, nil
}

func convertInput(v interface{}, mType reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch mType.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Interface:
			return reflect.Zero(mType), nil
		}
		return reflect.Value{}, errors.Wrapf(ErrInvalidInputType, "nil for %v", mType)
	}
	param := reflect.ValueOf(v)
	if param.Type().AssignableTo(mType) {
		return param, nil
	}

	switch pv := v.(type) {
	case string:
		return convertString(pv, mType)
	case *big.Int:
		switch mType {
		case amountType:
			return reflect.ValueOf(&amount.Amount{Int: new(big.Int).Set(pv)}), nil
		}
		if isUintKind(mType.Kind()) && pv.Sign() >= 0 && pv.IsUint64() {
			return reflect.ValueOf(pv.Uint64()).Convert(mType), nil
		}
	case *amount.Amount:
		if mType == bigIntType {
			return reflect.ValueOf(new(big.Int).Set(pv.Int)), nil
		}
	case []byte:
		switch mType {
		case addressType:
			return reflect.ValueOf(common.BytesToAddress(pv)), nil
		case amountType:
			return reflect.ValueOf(amount.NewAmountFromBytes(pv)), nil
		}
	}

	// numbers of another width or sign
	if isIntKind(param.Kind()) || isUintKind(param.Kind()) {
		if mType == amountType {
			if isIntKind(param.Kind()) {
				if param.Int() < 0 {
					return reflect.Value{}, errors.Wrapf(ErrInvalidInputType, "negative amount %v", v)
				}
				return reflect.ValueOf(amount.NewAmount(uint64(param.Int()))), nil
			}
			return reflect.ValueOf(amount.NewAmount(param.Uint())), nil
		}
		if param.Type().ConvertibleTo(mType) && (isIntKind(mType.Kind()) || isUintKind(mType.Kind())) {
			return param.Convert(mType), nil
		}
	}
	if mType.Kind() == reflect.Ptr && param.Type().AssignableTo(mType.Elem()) {
		p := reflect.New(mType.Elem())
		p.Elem().Set(param)
		return p, nil
	}
	return reflect.Value{}, errors.Wrapf(ErrInvalidInputType, "get %v want %v", param.Type(), mType)
}

func convertString(pv string, mType reflect.Type) (reflect.Value, error) {
	switch mType {
	case addressType:
		addr, err := common.ParseAddress(pv)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(addr), nil
	case amountType:
		am, err := amount.ParseAmount(pv)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(am), nil
	case bigIntType:
		bi, ok := new(big.Int).SetString(pv, 0)
		if !ok {
			return reflect.Value{}, errors.Wrapf(ErrInvalidInputType, "%q is not a number", pv)
		}
		return reflect.ValueOf(bi), nil
	case bytesType:
		return reflect.ValueOf([]byte(pv)), nil
	}
	switch k := mType.Kind(); {
	case k == reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(pv))
		if err != nil {
			return reflect.Value{}, errors.Wrapf(ErrInvalidInputType, "%q is not a bool", pv)
		}
		return reflect.ValueOf(b), nil
	case isUintKind(k):
		n, err := strconv.ParseUint(strings.TrimSpace(pv), 0, mType.Bits())
		if err != nil {
			return reflect.Value{}, errors.Wrapf(ErrInvalidInputType, "%q is not a %v", pv, mType)
		}
		return reflect.ValueOf(n).Convert(mType), nil
	case isIntKind(k):
		n, err := strconv.ParseInt(strings.TrimSpace(pv), 0, mType.Bits())
		if err != nil {
			return reflect.Value{}, errors.Wrapf(ErrInvalidInputType, "%q is not a %v", pv, mType)
		}
		return reflect.ValueOf(n).Convert(mType), nil
	case k == reflect.Ptr:
		// optional values such as *uint64 are given by their textual form
		elem, err := convertString(pv, mType.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(mType.Elem())
		p.Elem().Set(elem)
		return p, nil
	case k == reflect.String:
		return reflect.ValueOf(pv).Convert(mType), nil
	}
	if u, ok := reflect.New(mType).Interface().(textUnmarshaler); ok {
		if err := u.UnmarshalText([]byte(pv)); err != nil {
			return reflect.Value{}, errors.Wrapf(ErrInvalidInputType, "%q: %v", pv, err)
		}
		return reflect.ValueOf(u).Elem(), nil
	}
	return reflect.Value{}, errors.Wrapf(ErrInvalidInputType, "get string want %v", mType)
}

type textUnmarshaler interface {
	UnmarshalText([]byte) error
}

func isIntKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUintKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

// FormatResult returns the printable form of an invocation result
func FormatResult(v interface{}) string {
	switch rv := v.(type) {
	case nil:
		return "<nil>"
	case fmt.Stringer:
		return rv.String()
	case []byte:
		return string(rv)
	default:
		return fmt.Sprintf("%+v", v)
	}
}
