package types

import (
	"github.com/meverselabs/ledger/common"
)

// EventAttribute is a key value pair of the event
type EventAttribute struct {
	Key   string
	Value string
}

// Event is emitted by a contract to describe what an invocation did.
// Events belong to the snapshot they are emitted in, so a reverted call leaves none.
type Event struct {
	Contract   common.Address
	Type       string
	Attributes []EventAttribute
}

// NewEvent returns a Event with the key value pairs
func NewEvent(cont common.Address, Type string, kvs ...string) *Event {
	e := &Event{
		Contract: cont,
		Type:     Type,
	}
	for i := 0; i+1 < len(kvs); i += 2 {
		e.Attributes = append(e.Attributes, EventAttribute{Key: kvs[i], Value: kvs[i+1]})
	}
	return e
}

// Attribute returns the value of the first attribute with the key
func (e *Event) Attribute(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
