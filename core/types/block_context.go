package types

import "strconv"

// BlockContext is the height and the time of the block an invocation executes in.
// Contracts read it instead of the wall clock so that replays give the same result.
type BlockContext struct {
	Height uint64
	Time   uint64 // seconds since epoch
}

// Next returns the block context of the following block at the timestamp
func (b BlockContext) Next(Timestamp uint64) BlockContext {
	if Timestamp < b.Time {
		Timestamp = b.Time
	}
	return BlockContext{
		Height: b.Height + 1,
		Time:   Timestamp,
	}
}

func (b BlockContext) String() string {
	return "height " + strconv.FormatUint(b.Height, 10) + " time " + strconv.FormatUint(b.Time, 10)
}
