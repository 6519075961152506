package interpreter

import "fmt"

// HaltSentinel is the return address meaning "top-level call, stop on return".
const HaltSentinel = -1

type EntryKind int

const (
	ReturnAddress EntryKind = iota // a value moved over by d_to_a, or the halt sentinel
	SavedBase                      // a local base saved by push_base
)

func (k EntryKind) String() string {
	if k == SavedBase {
		return "saved-base"
	}
	return "return-address"
}

// ReturnEntry is one slot of the return stack. The tag lets each pop check it
// got what the matching push produced.
type ReturnEntry struct {
	Kind  EntryKind
	Value Value
}

func addressEntry(v Value) ReturnEntry {
	return ReturnEntry{Kind: ReturnAddress, Value: v}
}

func baseEntry(base int) ReturnEntry {
	return ReturnEntry{Kind: SavedBase, Value: NewInt(int64(base))}
}

var haltEntry = addressEntry(NewInt(HaltSentinel))

func (e ReturnEntry) String() string {
	return fmt.Sprintf("%s(%s)", e.Kind, e.Value)
}
