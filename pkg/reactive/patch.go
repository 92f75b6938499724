package reactive

import "fmt"

// Op identifies the mutation a Patch describes.
type Op uint8

const (
	OpPush    Op = iota + 1 // items appended
	OpPop                   // last item removed
	OpShift                 // first item removed
	OpUnshift               // items prepended
	OpSplice                // Count items removed at Index, Items inserted there
	OpSet                   // item at Index replaced, length unchanged
	OpAdd                   // keyed add: index assignment past the end
	OpDelete                // keyed delete: item at Index cleared, length unchanged
	OpMove                  // item moved from Index to To
	OpReplace               // whole contents replaced
)

// String returns the method name the op corresponds to.
func (op Op) String() string {
	switch op {
	case OpPush:
		return "push"
	case OpPop:
		return "pop"
	case OpShift:
		return "shift"
	case OpUnshift:
		return "unshift"
	case OpSplice:
		return "splice"
	case OpSet:
		return "set"
	case OpAdd:
		return "add"
	case OpDelete:
		return "delete"
	case OpMove:
		return "move"
	case OpReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Patch describes one mutation of a reactive collection.
//
// Every structural op is also expressed in splice form: Count items were
// removed starting at Index and Items were inserted there. Consumers that
// only understand splices can ignore Op, except for OpMove (Index -> To),
// OpAdd and OpDelete.
type Patch struct {
	Op      Op
	Index   int
	Count   int
	Items   []any
	Removed []any
	To      int
}

// String renders the patch for logs.
func (p Patch) String() string {
	if p.Op == OpMove {
		return fmt.Sprintf("move(%d -> %d)", p.Index, p.To)
	}
	return fmt.Sprintf("%s(index=%d, removed=%d, inserted=%d)", p.Op, p.Index, p.Count, len(p.Items))
}
