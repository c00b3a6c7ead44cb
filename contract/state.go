package contract

import (
	"strings"

	"github.com/google/btree"
)

// State is the read side of the key/value space proposals, ballots, hooks and
// balances live in. Keys are binary strings built in keys.go.
type State interface {
	// Get returns nil when the key is missing.
	Get(key string) (*string, error)
	// Iterate walks keys with the given prefix in key order (descending when
	// reverse is set). A non empty cursor is exclusive: ascending walks start
	// after it, descending walks start before it. fn returns false to stop.
	Iterate(prefix, cursor string, reverse bool, fn func(key, value string) bool) error
}

// Store is a State that can apply a write set atomically.
type Store interface {
	State
	Commit(writes []Write) error
	Close() error
}

// Write is one buffered mutation, a nil Value deletes the key.
type Write struct {
	Key   string
	Value *string
}

func lessWrite(a, b Write) bool { return a.Key < b.Key }

// txState buffers every write of a single call on top of a parent State. It
// is thrown away when the call fails and flushed in one Commit when it succeeds.
type txState struct {
	base    State
	pending *btree.BTreeG[Write]
}

func newTxState(base State) *txState {
	return &txState{base: base, pending: btree.NewG(8, lessWrite)}
}

func (t *txState) Get(key string) (*string, error) {
	if w, ok := t.pending.Get(Write{Key: key}); ok {
		return w.Value, nil
	}
	return t.base.Get(key)
}

func (t *txState) Set(key, value string) {
	v := value
	t.pending.ReplaceOrInsert(Write{Key: key, Value: &v})
}

func (t *txState) Delete(key string) {
	t.pending.ReplaceOrInsert(Write{Key: key})
}

// pendingRange returns buffered writes matching prefix and cursor in walk order.
func (t *txState) pendingRange(prefix, cursor string, reverse bool) []Write {
	var out []Write
	t.pending.AscendGreaterOrEqual(Write{Key: prefix}, func(w Write) bool {
		if !strings.HasPrefix(w.Key, prefix) {
			return false
		}
		if cursor != "" && ((!reverse && w.Key <= cursor) || (reverse && w.Key >= cursor)) {
			return true
		}
		out = append(out, w)
		return true
	})
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Iterate merges the buffered writes into the parent walk so callers see the
// state as it would look after commit.
func (t *txState) Iterate(prefix, cursor string, reverse bool, fn func(key, value string) bool) error {
	pending := t.pendingRange(prefix, cursor, reverse)
	before := func(a, b string) bool {
		if reverse {
			return a > b
		}
		return a < b
	}
	i := 0
	stopped := false
	err := t.base.Iterate(prefix, cursor, reverse, func(key, value string) bool {
		for i < len(pending) && before(pending[i].Key, key) {
			w := pending[i]
			i++
			if w.Value != nil && !fn(w.Key, *w.Value) {
				stopped = true
				return false
			}
		}
		if i < len(pending) && pending[i].Key == key {
			w := pending[i]
			i++
			if w.Value == nil {
				return true
			}
			value = *w.Value
		}
		if !fn(key, value) {
			stopped = true
			return false
		}
		return true
	})
	if err != nil || stopped {
		return err
	}
	for ; i < len(pending); i++ {
		if w := pending[i]; w.Value != nil && !fn(w.Key, *w.Value) {
			return nil
		}
	}
	return nil
}

// writes lists the buffered mutations in key order.
func (t *txState) writes() []Write {
	out := make([]Write, 0, t.pending.Len())
	t.pending.Ascend(func(w Write) bool {
		out = append(out, w)
		return true
	})
	return out
}

// mergeInto replays the buffer onto a parent buffer, used for nested calls
// like message execution that may be discarded on their own.
func (t *txState) mergeInto(parent *txState) {
	t.pending.Ascend(func(w Write) bool {
		parent.pending.ReplaceOrInsert(w)
		return true
	})
}
