package store

import (
	"strings"
	"sync"

	"github.com/google/btree"

	"okinoko_multichoice/contract"
)

type kv struct {
	key   string
	value string
}

func lessKV(a, b kv) bool { return a.key < b.key }

// Memory is a btree backed Store. Iteration walks a copy-on-write clone so
// callbacks may read the store again without holding its lock.
type Memory struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[kv]
}

var _ contract.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{tree: btree.NewG(32, lessKV)}
}

func (m *Memory) Get(key string) (*string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.tree.Get(kv{key: key})
	if !ok {
		return nil, nil
	}
	v := item.value
	return &v, nil
}

func (m *Memory) snapshot() *btree.BTreeG[kv] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tree.Clone()
}

func (m *Memory) Iterate(prefix, cursor string, reverse bool, fn func(key, value string) bool) error {
	snap := m.snapshot()
	if !reverse {
		start := prefix
		if cursor > start {
			start = cursor
		}
		snap.AscendGreaterOrEqual(kv{key: start}, func(item kv) bool {
			if !strings.HasPrefix(item.key, prefix) {
				return false
			}
			if cursor != "" && item.key <= cursor {
				return true
			}
			return fn(item.key, item.value)
		})
		return nil
	}

	visit := func(item kv) bool {
		if item.key < prefix {
			return false
		}
		if !strings.HasPrefix(item.key, prefix) {
			return true
		}
		if cursor != "" && item.key >= cursor {
			return true
		}
		return fn(item.key, item.value)
	}
	switch {
	case cursor != "":
		snap.DescendLessOrEqual(kv{key: cursor}, visit)
	case prefixEnd(prefix) != nil:
		snap.DescendLessOrEqual(kv{key: string(prefixEnd(prefix))}, visit)
	default:
		snap.Descend(visit)
	}
	return nil
}

func (m *Memory) Commit(writes []contract.Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range writes {
		if w.Value == nil {
			m.tree.Delete(kv{key: w.Key})
			continue
		}
		m.tree.ReplaceOrInsert(kv{key: w.Key, value: *w.Value})
	}
	return nil
}

// Len is the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree.Len()
}

func (m *Memory) Close() error { return nil }
