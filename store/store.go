// Package store holds the contract.Store backends: an in-memory btree for
// tests and devnets plus two on-disk engines.
package store

import (
	"fmt"
	"strings"

	"okinoko_multichoice/contract"
)

const (
	BackendMemory  = "memory"
	BackendLevelDB = "leveldb"
	BackendPebble  = "pebble"
)

// Open returns the backend named by kind rooted at path. The memory backend
// ignores path.
func Open(kind, path string) (contract.Store, error) {
	switch strings.ToLower(kind) {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendLevelDB:
		return OpenLevelDB(path)
	case BackendPebble:
		return OpenPebble(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", kind)
	}
}

// prefixEnd is the smallest key greater than every key starting with prefix,
// nil when no such key exists.
func prefixEnd(prefix string) []byte {
	end := []byte(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
