package store

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"okinoko_multichoice/contract"
)

// LevelDB persists state in a goleveldb directory.
type LevelDB struct {
	db *leveldb.DB
}

var _ contract.Store = (*LevelDB)(nil)

func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(key string) (*string, error) {
	data, err := l.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v := string(data)
	return &v, nil
}

func (l *LevelDB) Iterate(prefix, cursor string, reverse bool, fn func(key, value string) bool) error {
	it := l.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer it.Release()
	ok := seek(it, cursor, reverse)
	for ; ok; ok = step(it, reverse) {
		if !fn(string(it.Key()), string(it.Value())) {
			break
		}
	}
	return it.Error()
}

// seek positions it on the first entry of the walk, the cursor itself excluded.
func seek(it iterator.Iterator, cursor string, reverse bool) bool {
	if cursor == "" {
		if reverse {
			return it.Last()
		}
		return it.First()
	}
	found := it.Seek([]byte(cursor))
	if reverse {
		if !found {
			return it.Last()
		}
		return it.Prev()
	}
	if found && string(it.Key()) == cursor {
		return it.Next()
	}
	return found
}

func step(it iterator.Iterator, reverse bool) bool {
	if reverse {
		return it.Prev()
	}
	return it.Next()
}

func (l *LevelDB) Commit(writes []contract.Write) error {
	if len(writes) == 0 {
		return nil
	}
	batch := new(leveldb.Batch)
	for _, w := range writes {
		if w.Value == nil {
			batch.Delete([]byte(w.Key))
			continue
		}
		batch.Put([]byte(w.Key), []byte(*w.Value))
	}
	return l.db.Write(batch, &opt.WriteOptions{Sync: true})
}

func (l *LevelDB) Close() error { return l.db.Close() }
