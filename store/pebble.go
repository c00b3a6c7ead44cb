package store

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"okinoko_multichoice/contract"
)

// Pebble persists state in a pebble directory.
type Pebble struct {
	db *pebble.DB
}

var _ contract.Store = (*Pebble)(nil)

func OpenPebble(path string) (*Pebble, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble %s: %w", path, err)
	}
	return &Pebble{db: db}, nil
}

func (p *Pebble) Get(key string) (*string, error) {
	data, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v := string(data)
	if err := closer.Close(); err != nil {
		return nil, err
	}
	return &v, nil
}

func (p *Pebble) Iterate(prefix, cursor string, reverse bool, fn func(key, value string) bool) error {
	it := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: prefixEnd(prefix),
	})
	var ok bool
	switch {
	case cursor == "" && reverse:
		ok = it.Last()
	case cursor == "":
		ok = it.First()
	case reverse:
		ok = it.SeekLT([]byte(cursor))
	default:
		ok = it.SeekGE([]byte(cursor))
		if ok && string(it.Key()) == cursor {
			ok = it.Next()
		}
	}
	for ; ok; ok = stepPebble(it, reverse) {
		if !fn(string(it.Key()), string(it.Value())) {
			break
		}
	}
	if err := it.Error(); err != nil {
		it.Close()
		return err
	}
	return it.Close()
}

func stepPebble(it *pebble.Iterator, reverse bool) bool {
	if reverse {
		return it.Prev()
	}
	return it.Next()
}

func (p *Pebble) Commit(writes []contract.Write) error {
	if len(writes) == 0 {
		return nil
	}
	batch := p.db.NewBatch()
	defer batch.Close()
	for _, w := range writes {
		var err error
		if w.Value == nil {
			err = batch.Delete([]byte(w.Key), nil)
		} else {
			err = batch.Set([]byte(w.Key), []byte(*w.Value), nil)
		}
		if err != nil {
			return err
		}
	}
	return batch.Commit(pebble.Sync)
}

func (p *Pebble) Close() error { return p.db.Close() }
