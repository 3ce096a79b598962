package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/safeharbor/harbor/errors"
)

// ascendBtree takes a snapshot of all cached items within [start, end).
// The snapshot is taken eagerly so that writes made while iterating do not
// invalidate the btree traversal.
func ascendBtree(bt *btree.BTree, start, end []byte) []entry {
	var items []entry
	collect := func(item btree.Item) bool {
		items = append(items, item.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, collect)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, collect)
	}
	return items
}

// itemIter merges the cached items with the iterator of the parent store,
// letting the cache shadow the parent and hiding deleted entries.
type itemIter struct {
	cached []entry

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentDone bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(cached []entry, parent Iterator) (*itemIter, error) {
	iter := &itemIter{
		cached: cached,
		parent: parent,
	}
	if err := iter.advanceParent(); err != nil {
		parent.Release()
		return nil, err
	}
	return iter, nil
}

func (i *itemIter) advanceParent() error {
	if i.parentDone {
		return nil
	}
	k, v, err := i.parent.Next()
	if err != nil {
		if errors.ErrIteratorDone.Is(err) {
			i.parentDone = true
			i.parentKey, i.parentVal = nil, nil
			return nil
		}
		return err
	}
	i.parentKey, i.parentVal = k, v
	return nil
}

// Next returns the lowest remaining key of both sources.
func (i *itemIter) Next() (key, value []byte, err error) {
	for {
		if len(i.cached) == 0 && i.parentDone {
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache wrap done")
		}

		if len(i.cached) == 0 {
			k, v := i.parentKey, i.parentVal
			if err := i.advanceParent(); err != nil {
				return nil, nil, err
			}
			return k, v, nil
		}

		head := i.cached[0]
		cmp := -1
		if !i.parentDone {
			cmp = bytes.Compare(head.key, i.parentKey)
		}

		if cmp > 0 {
			k, v := i.parentKey, i.parentVal
			if err := i.advanceParent(); err != nil {
				return nil, nil, err
			}
			return k, v, nil
		}

		// Cache wins on equal keys, the parent entry is shadowed.
		i.cached = i.cached[1:]
		if cmp == 0 {
			if err := i.advanceParent(); err != nil {
				return nil, nil, err
			}
		}
		if !head.deleted {
			return head.key, head.value, nil
		}
	}
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	i.parent.Release()
	i.cached = nil
}
