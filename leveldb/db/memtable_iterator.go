package db

import (
	"github.com/cockroachdb/errors"

	"memtable-golang/leveldb/util"
)

// MemTableIterator walks memtable entries in internal key order. Keys and
// values alias memtable memory. A decode failure stops the iterator and is
// reported by Error.
type MemTableIterator struct {
	iter    *SkipListIterator[Slice]
	scratch Slice

	key   Slice
	value Slice
	err   error
}

func (mem *MemTable) NewIterator() *MemTableIterator {
	return &MemTableIterator{
		iter: NewSkipListIterator(mem.table),
	}
}

func (it *MemTableIterator) Valid() bool {
	return it.err == nil && it.iter.Valid()
}

// Seek positions at the first entry whose internal key is >= target.
func (it *MemTableIterator) Seek(internalKey Slice) {
	it.scratch = util.AppendVarInt32(it.scratch[:0], uint32(len(internalKey)))
	it.scratch = append(it.scratch, internalKey...)
	it.iter.Seek(it.scratch)
	it.decode()
}

func (it *MemTableIterator) SeekToFirst() {
	it.iter.SeekToFirst()
	it.decode()
}

func (it *MemTableIterator) SeekToLast() {
	it.iter.SeekToLast()
	it.decode()
}

// REQUIRES: Valid()
func (it *MemTableIterator) Next() {
	it.iter.Next()
	it.decode()
}

// REQUIRES: Valid()
func (it *MemTableIterator) Prev() {
	it.iter.Prev()
	it.decode()
}

// Key returns the internal key. REQUIRES: Valid()
func (it *MemTableIterator) Key() Slice {
	return it.key
}

// REQUIRES: Valid()
func (it *MemTableIterator) Value() Slice {
	return it.value
}

func (it *MemTableIterator) Error() error {
	return it.err
}

func (it *MemTableIterator) decode() {
	it.key, it.value = nil, nil
	if it.err != nil || !it.iter.Valid() {
		return
	}
	internalKey, rest, err := DecodeEntryPrefix(it.iter.Key())
	if err == nil {
		it.value, err = GetLengthPrefixedSlice(rest)
	}
	if err != nil {
		it.err = errors.Wrap(err, "memtable iterator")
		return
	}
	it.key = internalKey
}
