package db

import (
	"bytes"

	"github.com/cockroachdb/errors"

	"memtable-golang/leveldb/util"
)

type IntKeyTypeSet interface {
	~int32 | ~uint32 | ~int64 | ~uint64
}

type KeyTypeSet interface {
	IntKeyTypeSet | ~[]byte
}

// Comparator must be thread-safe
type Comparator[T KeyTypeSet] interface {

	// Compare < 0 iff "a" < "b", == 0 iff "a" == "b", > 0 iff "a" > "b"
	Compare(a, b T) int

	// Name of the comparator. Prevent mismatch (i.e., a database created with one comparator and accessed with another
	// comparator)
	Name() string
}

type Slice []byte

type BytewiseComparator struct{}

func NewBytewiseComparator() *BytewiseComparator {
	return &BytewiseComparator{}
}

func (*BytewiseComparator) Compare(a, b Slice) int {
	// Notice: a nil argument is equivalent to an empty slice using bytes.Compare.
	return bytes.Compare(a, b)
}

func (*BytewiseComparator) Name() string {
	return "leveldb.BytewiseComparator"
}

// isBytewise reports whether equal keys under c are equal byte strings,
// which hash-based key filters depend on.
func isBytewise(c Comparator[Slice]) bool {
	_, ok := c.(*BytewiseComparator)
	return ok
}

// InternalKeyComparator orders internal keys by ascending user key, then by
// descending tag, so newer versions of a user key come first.
type InternalKeyComparator struct {
	userKeyComparator Comparator[Slice]
}

func NewInternalKeyComparator(comparator Comparator[Slice]) *InternalKeyComparator {
	if comparator == nil {
		comparator = NewBytewiseComparator()
	}
	return &InternalKeyComparator{
		userKeyComparator: comparator,
	}
}

func (c *InternalKeyComparator) UserKeyComparator() Comparator[Slice] {
	return c.userKeyComparator
}

func (c *InternalKeyComparator) Compare(a, b Slice) int {
	if len(a) < internalKeyTagSize || len(b) < internalKeyTagSize {
		panic(errors.AssertionFailedf("internal key shorter than its tag: %d and %d bytes", len(a), len(b)))
	}
	aUserKey := ExtractUserKey(a)
	bUserKey := ExtractUserKey(b)

	r := c.userKeyComparator.Compare(aUserKey, bUserKey)
	if r == 0 {
		aTag := util.DecodeFixedUint64(a[len(aUserKey):])
		bTag := util.DecodeFixedUint64(b[len(bUserKey):])
		if aTag > bTag {
			return -1
		} else if aTag < bTag {
			return 1
		} else {
			return 0
		}
	}
	return r
}

func (*InternalKeyComparator) Name() string {
	return "leveldb.InternalKeyComparator"
}

// MemTableKeyComparator compares skip list entries, which start with a
// varint32 length prefixed internal key.
type MemTableKeyComparator struct {
	internalKeyComparator *InternalKeyComparator
}

func NewMemTableKeyComparator(comparator *InternalKeyComparator) *MemTableKeyComparator {
	return &MemTableKeyComparator{
		internalKeyComparator: comparator,
	}
}

func (c *MemTableKeyComparator) Compare(a, b Slice) int {
	return c.internalKeyComparator.Compare(mustGetLengthPrefixedSlice(a), mustGetLengthPrefixedSlice(b))
}

func (*MemTableKeyComparator) Name() string {
	return "leveldb.MemTableKeyComparator"
}

func mustGetLengthPrefixedSlice(data Slice) Slice {
	s, err := GetLengthPrefixedSlice(data)
	if err != nil {
		panic(errors.Wrap(err, "memtable entry"))
	}
	return s
}
