package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func internalKey(userKey string, seq SequenceNumber, valueType ValueType) Slice {
	return AppendInternalKey(nil, ParsedInternalKey{UserKey: Slice(userKey), Sequence: seq, Type: valueType})
}

type reverseComparator struct{}

func (reverseComparator) Compare(a, b Slice) int {
	return NewBytewiseComparator().Compare(b, a)
}

func (reverseComparator) Name() string {
	return "test.ReverseComparator"
}

func TestInternalKeyComparatorOrder(t *testing.T) {
	cmp := NewInternalKeyComparator(nil)

	// ascending user key wins over everything else
	assert.Equal(t, -1, cmp.Compare(internalKey("a", 1, ValueTypeValue), internalKey("b", 100, ValueTypeValue)))
	assert.Equal(t, 1, cmp.Compare(internalKey("b", 1, ValueTypeValue), internalKey("a", 100, ValueTypeValue)))
	assert.Equal(t, -1, cmp.Compare(internalKey("", 1, ValueTypeValue), internalKey("a", 1, ValueTypeValue)))

	// same user key: descending sequence
	assert.Equal(t, -1, cmp.Compare(internalKey("a", 3, ValueTypeDeletion), internalKey("a", 1, ValueTypeValue)))
	assert.Equal(t, 1, cmp.Compare(internalKey("a", 1, ValueTypeValue), internalKey("a", 3, ValueTypeDeletion)))

	// same sequence: Value before Deletion
	assert.Equal(t, -1, cmp.Compare(internalKey("a", 5, ValueTypeValue), internalKey("a", 5, ValueTypeDeletion)))

	assert.Equal(t, 0, cmp.Compare(internalKey("a", 5, ValueTypeValue), internalKey("a", 5, ValueTypeValue)))
}

func TestInternalKeyComparatorDescendingSequences(t *testing.T) {
	cmp := NewInternalKeyComparator(NewBytewiseComparator())
	orders := [][]SequenceNumber{{1, 2, 3}, {3, 1, 2}, {2, 3, 1}}
	for _, order := range orders {
		keys := make([]Slice, 0, len(order))
		for _, seq := range order {
			keys = append(keys, internalKey("same", seq, ValueTypeValue))
		}
		for i := range keys {
			for j := range keys {
				expected := 0
				if order[i] > order[j] {
					expected = -1
				} else if order[i] < order[j] {
					expected = 1
				}
				assert.Equal(t, expected, cmp.Compare(keys[i], keys[j]))
			}
		}
	}
}

func TestInternalKeyComparatorUsesUserComparator(t *testing.T) {
	cmp := NewInternalKeyComparator(reverseComparator{})
	assert.Equal(t, 1, cmp.Compare(internalKey("a", 1, ValueTypeValue), internalKey("b", 1, ValueTypeValue)))
	// sequence order is independent of the user comparator
	assert.Equal(t, -1, cmp.Compare(internalKey("a", 2, ValueTypeValue), internalKey("a", 1, ValueTypeValue)))
	assert.Equal(t, "test.ReverseComparator", cmp.UserKeyComparator().Name())
}

func TestComparatorsPanicOnCorruption(t *testing.T) {
	cmp := NewInternalKeyComparator(nil)
	assert.Panics(t, func() {
		cmp.Compare(Slice("short"), internalKey("a", 1, ValueTypeValue))
	})

	memCmp := NewMemTableKeyComparator(cmp)
	good := encodeTestEntry(t, "a", 1, ValueTypeValue, "v")
	assert.Panics(t, func() {
		memCmp.Compare(Slice{0x80}, good)
	})
	assert.Panics(t, func() {
		memCmp.Compare(Slice{20, 'a'}, good)
	})
}
