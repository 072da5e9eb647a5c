package db

import (
	"log/slog"
	"sync/atomic"

	"github.com/cockroachdb/errors"

	"memtable-golang/leveldb/util"
)

// Allocator hands out buffers of exactly n bytes that stay valid and in
// place for the memtable's lifetime. Allocate is only called by the writer;
// it must be safe against concurrent reads of earlier buffers.
type Allocator interface {
	Allocate(n int) ([]byte, error)
}

// GetResult is the outcome of MemTable.Get.
type GetResult uint8

const (
	// GetNotFound means the memtable has no version of the key visible at
	// the lookup sequence; older sources must be searched.
	GetNotFound GetResult = iota
	GetFound
	// GetDeleted means the newest visible version is a tombstone; older
	// sources must not be searched.
	GetDeleted
)

func (r GetResult) String() string {
	switch r {
	case GetFound:
		return "Found"
	case GetDeleted:
		return "Deleted"
	}
	return "NotFound"
}

// MemTable is the in-memory write buffer. One goroutine may Add while any
// number call Get or iterate.
type MemTable struct {
	table *SkipList[Slice]
	alloc Allocator

	userKeyComparator     Comparator[Slice]
	internalKeyComparator *InternalKeyComparator

	// nil when disabled
	filter *util.ConcurrentBloom

	allocated atomic.Int64
	logger    *slog.Logger
}

// NewMemTable returns a memtable backed by its own arena.
func NewMemTable(opts *Options) *MemTable {
	if opts == nil {
		opts = DefaultOptions()
	}
	arena := util.NewArena(opts.ArenaBlockSize, opts.ArenaLimit)
	arena.SetLogger(opts.logger())
	return NewMemTableWithAllocator(opts, arena)
}

func NewMemTableWithAllocator(opts *Options, alloc Allocator) *MemTable {
	if opts == nil {
		opts = DefaultOptions()
	}
	userKeyComparator := opts.comparator()
	internalKeyComparator := NewInternalKeyComparator(userKeyComparator)
	memTableKeyComparator := NewMemTableKeyComparator(internalKeyComparator)

	mem := &MemTable{
		table:                 NewSkipList[Slice](memTableKeyComparator, opts.Seed),
		alloc:                 alloc,
		userKeyComparator:     userKeyComparator,
		internalKeyComparator: internalKeyComparator,
		logger:                opts.logger(),
	}
	if opts.BloomBitsPerKey > 0 {
		// The filter hashes raw bytes; a comparator that equates different
		// byte strings would turn present keys into misses.
		if isBytewise(userKeyComparator) {
			mem.filter = util.NewConcurrentBloom(opts.BloomExpectedKeys, opts.BloomBitsPerKey)
		} else {
			mem.logger.Warn("memtable key filter disabled for non-bytewise comparator",
				"comparator", userKeyComparator.Name())
		}
	}
	mem.logger.Debug("memtable created",
		"comparator", userKeyComparator.Name(), "seed", opts.Seed, "bloom", mem.filter != nil)
	return mem
}

// Add inserts one version of key. seq must be larger than every sequence
// previously added for the same key. Allocation failures are returned
// unchanged in kind and never retried.
// REQUIRES: no concurrent Add.
func (mem *MemTable) Add(seq SequenceNumber, valueType ValueType, key, value Slice) error {
	if !valueType.valid() {
		return util.NewLevelDbError(util.ErrInvalidArgument, "unknown value type %d", uint8(valueType))
	}
	if seq > MaxSequenceNumber {
		return util.NewLevelDbError(util.ErrInvalidArgument, "sequence number %d overflows the tag", seq)
	}
	if len(key) > maxUserKeySize {
		return util.NewLevelDbError(util.ErrInvalidArgument, "user key too large: %d bytes", len(key))
	}

	totalLength := EntryLength(len(key), len(value))
	data, err := mem.alloc.Allocate(totalLength)
	if err != nil {
		return errors.Wrapf(err, "memtable add seq %d", seq)
	}
	if err := EncodeEntry(data, seq, valueType, key, value); err != nil {
		return err
	}
	mem.allocated.Add(int64(totalLength))

	// The filter must cover the key before the entry becomes visible.
	if mem.filter != nil {
		mem.filter.Add(key)
	}
	mem.table.Insert(data)
	return nil
}

// Get looks up the newest version of lookupKey's user key whose sequence is
// <= the lookup sequence. The returned value aliases memtable memory and
// must not be modified.
func (mem *MemTable) Get(lookupKey *LookupKey) (GetResult, Slice, error) {
	userKey := lookupKey.UserKey()
	if mem.filter != nil && !mem.filter.MayContain(userKey) {
		return GetNotFound, nil, nil
	}

	iterator := NewSkipListIterator(mem.table)
	iterator.Seek(lookupKey.MemTableKey())
	if !iterator.Valid() {
		return GetNotFound, nil, nil
	}

	// SkipList中的元素排序方式：先按 userKey 升序排序，再按 sequence number 降序排序
	// Seek 已经过滤掉了前缀相同但 sequence number 更大的元素了，所以不会读到后边插入的值
	entry := iterator.Key()
	internalKey, rest, err := DecodeEntryPrefix(entry)
	if err != nil {
		return GetNotFound, nil, errors.Wrap(err, "memtable get")
	}
	if mem.userKeyComparator.Compare(userKey, ExtractUserKey(internalKey)) != 0 {
		return GetNotFound, nil, nil
	}

	_, valueType := ExtractTag(internalKey)
	switch valueType {
	case ValueTypeValue:
		value, err := GetLengthPrefixedSlice(rest)
		if err != nil {
			return GetNotFound, nil, errors.Wrap(err, "memtable get")
		}
		return GetFound, value, nil
	case ValueTypeDeletion:
		return GetDeleted, nil, nil
	}
	return GetNotFound, nil, errors.Wrap(
		util.NewLevelDbError(util.ErrCorruption, "unknown value type %d", uint8(valueType)), "memtable get")
}

// Len returns the number of entries added.
func (mem *MemTable) Len() int {
	return mem.table.Len()
}

// ApproximateMemoryUsage reports the allocator's reserved bytes when it
// tracks them, and the bytes of encoded entries otherwise.
func (mem *MemTable) ApproximateMemoryUsage() int64 {
	if usage, ok := mem.alloc.(interface{ MemoryUsage() int64 }); ok {
		return usage.MemoryUsage()
	}
	return mem.allocated.Load()
}
