package db

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/cockroachdb/errors"

	"memtable-golang/leveldb/util"
)

// TableBuilder receives a memtable's contents in internal key order. It is
// the boundary to the sorted table writer.
type TableBuilder interface {
	Add(internalKey, value Slice) error
	// Finish is called once after the last Add. filter is nil when no
	// filter was requested.
	Finish(filter *bloom.BloomFilter) error
}

type FlushOptions struct {
	// Versions hidden by a newer version of the same user key whose
	// sequence is <= SmallestSnapshot are dropped. Zero keeps every
	// version; MaxSequenceNumber keeps only the newest.
	SmallestSnapshot SequenceNumber

	// FilterFalsePositiveRate in (0, 1) builds a user key filter for the
	// table; 0 disables it. The filter hashes raw user key bytes, so it is
	// only available with the bytewise comparator.
	FilterFalsePositiveRate float64
}

type FlushStats struct {
	Entries int // handed to the builder
	Dropped int
	Bytes   int64 // key and value bytes handed to the builder

	// FilterOccupancy is the fraction of filter bits set.
	FilterOccupancy float64
}

// Flush streams the memtable into builder. Tombstones are always kept since
// older tables may hold the keys they delete.
func (mem *MemTable) Flush(builder TableBuilder, opts FlushOptions) (FlushStats, error) {
	var stats FlushStats
	if opts.FilterFalsePositiveRate < 0 || opts.FilterFalsePositiveRate >= 1 {
		return stats, errors.Newf("filter false positive rate %v out of range", opts.FilterFalsePositiveRate)
	}

	var filter *bloom.BloomFilter
	if opts.FilterFalsePositiveRate > 0 {
		if !isBytewise(mem.userKeyComparator) {
			return stats, util.NewLevelDbError(util.ErrInvalidArgument,
				"user key filter needs a bytewise comparator, have %s", mem.userKeyComparator.Name())
		}
		filter = bloom.NewWithEstimates(uint(max(mem.Len(), 1)), opts.FilterFalsePositiveRate)
	}

	var currentUserKey Slice
	hasCurrentUserKey := false
	var lastSequenceForKey SequenceNumber

	iter := mem.NewIterator()
	for iter.SeekToFirst(); iter.Valid(); iter.Next() {
		key, err := ParseInternalKey(iter.Key())
		if err != nil {
			return stats, errors.Wrap(err, "memtable flush")
		}

		firstVersion := !hasCurrentUserKey || mem.userKeyComparator.Compare(key.UserKey, currentUserKey) != 0
		if firstVersion {
			currentUserKey = key.UserKey
			hasCurrentUserKey = true
		}

		// Hidden by a newer entry for the same user key that every
		// snapshot can see.
		drop := !firstVersion && lastSequenceForKey <= opts.SmallestSnapshot
		lastSequenceForKey = key.Sequence
		if drop {
			stats.Dropped++
			continue
		}

		if err := builder.Add(iter.Key(), iter.Value()); err != nil {
			return stats, errors.Wrapf(err, "memtable flush add %s", key)
		}
		if filter != nil && firstVersion {
			filter.Add(key.UserKey)
		}
		stats.Entries++
		stats.Bytes += int64(len(iter.Key()) + len(iter.Value()))
	}
	if err := iter.Error(); err != nil {
		return stats, err
	}

	if filter != nil {
		stats.FilterOccupancy = occupancy(filter.BitSet())
	}
	if err := builder.Finish(filter); err != nil {
		return stats, errors.Wrap(err, "memtable flush finish")
	}
	mem.logger.Info("memtable flushed",
		"entries", stats.Entries, "dropped", stats.Dropped, "bytes", stats.Bytes)
	return stats, nil
}

func occupancy(bits *bitset.BitSet) float64 {
	if bits.Len() == 0 {
		return 0
	}
	return float64(bits.Count()) / float64(bits.Len())
}
