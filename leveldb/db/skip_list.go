package db

import (
	"sync/atomic"

	"memtable-golang/leveldb/util"
)

const (
	skipListMaxHeight = 12
	skipListBranching = 4
)

/*
	1. head的key是零值，不能使用head的key
	2. 如果node为nil，则认为这个node包含最大的key，即node为右边界

	Thread safety
	-------------
	Writes require external synchronization: at most one Insert at a time.
	Reads need none and may run concurrently with the single writer. A node's
	key and height never change after construction, and its forward links
	are all set before the node is published. Publication is one atomic store
	per level, bottom up, so a reader that reaches a node at any level sees it
	fully built.
*/

type SkipList[T KeyTypeSet] struct {
	rnd  *util.Random // writer only
	cmp  Comparator[T]
	head *SkipListNode[T]

	// Height of the entire list. Written only by Insert, read racily by
	// readers; stale values are fine.
	maxHeight atomic.Int32
	length    atomic.Int64
}

func NewSkipList[T KeyTypeSet](comparator Comparator[T], seed uint32) *SkipList[T] {
	var zero T
	s := &SkipList[T]{
		rnd:  util.NewRandom(seed),
		cmp:  comparator,
		head: newSkipListNode[T](skipListMaxHeight, zero),
	}
	s.maxHeight.Store(1)
	return s
}

// Insert adds key to the list. Keys comparing equal to key may already be
// present; the new one is placed before them.
// REQUIRES: no concurrent Insert.
func (s *SkipList[T]) Insert(key T) {
	var prevNodes [skipListMaxHeight]*SkipListNode[T]
	_ = s.findGreaterOrEqual(key, prevNodes[:])

	height := s.randomHeight()
	currentHeight := s.getMaxHeight()
	if height > currentHeight {
		for i := currentHeight; i < height; i++ {
			prevNodes[i] = s.head
		}
		// A reader that sees the new height before the head links below
		// are set finds nil at those levels and drops down immediately.
		s.maxHeight.Store(height)
	}

	newNode := newSkipListNode(height, key)
	for i := 0; i < int(height); i++ {
		// newNode is not reachable yet, so this store is not a publication.
		newNode.setNext(i, prevNodes[i].Next(i))
		prevNodes[i].setNext(i, newNode)
	}
	s.length.Add(1)
}

// Contains returns true iff an entry that compares equal to key is in the list.
func (s *SkipList[T]) Contains(key T) bool {
	x := s.findGreaterOrEqual(key, nil)
	return x != nil && s.cmp.Compare(x.key, key) == 0
}

// Len returns the number of inserted entries.
func (s *SkipList[T]) Len() int {
	return int(s.length.Load())
}

func (s *SkipList[T]) getMaxHeight() int32 {
	return s.maxHeight.Load()
}

// findLessThan returns the last node whose key is < key, or head.
func (s *SkipList[T]) findLessThan(key T) *SkipListNode[T] {
	x := s.head
	level := int(s.getMaxHeight() - 1)
	for {
		next := x.Next(level)
		if next != nil && s.cmp.Compare(next.key, key) < 0 {
			x = next
		} else {
			if level == 0 {
				return x
			} else {
				level--
			}
		}
	}
}

// findGreaterOrEqual returns the first node whose key is >= key, or nil.
// If prevNodes is non-nil it receives the predecessor at every level.
func (s *SkipList[T]) findGreaterOrEqual(key T, prevNodes []*SkipListNode[T]) *SkipListNode[T] {
	x := s.head
	level := int(s.getMaxHeight() - 1)
	for {
		next := x.Next(level)
		if s.keyIsAfterNode(key, next) {
			x = next
		} else {
			if prevNodes != nil {
				prevNodes[level] = x
			}
			if level == 0 {
				return next
			} else {
				level--
			}
		}
	}
}

// findLast returns the last node in the list, or head if it is empty.
func (s *SkipList[T]) findLast() *SkipListNode[T] {
	level := int(s.getMaxHeight() - 1)
	x := s.head
	for {
		next := x.Next(level)
		if next != nil {
			x = next
		} else if level > 0 {
			level--
		} else {
			return x
		}
	}
}

func (s *SkipList[T]) keyIsAfterNode(key T, node *SkipListNode[T]) bool {
	if node == nil {
		return false
	}
	return s.cmp.Compare(key, node.key) > 0
}

// randomHeight increases height with probability 1 in skipListBranching.
func (s *SkipList[T]) randomHeight() int32 {
	height := int32(1)
	for height < skipListMaxHeight && s.rnd.OneIn(skipListBranching) {
		height += 1
	}
	return height
}

// SkipListIterator Iteration over the contents of a skip list
type SkipListIterator[T KeyTypeSet] struct {
	list *SkipList[T]
	node *SkipListNode[T]
}

func NewSkipListIterator[T KeyTypeSet](list *SkipList[T]) *SkipListIterator[T] {
	return &SkipListIterator[T]{
		list: list,
		node: nil,
	}
}

// Valid Returns true iff the iterator is positioned at a valid node.
func (iter *SkipListIterator[T]) Valid() bool {
	return iter.node != nil
}

// Key Returns the key at the current position.
// REQUIRES: Valid()
func (iter *SkipListIterator[T]) Key() T {
	return iter.node.key
}

// Next Advances to the next position.
// REQUIRES: Valid()
func (iter *SkipListIterator[T]) Next() {
	iter.node = iter.node.Next(0)
}

// Prev Advances to the previous position.
// REQUIRES: Valid()
func (iter *SkipListIterator[T]) Prev() {
	// Instead of using explicit "prev" links, we just search for the
	// last node that falls before key.
	iter.node = iter.list.findLessThan(iter.node.key)
	if iter.node == iter.list.head {
		iter.node = nil
	}
}

// Seek Advance to the first entry with a key >= target
func (iter *SkipListIterator[T]) Seek(target T) {
	iter.node = iter.list.findGreaterOrEqual(target, nil)
}

// SeekToFirst Position at the first entry in list.
// Final state of iterator is Valid() iff list is not empty.
func (iter *SkipListIterator[T]) SeekToFirst() {
	iter.node = iter.list.head.Next(0)
}

// SeekToLast Position at the last entry in list.
// Final state of iterator is Valid() iff list is not empty.
func (iter *SkipListIterator[T]) SeekToLast() {
	iter.node = iter.list.findLast()
	if iter.node == iter.list.head {
		iter.node = nil
	}
}

type SkipListNode[T KeyTypeSet] struct {
	key  T
	next []atomic.Pointer[SkipListNode[T]]
}

func newSkipListNode[T KeyTypeSet](height int32, key T) *SkipListNode[T] {
	return &SkipListNode[T]{
		key:  key,
		next: make([]atomic.Pointer[SkipListNode[T]], height),
	}
}

// Next returns the successor at level, publishing its contents to the caller.
func (n *SkipListNode[T]) Next(level int) *SkipListNode[T] {
	return n.next[level].Load()
}

func (n *SkipListNode[T]) setNext(level int, x *SkipListNode[T]) {
	n.next[level].Store(x)
}
