package util

import (
	"log/slog"
	"sync/atomic"
)

const DefaultArenaBlockSize = 4096

// Arena hands out byte buffers that stay valid and in place until the arena
// itself is dropped. Allocate is for a single writer; MemoryUsage may be read
// from any goroutine.
type Arena struct {
	blockSize int
	limit     int64

	current []byte // unused tail of the current block
	blocks  [][]byte

	memoryUsage atomic.Int64
	logger      *slog.Logger
}

// NewArena returns an arena allocating blocks of blockSize bytes. A positive
// limit caps the total bytes reserved; zero means no cap.
func NewArena(blockSize int, limit int64) *Arena {
	if blockSize <= 0 {
		blockSize = DefaultArenaBlockSize
	}
	return &Arena{
		blockSize: blockSize,
		limit:     limit,
		logger:    slog.Default(),
	}
}

func (a *Arena) SetLogger(logger *slog.Logger) {
	if logger != nil {
		a.logger = logger
	}
}

// Allocate returns an exclusive buffer with len == cap == n.
func (a *Arena) Allocate(n int) ([]byte, error) {
	if n < 0 {
		return nil, NewLevelDbError(ErrInvalidArgument, "negative allocation size %d", n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	if n <= len(a.current) {
		result := a.current[:n:n]
		a.current = a.current[n:]
		return result, nil
	}
	return a.allocateFallback(n)
}

func (a *Arena) allocateFallback(n int) ([]byte, error) {
	if n > a.blockSize/4 {
		// Object is more than a quarter of our block size. Allocate it
		// separately to avoid wasting too much space in leftover bytes.
		return a.newBlock(n)
	}

	// We waste the remaining space in the current block.
	block, err := a.newBlock(a.blockSize)
	if err != nil {
		return nil, err
	}
	a.current = block[n:]
	return block[:n:n], nil
}

func (a *Arena) newBlock(size int) ([]byte, error) {
	usage := a.memoryUsage.Load()
	if a.limit > 0 && usage+int64(size) > a.limit {
		return nil, NewLevelDbError(ErrAllocationFailed,
			"arena limit %d bytes exceeded: %d in use, %d requested", a.limit, usage, size)
	}
	block := make([]byte, size)
	a.blocks = append(a.blocks, block)
	a.memoryUsage.Add(int64(size))
	a.logger.Debug("arena block allocated", "size", size, "blocks", len(a.blocks), "usage", usage+int64(size))
	return block, nil
}

// MemoryUsage returns the bytes reserved by all blocks so far.
func (a *Arena) MemoryUsage() int64 {
	return a.memoryUsage.Load()
}
