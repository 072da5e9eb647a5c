package util

import "sync/atomic"

const bloomHashSeed = 0xbc9f1d34

// MaxBloomBits is the largest filter; bit positions are 32-bit hashes.
const MaxBloomBits int64 = 1<<32 - 64

// ConcurrentBloom is a fixed-size bloom filter whose bits live in atomic
// words: one goroutine may Add while others call MayContain. It never
// reports a false negative for a key whose Add has returned.
type ConcurrentBloom struct {
	words  []atomic.Uint64
	bits   uint32
	hashes uint32
}

// NewConcurrentBloom sizes the filter for expectedKeys keys at bitsPerKey
// bits each.
func NewConcurrentBloom(expectedKeys, bitsPerKey int) *ConcurrentBloom {
	words := bloomBits(expectedKeys, bitsPerKey) / 64

	// 0.69 =~ ln(2), the hash count that minimizes false positives
	hashes := uint32(float64(bitsPerKey) * 0.69)
	if hashes < 1 {
		hashes = 1
	}
	if hashes > 30 {
		hashes = 30
	}
	return &ConcurrentBloom{
		words:  make([]atomic.Uint64, words),
		bits:   uint32(words * 64),
		hashes: hashes,
	}
}

// bloomBits rounds the filter size up to whole words, within [64, MaxBloomBits].
func bloomBits(expectedKeys, bitsPerKey int) int64 {
	bits := int64(64)
	if expectedKeys > 0 && bitsPerKey > 0 {
		if int64(expectedKeys) > MaxBloomBits/int64(bitsPerKey) {
			return MaxBloomBits
		}
		bits = max(bits, int64(expectedKeys)*int64(bitsPerKey))
	}
	return (bits + 63) / 64 * 64
}

func (b *ConcurrentBloom) Add(key []byte) {
	h := Hash(key, bloomHashSeed)
	delta := h>>17 | h<<15 // rotate right 17 bits
	for i := uint32(0); i < b.hashes; i++ {
		pos := h % b.bits
		b.words[pos/64].Or(uint64(1) << (pos % 64))
		h += delta
	}
}

func (b *ConcurrentBloom) MayContain(key []byte) bool {
	h := Hash(key, bloomHashSeed)
	delta := h>>17 | h<<15
	for i := uint32(0); i < b.hashes; i++ {
		pos := h % b.bits
		if b.words[pos/64].Load()&(uint64(1)<<(pos%64)) == 0 {
			return false
		}
		h += delta
	}
	return true
}
