package util

import "github.com/spaolacci/murmur3"

// Hash is 32-bit murmur3. It goes through the streaming digest: the
// one-shot Sum32WithSeed walks the input with uintptr arithmetic that the
// race detector's pointer checks reject.
func Hash(data []byte, seed uint32) uint32 {
	h := murmur3.New32WithSeed(seed)
	h.Write(data)
	return h.Sum32()
}
