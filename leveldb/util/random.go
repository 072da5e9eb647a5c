package util

const (
	randomModulus    uint32 = 2147483647 // 2^31-1
	randomMultiplier uint64 = 16807      // bits 14, 8, 7, 5, 2, 1, 0
)

// Random is a Park-Miller "minimal standard" generator. Same seed, same
// sequence. Not safe for concurrent use.
type Random struct {
	seed uint32
}

func NewRandom(s uint32) *Random {
	seed := s & 0x7fffffff
	// 0 and 2^31-1 are fixed points of the recurrence
	if seed == 0 || seed == randomModulus {
		seed = 1
	}
	return &Random{seed: seed}
}

// Next returns the next value in [1, 2^31-2].
func (r *Random) Next() uint32 {
	r.seed = mersenneMulMod(r.seed, randomMultiplier, 31)
	return r.seed
}

// Uniform returns a value in [0, n). REQUIRES: n > 0.
func (r *Random) Uniform(n uint32) uint32 {
	return r.Next() % n
}

// OneIn returns true roughly once every n calls. REQUIRES: n > 0.
func (r *Random) OneIn(n uint32) bool {
	return r.Next()%n == 0
}

// Skewed picks base uniformly from [0, maxLog] and returns a value in
// [0, 2^base), favoring small numbers exponentially.
func (r *Random) Skewed(maxLog uint32) uint32 {
	return r.Uniform(1 << r.Uniform(maxLog+1))
}

// mersenneMulMod computes (a*state) mod (2^bits-1) without division, using
// ((x << bits) % M) == x.
func mersenneMulMod(state uint32, a uint64, bits uint) uint32 {
	m := uint64(1)<<bits - 1
	product := uint64(state) * a
	next := (product >> bits) + (product & m)
	// the sum never equals m, so one subtraction is enough
	if next > m {
		next -= m
	}
	return uint32(next)
}
