package db

import (
	"fmt"
	"testing"

	"github.com/zhangyunhao116/fastrand"
)

func BenchmarkMemTableAdd(b *testing.B) {
	mem := NewMemTable(nil)
	value := make(Slice, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := Slice(fmt.Sprintf("key%016d", fastrand.Uint64()))
		if err := mem.Add(SequenceNumber(i+1), ValueTypeValue, key, value); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMemTableGet(b *testing.B) {
	const N = 100000
	mem := NewMemTable(nil)
	for i := 0; i < N; i++ {
		if err := mem.Add(SequenceNumber(i+1), ValueTypeValue, Slice(fmt.Sprintf("key%08d", i)), Slice("v")); err != nil {
			b.Fatal(err)
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lookupKey := NewLookupKey(Slice(fmt.Sprintf("key%08d", fastrand.Intn(N))), MaxSequenceNumber)
		if result, _, err := mem.Get(lookupKey); err != nil || result != GetFound {
			b.Fatal(result, err)
		}
	}
}
