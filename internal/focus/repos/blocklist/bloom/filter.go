// Package bloom adapts the bits-and-blooms filter to the blocklist interfaces.
package bloom

import (
	"sync"

	bitsbloom "github.com/bits-and-blooms/bloom/v3"
)

// filter wraps a bits-and-blooms BloomFilter with a mutex for writes.
// Reads (MightContain) are safe concurrently; Add is serialized.
type filter struct {
	mu sync.RWMutex
	bf *bitsbloom.BloomFilter
}

func (f *filter) Add(key []byte) {
	f.mu.Lock()
	f.bf.Add(key)
	f.mu.Unlock()
}

func (f *filter) MightContain(key []byte) bool {
	return f.bf.Test(key)
}
