package digest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/rryqszq4/go-murmurhash"

	"github.com/rawbytedev/slice"
)

const murmurSeed uint64 = 0x12345678

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Func fingerprints the bytes of a Slice. 32-bit digests are widened.
type Func func(s *slice.Slice) uint64

var registry = map[string]Func{
	"fnv32": func(s *slice.Slice) uint64 { return uint64(slice.Hash32(s)) },
	"fnv64": slice.Hash64,
	"xxh64": func(s *slice.Slice) uint64 { return xxhash.Sum64(s.Bytes()) },
	"murmur64a": func(s *slice.Slice) uint64 {
		return murmurhash.MurmurHash64A(s.Bytes(), murmurSeed)
	},
}

// Width returns the digest width in bits for name.
func Width(name string) int {
	if name == "fnv32" {
		return 32
	}
	return 64
}

func Lookup(name string) (Func, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return f, nil
}

// Names lists the registered algorithms in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
