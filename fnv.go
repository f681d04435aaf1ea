package slice

// FNV-1a, see https://tools.ietf.org/html/draft-eastlake-fnv-17#section-6
const (
	fnv32OffsetBasis uint32 = 0x811c9dc5
	fnv32Prime       uint32 = 0x01000193

	fnv64OffsetBasis uint64 = 0xcbf29ce484222325
	fnv64Prime       uint64 = 0x100000001b3
)

// Hash32 returns the 32-bit FNV-1a digest of the bytes in s.
func Hash32(s *Slice) uint32 {
	h := fnv32OffsetBasis
	for _, b := range s.data {
		h ^= uint32(b)
		h *= fnv32Prime
	}
	return h
}

// Hash64 returns the 64-bit FNV-1a digest of the bytes in s.
func Hash64(s *Slice) uint64 {
	h := fnv64OffsetBasis
	for _, b := range s.data {
		h ^= uint64(b)
		h *= fnv64Prime
	}
	return h
}
