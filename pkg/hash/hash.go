// Package hash provides the rolling hash used for cache key partitioning.
package hash

// Rolling32 is a 32-bit rolling hash of s. It is not cryptographic: good
// enough to partition cache entries by prompt content, never acceptable for
// authorization decisions.
func Rolling32(s string) uint32 {
	var h int32
	for _, r := range s {
		h = (h << 5) - h + int32(r)
	}
	return uint32(h)
}
