package model

// ChannelQualitySample is an ordered sequence of per-subband SINR values
// (linear power ratio), one entry per resource block in the active
// allocation. A zero entry means "resource block not allocated". Samples are
// produced once per reporting opportunity and consumed read-only; the AMC
// core never retains them across calls.
type ChannelQualitySample []float64

// AllocationMap is the ordered sequence of resource-block indices with
// non-zero SINR, derived from a ChannelQualitySample.
type AllocationMap []int

// BuildAllocationMap derives the allocation map from the non-zero entries of
// the sample. An all-zero sample yields an empty map, which downstream code
// treats as "no transmission recommended" rather than an error.
func BuildAllocationMap(sample ChannelQualitySample) AllocationMap {
	alloc := make(AllocationMap, 0, len(sample))
	for i, sinr := range sample {
		if sinr != 0 {
			alloc = append(alloc, i)
		}
	}
	return alloc
}
