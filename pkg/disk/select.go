package disk

import "sort"

// DefaultMinSizeBytes is the capacity a disk must exceed to be installed to.
const DefaultMinSizeBytes uint64 = 2 * 1024 * 1024 * 1024

// Selector picks the installation target from an enumerated disk set.
type Selector struct {
	// MinSizeBytes is exclusive: a disk of exactly this size is rejected.
	MinSizeBytes uint64
}

// NewSelector creates a Selector with the default threshold.
func NewSelector() *Selector {
	return &Selector{MinSizeBytes: DefaultMinSizeBytes}
}

// SelectTarget returns the lexicographically first disk whose size exceeds
// the threshold. The second result is false when no disk qualifies.
func (s *Selector) SelectTarget(disks map[string]uint64) (Target, bool) {
	names := make([]string, 0, len(disks))
	for name := range disks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if size := disks[name]; size > s.MinSizeBytes {
			return Target{Name: name, SizeBytes: size}, true
		}
	}
	return Target{}, false
}
