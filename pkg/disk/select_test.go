package disk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectTarget(t *testing.T) {
	tests := []struct {
		name     string
		disks    map[string]uint64
		expected Target
		found    bool
	}{
		{
			name:  "empty input",
			disks: map[string]uint64{},
		},
		{
			name:  "nil input",
			disks: nil,
		},
		{
			name:  "no qualifying disk",
			disks: map[string]uint64{"sda": 1_000_000_000},
		},
		{
			name:  "exactly at threshold is rejected",
			disks: map[string]uint64{"sda": 2_147_483_648},
		},
		{
			name:     "one byte over threshold is selected",
			disks:    map[string]uint64{"sda": 2_147_483_649},
			expected: Target{Name: "sda", SizeBytes: 2_147_483_649},
			found:    true,
		},
		{
			name: "lexicographic tie-break skips small disks",
			disks: map[string]uint64{
				"sda": 2_000_000_000,
				"sdb": 3_221_225_472,
				"sdc": 5_368_709_120,
			},
			expected: Target{Name: "sdb", SizeBytes: 3_221_225_472},
			found:    true,
		},
		{
			name: "first qualifying name wins over larger disk",
			disks: map[string]uint64{
				"/dev/vdb":     100 << 30,
				"/dev/nvme0n1": 4 << 30,
			},
			expected: Target{Name: "/dev/nvme0n1", SizeBytes: 4 << 30},
			found:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, found := NewSelector().SelectTarget(tt.disks)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, target)
		})
	}
}

func TestSelectTarget_Deterministic(t *testing.T) {
	disks := map[string]uint64{}
	for _, name := range []string{"sdq", "sdc", "sdz", "sdb", "sdm", "sdk", "sdd"} {
		disks[name] = 8 << 30
	}

	s := NewSelector()
	first, ok := s.SelectTarget(disks)
	assert.True(t, ok)
	assert.Equal(t, "sdb", first.Name)

	// Map iteration order is randomized per range; repeat to exercise it.
	for i := 0; i < 100; i++ {
		again, ok := s.SelectTarget(disks)
		assert.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestSelectTarget_CustomThreshold(t *testing.T) {
	s := &Selector{MinSizeBytes: 10}
	disks := map[string]uint64{"a": 10, "b": 11}

	target, ok := s.SelectTarget(disks)
	assert.True(t, ok)
	assert.Equal(t, Target{Name: "b", SizeBytes: 11}, target)
}

func TestSelectTarget_DoesNotMutateInput(t *testing.T) {
	disks := map[string]uint64{"sda": 1, "sdb": 3 << 30}
	NewSelector().SelectTarget(disks)
	assert.Equal(t, map[string]uint64{"sda": 1, "sdb": 3 << 30}, disks)
}
