package compare

import (
	"canirun/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func strongProfile() domain.LocalSystemProfile {
	return domain.LocalSystemProfile{
		FreeStorageGB: 500,
		CPUMaxFreqGHz: 3.6,
		CPUCoreCount:  12,
		GPUMemoryGB:   ptr(8),
		RAMGB:         31.9,
	}
}

func byName(t *testing.T, results []domain.ComponentResult, name string) domain.ComponentResult {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no result named %q", name)
	return domain.ComponentResult{}
}

func TestCompare_Order(t *testing.T) {
	results := Compare(strongProfile(), domain.RequirementRecord{})
	require.Len(t, results, 5)

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	assert.Equal(t, []string{
		domain.ComponentStorage,
		domain.ComponentCPUFreq,
		domain.ComponentCPUCores,
		domain.ComponentGPUMemory,
		domain.ComponentRAM,
	}, names)
}

func TestCompare_AllPass(t *testing.T) {
	rec := domain.RequirementRecord{
		StorageGB:    72,
		CPUFreqGHz:   ptr(2.4),
		CPUCoreCount: intPtr(4),
		GPUMemoryGB:  intPtr(2),
		RAMGB:        8,
	}

	results := Compare(strongProfile(), rec)
	for _, r := range results {
		assert.True(t, r.Passed, r.Name)
	}

	s := Summarize(results)
	assert.Equal(t, domain.VerdictFully, s.Verdict)
	assert.Equal(t, 5, s.Passed)
	assert.InDelta(t, 100, s.Percent, 1e-9)
	assert.Empty(t, Failed(results))
}

func TestStorage_AbsentRequirementAlwaysPasses(t *testing.T) {
	p := strongProfile()
	p.FreeStorageGB = 0

	r := byName(t, Compare(p, domain.RequirementRecord{StorageGB: 0}), domain.ComponentStorage)
	assert.True(t, r.Passed)
	assert.Zero(t, r.Percentage)
}

func TestStorage_NotEnoughSpace(t *testing.T) {
	p := strongProfile()
	p.FreeStorageGB = 50

	r := byName(t, Compare(p, domain.RequirementRecord{StorageGB: 100}), domain.ComponentStorage)
	assert.False(t, r.Passed)
	assert.InDelta(t, 50, r.Percentage, 1e-9)
}

func TestCPUFrequency_UnknownRequirementPasses(t *testing.T) {
	p := strongProfile()
	p.CPUMaxFreqGHz = 3.0

	r := byName(t, Compare(p, domain.RequirementRecord{CPUFreqGHz: nil}), domain.ComponentCPUFreq)
	assert.True(t, r.Passed)
	assert.Nil(t, r.RequiredValue)
	assert.Zero(t, r.Percentage)
}

func TestCPUFrequency_TooSlow(t *testing.T) {
	p := strongProfile()
	p.CPUMaxFreqGHz = 2.0

	r := byName(t, Compare(p, domain.RequirementRecord{CPUFreqGHz: ptr(3.2)}), domain.ComponentCPUFreq)
	assert.False(t, r.Passed)
	assert.InDelta(t, 62.5, r.Percentage, 1e-9)
}

func TestCPUCores(t *testing.T) {
	p := strongProfile()
	p.CPUCoreCount = 4

	assert.True(t, byName(t, Compare(p, domain.RequirementRecord{CPUCoreCount: intPtr(4)}), domain.ComponentCPUCores).Passed)
	assert.False(t, byName(t, Compare(p, domain.RequirementRecord{CPUCoreCount: intPtr(6)}), domain.ComponentCPUCores).Passed)
	assert.True(t, byName(t, Compare(p, domain.RequirementRecord{}), domain.ComponentCPUCores).Passed)
}

func TestGPUMemory(t *testing.T) {
	tests := []struct {
		name     string
		local    *float64
		required *int
		passed   bool
	}{
		{"unknown requirement", ptr(4), nil, true},
		{"unknown requirement and no gpu", nil, nil, true},
		{"enough memory", ptr(8), intPtr(6), true},
		{"not enough memory", ptr(4), intPtr(6), false},
		{"no local gpu", nil, intPtr(2), false},
		{"clock speed compared as memory", ptr(8), intPtr(1300), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := strongProfile()
			p.GPUMemoryGB = tt.local
			r := byName(t, Compare(p, domain.RequirementRecord{GPUMemoryGB: tt.required}), domain.ComponentGPUMemory)
			assert.Equal(t, tt.passed, r.Passed)
		})
	}
}

func TestGPUMemory_UnitTag(t *testing.T) {
	r := byName(t, Compare(strongProfile(), domain.RequirementRecord{GPUMemoryGB: intPtr(1300), GPUMemoryUnit: "MHz"}), domain.ComponentGPUMemory)
	assert.Equal(t, "MHz", r.Unit)

	r = byName(t, Compare(strongProfile(), domain.RequirementRecord{GPUMemoryGB: intPtr(4)}), domain.ComponentGPUMemory)
	assert.Equal(t, "GB", r.Unit)
}

// RAM keeps its historical rule: any stated requirement passes, even one the
// machine does not meet.
func TestRAM_PassesRegardlessOfLocalRAM(t *testing.T) {
	p := strongProfile()
	p.RAMGB = 2

	r := byName(t, Compare(p, domain.RequirementRecord{RAMGB: 16}), domain.ComponentRAM)
	assert.True(t, r.Passed)
	assert.InDelta(t, 12.5, r.Percentage, 1e-9)

	r = byName(t, Compare(p, domain.RequirementRecord{RAMGB: 0}), domain.ComponentRAM)
	assert.True(t, r.Passed)
}

func TestSummarize_Buckets(t *testing.T) {
	mk := func(passed int) []domain.ComponentResult {
		out := make([]domain.ComponentResult, 5)
		for i := range out {
			out[i].Passed = i < passed
		}
		return out
	}

	tests := []struct {
		passed  int
		verdict domain.Verdict
		percent float64
	}{
		{5, domain.VerdictFully, 100},
		{4, domain.VerdictMostly, 80},
		{3, domain.VerdictPartially, 60},
		{2, domain.VerdictNot, 40},
		{0, domain.VerdictNot, 0},
	}

	for _, tt := range tests {
		s := Summarize(mk(tt.passed))
		assert.Equal(t, tt.verdict, s.Verdict, "passed=%d", tt.passed)
		assert.InDelta(t, tt.percent, s.Percent, 1e-9, "passed=%d", tt.passed)
		assert.Equal(t, 5, s.Total)
	}
}

func TestPercentage(t *testing.T) {
	assert.InDelta(t, 100, Percentage(ptr(16), ptr(8)), 1e-9)
	assert.InDelta(t, 50, Percentage(ptr(4), ptr(8)), 1e-9)
	assert.Zero(t, Percentage(nil, ptr(8)))
	assert.Zero(t, Percentage(ptr(8), nil))
	assert.Zero(t, Percentage(ptr(8), ptr(0)))
}

func TestFailed(t *testing.T) {
	p := strongProfile()
	p.GPUMemoryGB = nil
	p.CPUCoreCount = 2

	results := Compare(p, domain.RequirementRecord{CPUCoreCount: intPtr(4), GPUMemoryGB: intPtr(4), RAMGB: 8})
	assert.Equal(t, []string{domain.ComponentCPUCores, domain.ComponentGPUMemory}, Failed(results))
	assert.Equal(t, domain.VerdictPartially, Summarize(results).Verdict)
}
