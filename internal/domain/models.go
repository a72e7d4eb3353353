package domain

import (
	"errors"
	"fmt"
	"strings"
)

type Tier string

const (
	TierMinimum     Tier = "minimum"
	TierRecommended Tier = "recommended"
)

var ErrUnknownTier = errors.New("unknown tier")

// ParseTier accepts the tier names, their short forms, and the 1/2 menu
// choices of the interactive prompt.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimum", "min", "1", "":
		return TierMinimum, nil
	case "recommended", "rec", "2":
		return TierRecommended, nil
	}
	return "", fmt.Errorf("%w %q: want minimum or recommended", ErrUnknownTier, s)
}

// LocalSystemProfile is produced once per run and never modified.
type LocalSystemProfile struct {
	FreeStorageGB float64  `json:"free_storage_gb"`
	CPUMaxFreqGHz float64  `json:"cpu_max_freq_ghz"`
	CPUCoreCount  int      `json:"cpu_core_count"`
	GPUMemoryGB   *float64 `json:"gpu_memory_gb"` // nil when no GPU memory could be detected
	RAMGB         float64  `json:"ram_gb"`
}

// RequirementRecord holds one tier of a game's requirements. Nil pointers mean
// the requirement is unknown and must not constrain the comparison.
type RequirementRecord struct {
	Tier          Tier     `json:"tier"`
	StorageGB     int      `json:"storage_gb"`
	CPUFreqGHz    *float64 `json:"cpu_freq_ghz"`
	CPUCoreCount  *int     `json:"cpu_core_count"`
	GPUMemoryGB   *int     `json:"gpu_memory_gb"`
	GPUMemoryUnit string   `json:"gpu_memory_unit,omitempty"` // "GB", or "MHz" when the value looks like a clock
	RAMGB         int      `json:"ram_gb"`
}

const (
	ComponentStorage   = "Storage Space"
	ComponentCPUFreq   = "CPU Frequency"
	ComponentCPUCores  = "CPU Cores"
	ComponentGPUMemory = "GPU Memory"
	ComponentRAM       = "RAM Memory"
)

type ComponentResult struct {
	Name          string   `json:"name"`
	Passed        bool     `json:"passed"`
	YourValue     *float64 `json:"your_value"`
	RequiredValue *float64 `json:"required_value"`
	Unit          string   `json:"unit"`
	Percentage    float64  `json:"percentage"`
}

type Verdict string

const (
	VerdictFully     Verdict = "fully compatible"
	VerdictMostly    Verdict = "mostly compatible"
	VerdictPartially Verdict = "partially compatible"
	VerdictNot       Verdict = "not compatible"
)

type Summary struct {
	Passed  int     `json:"passed"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	Verdict Verdict `json:"verdict"`
}

type Report struct {
	CheckID      string             `json:"check_id"`
	AppID        string             `json:"app_id"`
	GameName     string             `json:"game_name"`
	Tier         Tier               `json:"tier"`
	Profile      LocalSystemProfile `json:"profile"`
	Requirements RequirementRecord  `json:"requirements"`
	Results      []ComponentResult  `json:"results"`
	Summary      Summary            `json:"summary"`
	Failed       []string           `json:"failed,omitempty"`
}
