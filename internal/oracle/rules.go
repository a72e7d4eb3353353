package oracle

import (
	"canirun/internal/extract"
	"canirun/internal/units"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	coreCountPattern = regexp.MustCompile(`(\d+)\s*-?\s*(?:physical\s+|logical\s+)?cores?\b`)
	coreWordPattern  = regexp.MustCompile(`\b(single|dual|triple|quad|hexa|six|octa|eight|twelve|sixteen)[\s-]core\b`)
	coreDuoPattern   = regexp.MustCompile(`\bcore\s*2\s*(duo|quad)\b`)
	frequencyPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(ghz|mhz)\b`)
	vramPattern      = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(gb|mb)\b`)
	clockPattern     = regexp.MustCompile(`(\d+)\s*mhz\b`)
)

var coreWords = map[string]int{
	"single": 1, "dual": 2, "triple": 3, "quad": 4, "hexa": 6, "six": 6,
	"octa": 8, "eight": 8, "twelve": 12, "sixteen": 16, "duo": 2,
}

var cpuMarkers = []string{
	"intel", "amd", "ryzen", "core", "cpu", "processor", "pentium", "celeron",
	"xeon", "athlon", "phenom", "fx-", "ghz", "threadripper", "apple m",
}

var gpuMarkers = []string{
	"nvidia", "geforce", "gtx", "rtx", "radeon", "rx ", "arc ", "intel hd",
	"iris", "uhd", "graphics", "gpu", "vram", "video", "quadro", "titan",
	"vega", "directx", "opengl", "vulkan",
}

// Rules answers extraction requests with regular expressions instead of a
// language model. It follows the same contract as the prompts: the lowest
// value across listed parts, and "None" when nothing relevant is stated.
type Rules struct{}

func NewRules() Rules {
	return Rules{}
}

func (Rules) Extract(_ context.Context, req extract.Request) (string, error) {
	in := req.Input
	switch req.Kind {
	case extract.KindCPUCores:
		if !mentions(in, cpuMarkers) {
			return extract.UnknownToken, nil
		}
		return formatMin(cpuCores(in)), nil
	case extract.KindCPUFrequency:
		if !mentions(in, cpuMarkers) {
			return extract.UnknownToken, nil
		}
		return formatMin(cpuFrequencies(in)), nil
	case extract.KindGPUMemory:
		if !mentions(in, gpuMarkers) {
			return extract.UnknownToken, nil
		}
		if mem := gpuMemory(in); len(mem) > 0 {
			return formatMin(mem), nil
		}
		return formatMin(gpuClocks(in)), nil
	}
	return "", fmt.Errorf("rules oracle: unsupported kind %q", req.Kind)
}

func mentions(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func cpuCores(s string) []float64 {
	var out []float64
	for _, m := range coreCountPattern.FindAllStringSubmatch(s, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			out = append(out, float64(n))
		}
	}
	for _, m := range coreWordPattern.FindAllStringSubmatch(s, -1) {
		out = append(out, float64(coreWords[m[1]]))
	}
	for _, m := range coreDuoPattern.FindAllStringSubmatch(s, -1) {
		out = append(out, float64(coreWords[m[1]]))
	}
	return out
}

func cpuFrequencies(s string) []float64 {
	var out []float64
	for _, m := range frequencyPattern.FindAllStringSubmatch(s, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if ghz, err := units.FrequencyToGHz(v, m[2]); err == nil && ghz > 0 {
			out = append(out, ghz)
		}
	}
	return out
}

func gpuMemory(s string) []float64 {
	var out []float64
	for _, m := range vramPattern.FindAllStringSubmatch(s, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if gb, err := units.StorageOrRAMToGB(v, m[2]); err == nil {
			out = append(out, float64(units.RoundGB(gb)))
		}
	}
	return out
}

func gpuClocks(s string) []float64 {
	var out []float64
	for _, m := range clockPattern.FindAllStringSubmatch(s, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil {
			out = append(out, float64(n))
		}
	}
	return out
}

func formatMin(values []float64) string {
	if len(values) == 0 {
		return extract.UnknownToken
	}
	lowest := values[0]
	for _, v := range values[1:] {
		if v < lowest {
			lowest = v
		}
	}
	return strconv.FormatFloat(lowest, 'f', -1, 64)
}
