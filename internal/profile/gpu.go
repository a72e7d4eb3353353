package profile

import (
	"bufio"
	"canirun/internal/constants"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

type gpuProbe struct {
	name string
	run  func(ctx context.Context) (float64, error)
}

// gpuMemoryGB sums what every probe reports. A failing probe is logged and
// does not stop the others.
func (p *Provider) gpuMemoryGB(ctx context.Context) *float64 {
	total := 0.0
	for _, probe := range p.gpuProbes {
		gb, err := probe.run(ctx)
		if err != nil {
			p.logger.Debug().Err(err).Str("probe", probe.name).Msg("gpu probe failed")
			continue
		}
		p.logger.Debug().Str("probe", probe.name).Float64("gb", gb).Msg("gpu probe")
		total += gb
	}

	if total <= 0 {
		return nil
	}
	total = round2(total)
	return &total
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return string(out), nil
}

func probeNvidiaSMI(ctx context.Context) (float64, error) {
	out, err := runCommand(ctx, "nvidia-smi", "--query-gpu=memory.total", "--format=csv,noheader,nounits")
	if err != nil {
		return 0, err
	}
	return parseNvidiaSMI(out)
}

// parseNvidiaSMI sums the per-device MiB lines of a memory.total query.
func parseNvidiaSMI(out string) (float64, error) {
	totalMiB := 0.0
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		mib, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return 0, fmt.Errorf("nvidia-smi line %q: %w", line, err)
		}
		totalMiB += mib
	}
	return totalMiB / 1024, nil
}

func probeClinfo(ctx context.Context) (float64, error) {
	out, err := runCommand(ctx, "clinfo")
	if err != nil {
		return 0, err
	}
	return parseClinfo(out), nil
}

var (
	clinfoGPUType    = regexp.MustCompile(`Device Type:?\s+GPU`)
	clinfoGlobalMem  = regexp.MustCompile(`Global memory size:?\s+(\d+)`)
	clinfoVendorLine = regexp.MustCompile(`Device Vendor:?\s+(.+)`)
)

// parseClinfo sums global memory of OpenCL GPU devices. NVIDIA and AMD cards
// are left to their own probes so they are not counted twice.
func parseClinfo(out string) float64 {
	total := 0.0
	for _, block := range strings.Split(out, "Device Name")[1:] {
		if !clinfoGPUType.MatchString(block) {
			continue
		}
		if m := clinfoVendorLine.FindStringSubmatch(block); m != nil && coveredVendor(m[1]) {
			continue
		}
		m := clinfoGlobalMem.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		bytes, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		total += bytes / gib
	}
	return total
}

func coveredVendor(vendor string) bool {
	v := strings.ToLower(vendor)
	return strings.Contains(v, "nvidia") || strings.Contains(v, "advanced micro devices") || strings.HasPrefix(v, "amd")
}
