//go:build windows

package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/yusufpapurcu/wmi"
)

type win32VideoController struct {
	Name                 string
	AdapterCompatibility string
	AdapterRAM           uint32
}

func platformGPUProbes() []gpuProbe {
	return []gpuProbe{{name: "wmi", run: probeWMI}}
}

// probeWMI sums AdapterRAM over video controllers. NVIDIA adapters are
// skipped since nvidia-smi already reports them.
func probeWMI(_ context.Context) (float64, error) {
	var controllers []win32VideoController
	if err := wmi.Query("SELECT Name, AdapterCompatibility, AdapterRAM FROM Win32_VideoController", &controllers); err != nil {
		return 0, fmt.Errorf("query Win32_VideoController: %w", err)
	}

	total := 0.0
	for _, c := range controllers {
		if strings.Contains(strings.ToLower(c.AdapterCompatibility), "nvidia") {
			continue
		}
		total += float64(c.AdapterRAM) / gib
	}
	return total, nil
}
