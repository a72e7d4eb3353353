//go:build linux

package profile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jaypipes/ghw"
)

const (
	amdVendorID = "1002"
	pciDevices  = "/sys/bus/pci/devices"
)

func platformGPUProbes() []gpuProbe {
	return []gpuProbe{
		{name: "amdgpu", run: probeAMDGPU},
		{name: "clinfo", run: probeClinfo},
	}
}

// probeAMDGPU reads the VRAM size the amdgpu driver exports for every AMD
// card ghw enumerates.
func probeAMDGPU(_ context.Context) (float64, error) {
	info, err := ghw.GPU()
	if err != nil {
		return 0, fmt.Errorf("enumerate gpus: %w", err)
	}

	var addresses []string
	for _, card := range info.GraphicsCards {
		if card.DeviceInfo == nil || card.DeviceInfo.Vendor == nil {
			continue
		}
		if card.DeviceInfo.Vendor.ID == amdVendorID {
			addresses = append(addresses, card.Address)
		}
	}
	if len(addresses) == 0 {
		return 0, nil
	}

	return sumSysfsVRAM(pciDevices, addresses)
}

func sumSysfsVRAM(root string, addresses []string) (float64, error) {
	var errs []error
	total := 0.0
	for _, addr := range addresses {
		gb, err := readSysfsVRAM(root, addr)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		total += gb
	}
	if total == 0 && len(errs) > 0 {
		return 0, errors.Join(errs...)
	}
	return total, nil
}

func readSysfsVRAM(root, address string) (float64, error) {
	raw, err := os.ReadFile(filepath.Join(root, address, "mem_info_vram_total"))
	if err != nil {
		return 0, err
	}
	bytes, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("vram of %s: %w", address, err)
	}
	return float64(bytes) / gib, nil
}
