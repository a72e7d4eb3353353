package profile

import (
	"canirun/internal/domain"
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const gib = 1 << 30

// Provider reads the hardware of the machine it runs on.
type Provider struct {
	logger    zerolog.Logger
	gpuProbes []gpuProbe
}

func NewProvider(logger zerolog.Logger) *Provider {
	probes := append([]gpuProbe{{name: "nvidia-smi", run: probeNvidiaSMI}}, platformGPUProbes()...)
	return &Provider{
		logger:    logger,
		gpuProbes: probes,
	}
}

// GetLocalProfile collects storage, CPU, GPU and RAM figures. GPU memory is
// best effort and nil when no probe reports any.
func (p *Provider) GetLocalProfile(ctx context.Context) (*domain.LocalSystemProfile, error) {
	storage, err := p.freeStorageGB(ctx)
	if err != nil {
		return nil, fmt.Errorf("free storage: %w", err)
	}

	freq, err := maxCPUFrequencyGHz(ctx)
	if err != nil {
		return nil, fmt.Errorf("cpu frequency: %w", err)
	}

	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("cpu cores: %w", err)
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("memory: %w", err)
	}

	profile := &domain.LocalSystemProfile{
		FreeStorageGB: storage,
		CPUMaxFreqGHz: freq,
		CPUCoreCount:  cores,
		GPUMemoryGB:   p.gpuMemoryGB(ctx),
		RAMGB:         round2(float64(vm.Total) / gib),
	}

	evt := p.logger.Debug().
		Float64("storage_gb", profile.FreeStorageGB).
		Float64("cpu_ghz", profile.CPUMaxFreqGHz).
		Int("cores", profile.CPUCoreCount).
		Float64("ram_gb", profile.RAMGB)
	if profile.GPUMemoryGB != nil {
		evt = evt.Float64("gpu_gb", *profile.GPUMemoryGB)
	}
	evt.Msg("local profile collected")

	return profile, nil
}

// freeStorageGB sums free space over physical partitions, each rounded to a
// whole GB. Partitions we cannot stat are skipped.
func (p *Provider) freeStorageGB(ctx context.Context) (float64, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool)
	total := 0.0
	for _, partition := range partitions {
		if shouldSkipFilesystem(partition.Fstype) || seen[partition.Device] {
			continue
		}
		seen[partition.Device] = true

		usage, err := disk.UsageWithContext(ctx, partition.Mountpoint)
		if err != nil {
			p.logger.Debug().Err(err).Str("mountpoint", partition.Mountpoint).Msg("skipping partition")
			continue
		}
		total += math.Round(float64(usage.Free) / gib)
	}
	return total, nil
}

func maxCPUFrequencyGHz(ctx context.Context) (float64, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return 0, err
	}

	maxMHz := 0.0
	for _, info := range infos {
		maxMHz = math.Max(maxMHz, info.Mhz)
	}
	return maxMHz / 1000, nil
}

func shouldSkipFilesystem(fstype string) bool {
	skipTypes := map[string]bool{
		"tmpfs":    true,
		"devtmpfs": true,
		"devfs":    true,
		"proc":     true,
		"sysfs":    true,
		"cgroup":   true,
		"cgroup2":  true,
		"nsfs":     true,
		"overlay":  true,
		"squashfs": true,
		"iso9660":  true,
		"autofs":   true,
	}

	return skipTypes[fstype]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
