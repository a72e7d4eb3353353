//go:build !linux && !windows

package profile

func platformGPUProbes() []gpuProbe {
	return nil
}
