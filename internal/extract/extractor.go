package extract

import (
	"canirun/internal/units"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// gpuClockThreshold separates memory sizes from clock speeds in GPU answers.
// No consumer card has 128 GB of memory, and no GPU clock is below 128 MHz.
const gpuClockThreshold = 128

// Request is one extraction call. Prompt is the rendered instruction sent to
// a language model; Input is the normalized descriptor it was rendered from.
type Request struct {
	Kind   Kind
	Input  string
	Prompt string
}

// Oracle answers an extraction request with a bare number or "None".
// Implementations must be safe for concurrent use.
type Oracle interface {
	Extract(ctx context.Context, req Request) (string, error)
}

type Extractor struct {
	oracle Oracle
	logger zerolog.Logger
}

func New(oracle Oracle, logger zerolog.Logger) *Extractor {
	return &Extractor{oracle: oracle, logger: logger}
}

func (e *Extractor) CPUCores(ctx context.Context, text string) (*int, error) {
	v, known, err := e.extract(ctx, KindCPUCores, text)
	if err != nil || !known {
		return nil, err
	}
	cores := int(v)
	return &cores, nil
}

func (e *Extractor) CPUFrequencyGHz(ctx context.Context, text string) (*float64, error) {
	v, known, err := e.extract(ctx, KindCPUFrequency, text)
	if err != nil || !known {
		return nil, err
	}
	return &v, nil
}

// GPUMemory returns the GPU memory figure and the unit it most likely carries.
// The number is kept as the oracle gave it even when it looks like a clock.
func (e *Extractor) GPUMemory(ctx context.Context, text string) (*int, string, error) {
	v, known, err := e.extract(ctx, KindGPUMemory, text)
	if err != nil || !known {
		return nil, "", err
	}
	mem := int(v)
	unit := units.GB
	if mem >= gpuClockThreshold {
		unit = units.MHz
		e.logger.Warn().Int("value", mem).Msg("gpu answer looks like a clock speed, comparing it as memory")
	}
	return &mem, unit, nil
}

func (e *Extractor) extract(ctx context.Context, kind Kind, text string) (float64, bool, error) {
	input := Normalize(text)
	if input == "" {
		return 0, false, nil
	}

	prompt, err := Prompt(kind, input)
	if err != nil {
		return 0, false, err
	}

	e.logger.Debug().Str("kind", string(kind)).Str("input", input).Msg("extracting requirement")

	reply, err := e.oracle.Extract(ctx, Request{Kind: kind, Input: input, Prompt: prompt})
	if err != nil {
		return 0, false, fmt.Errorf("oracle %s: %w", kind, err)
	}

	v, known, err := ParseReply(kind, reply)
	if err != nil {
		e.logger.Error().Err(err).Str("kind", string(kind)).Str("reply", reply).Msg("unusable oracle reply")
		return 0, false, err
	}

	e.logger.Debug().Str("kind", string(kind)).Bool("known", known).Float64("value", v).Msg("requirement extracted")
	return v, known, nil
}
