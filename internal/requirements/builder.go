package requirements

import (
	"canirun/internal/domain"
	"canirun/internal/units"
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// FieldExtractor turns free-form CPU and GPU text into numbers. A nil result
// means the value is unknown.
type FieldExtractor interface {
	CPUCores(ctx context.Context, text string) (*int, error)
	CPUFrequencyGHz(ctx context.Context, text string) (*float64, error)
	GPUMemory(ctx context.Context, text string) (*int, string, error)
}

type Builder struct {
	extractor FieldExtractor
	parallel  bool
	logger    zerolog.Logger
}

func NewBuilder(extractor FieldExtractor, parallel bool, logger zerolog.Logger) *Builder {
	return &Builder{extractor: extractor, parallel: parallel, logger: logger}
}

// Build turns one tier's requirement markup into a record. Missing memory or
// storage means no requirement (0); missing CPU or GPU text means unknown.
func (b *Builder) Build(ctx context.Context, markup string, tier domain.Tier) (*domain.RequirementRecord, error) {
	fields, err := ParseFields(markup)
	if err != nil {
		return nil, err
	}
	fields = Canonical(fields)

	b.logger.Debug().Str("tier", string(tier)).Int("fields", len(fields)).Msg("parsed requirement fields")

	rec := &domain.RequirementRecord{
		Tier:      tier,
		RAMGB:     b.sizeField(fields, FieldMemory),
		StorageGB: b.sizeField(fields, FieldStorage),
	}

	cpuText := fields[FieldProcessor]
	gpuText := fields[FieldGraphics]

	if b.parallel {
		err = b.extractParallel(ctx, rec, cpuText, gpuText)
	} else {
		err = b.extractSequential(ctx, rec, cpuText, gpuText)
	}
	if err != nil {
		return nil, err
	}

	return rec, nil
}

func (b *Builder) sizeField(fields map[string]string, name string) int {
	text, ok := fields[name]
	if !ok {
		return 0
	}

	gb, err := units.ParseGB(text)
	if err != nil {
		b.logger.Debug().Err(err).Str("field", name).Str("text", text).Msg("unparseable size, treating as no requirement")
		return 0
	}
	return gb
}

func (b *Builder) extractSequential(ctx context.Context, rec *domain.RequirementRecord, cpuText, gpuText string) error {
	var err error
	if cpuText != "" {
		if rec.CPUFreqGHz, err = b.extractor.CPUFrequencyGHz(ctx, cpuText); err != nil {
			return err
		}
		if rec.CPUCoreCount, err = b.extractor.CPUCores(ctx, cpuText); err != nil {
			return err
		}
	}
	if gpuText != "" {
		if rec.GPUMemoryGB, rec.GPUMemoryUnit, err = b.extractor.GPUMemory(ctx, gpuText); err != nil {
			return err
		}
	}
	return nil
}

// extractParallel issues the oracle calls concurrently. Each goroutine writes
// a distinct record field.
func (b *Builder) extractParallel(ctx context.Context, rec *domain.RequirementRecord, cpuText, gpuText string) error {
	g, gctx := errgroup.WithContext(ctx)

	if cpuText != "" {
		g.Go(func() error {
			v, err := b.extractor.CPUFrequencyGHz(gctx, cpuText)
			rec.CPUFreqGHz = v
			return err
		})
		g.Go(func() error {
			v, err := b.extractor.CPUCores(gctx, cpuText)
			rec.CPUCoreCount = v
			return err
		})
	}
	if gpuText != "" {
		g.Go(func() error {
			v, unit, err := b.extractor.GPUMemory(gctx, gpuText)
			rec.GPUMemoryGB, rec.GPUMemoryUnit = v, unit
			return err
		})
	}

	return g.Wait()
}
