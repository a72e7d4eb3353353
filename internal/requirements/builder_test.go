package requirements

import (
	"canirun/internal/domain"
	"canirun/internal/extract"
	"canirun/internal/oracle"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gtaMinimum = `<strong>Minimum:</strong><br><ul class="bb_ul">
<li><strong>OS:</strong> Windows 10 64 Bit<br></li>
<li><strong>Processor:</strong> Intel Core 2 Quad CPU Q6600 @ 2.40GHz (4 CPUs) / AMD Phenom 9850 Quad-Core Processor (4 CPUs) @ 2.5GHz<br></li>
<li><strong>Memory:</strong> 4 GB RAM<br></li>
<li><strong>Graphics:</strong> NVIDIA 9800 GT 1GB / AMD HD 4870 1GB (DX 10, 10.1, 11)<br></li>
<li><strong>Storage:</strong> 72 GB available space<br></li>
<li><strong>Sound Card:</strong> 100% DirectX 10 compatible</li>
<li>Requires a 64-bit processor and operating system</li>
</ul>`

type recordingExtractor struct {
	mu    sync.Mutex
	calls []string
	cores *int
	freq  *float64
	gpu   *int
	err   error
}

func (r *recordingExtractor) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *recordingExtractor) CPUCores(_ context.Context, _ string) (*int, error) {
	r.record("cores")
	return r.cores, r.err
}

func (r *recordingExtractor) CPUFrequencyGHz(_ context.Context, _ string) (*float64, error) {
	r.record("freq")
	return r.freq, r.err
}

func (r *recordingExtractor) GPUMemory(_ context.Context, _ string) (*int, string, error) {
	r.record("gpu")
	if r.gpu == nil {
		return nil, "", r.err
	}
	return r.gpu, "GB", r.err
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestParseFields(t *testing.T) {
	fields, err := ParseFields(gtaMinimum)
	require.NoError(t, err)

	assert.Equal(t, "windows 10 64 bit", fields["os"])
	assert.Equal(t, "4 gb ram", fields["memory"])
	assert.Equal(t, "72 gb available space", fields["storage"])
	assert.Equal(t, "100% directx 10 compatible", fields["sound card"])
	assert.Contains(t, fields["processor"], "intel core 2 quad cpu q6600")
	assert.Contains(t, fields["graphics"], "nvidia 9800 gt 1gb")
	assert.Len(t, fields, 6, "unlabelled items are ignored")
}

func TestParseFields_Empty(t *testing.T) {
	fields, err := ParseFields("")
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestCanonical_Aliases(t *testing.T) {
	fields := Canonical(map[string]string{
		"hard drive": "20 gb",
		"video card": "geforce 8800",
		"os":         "windows xp",
	})

	assert.Equal(t, "20 gb", fields[FieldStorage])
	assert.Equal(t, "geforce 8800", fields[FieldGraphics])
	assert.Equal(t, "windows xp", fields["os"])
}

func TestCanonical_CanonicalLabelWins(t *testing.T) {
	fields := Canonical(map[string]string{
		"graphics":   "rtx 2060 6gb",
		"video card": "gtx 970",
	})
	assert.Equal(t, "rtx 2060 6gb", fields[FieldGraphics])
}

func TestCanonical_AliasOrderIsStable(t *testing.T) {
	in := map[string]string{
		"video card": "gtx 960 2 gb",
		"video":      "radeon 4 gb",
		"ram":        "8 gb",
		"disk space": "10 gb",
		"hard drive": "20 gb",
	}
	for range 100 {
		fields := Canonical(in)
		assert.Equal(t, "gtx 960 2 gb", fields[FieldGraphics])
		assert.Equal(t, "8 gb", fields[FieldMemory])
		assert.Equal(t, "20 gb", fields[FieldStorage])
		assert.Len(t, fields, 3)
	}
}

func TestParseFields_RepeatedLabelKeepsLast(t *testing.T) {
	fields, err := ParseFields(`<ul><li><strong>Memory:</strong> 4 GB RAM</li><li><strong>Memory:</strong> 8 GB RAM</li></ul>`)
	require.NoError(t, err)
	assert.Equal(t, "8 gb ram", fields[FieldMemory])
}

func TestBuild(t *testing.T) {
	ex := &recordingExtractor{cores: intPtr(4), freq: floatPtr(2.4), gpu: intPtr(1)}
	b := NewBuilder(ex, false, zerolog.Nop())

	rec, err := b.Build(context.Background(), gtaMinimum, domain.TierMinimum)
	require.NoError(t, err)

	assert.Equal(t, domain.TierMinimum, rec.Tier)
	assert.Equal(t, 4, rec.RAMGB)
	assert.Equal(t, 72, rec.StorageGB)
	require.NotNil(t, rec.CPUCoreCount)
	assert.Equal(t, 4, *rec.CPUCoreCount)
	require.NotNil(t, rec.CPUFreqGHz)
	assert.InDelta(t, 2.4, *rec.CPUFreqGHz, 1e-9)
	require.NotNil(t, rec.GPUMemoryGB)
	assert.Equal(t, 1, *rec.GPUMemoryGB)
	assert.Equal(t, "GB", rec.GPUMemoryUnit)
	assert.Equal(t, []string{"freq", "cores", "gpu"}, ex.calls)
}

func TestBuild_MegabytesRound(t *testing.T) {
	markup := `<ul><li><strong>Memory:</strong> 512 MB RAM</li><li><strong>Storage:</strong> 512 MB available space</li></ul>`
	b := NewBuilder(&recordingExtractor{}, false, zerolog.Nop())

	rec, err := b.Build(context.Background(), markup, domain.TierMinimum)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.StorageGB)
	assert.Equal(t, 1, rec.RAMGB)
}

func TestBuild_MissingFields(t *testing.T) {
	ex := &recordingExtractor{cores: intPtr(8)}
	b := NewBuilder(ex, false, zerolog.Nop())

	rec, err := b.Build(context.Background(), `<ul><li><strong>OS:</strong> Windows 11</li></ul>`, domain.TierRecommended)
	require.NoError(t, err)

	assert.Equal(t, 0, rec.StorageGB)
	assert.Equal(t, 0, rec.RAMGB)
	assert.Nil(t, rec.CPUCoreCount)
	assert.Nil(t, rec.CPUFreqGHz)
	assert.Nil(t, rec.GPUMemoryGB)
	assert.Empty(t, ex.calls, "extractor must not run without cpu or gpu text")
}

func TestBuild_UnparseableSizeIsZero(t *testing.T) {
	markup := `<ul><li><strong>Storage:</strong> a lot</li><li><strong>Hard Drive:</strong> 1 TB</li></ul>`
	rec, err := NewBuilder(&recordingExtractor{}, false, zerolog.Nop()).Build(context.Background(), markup, domain.TierMinimum)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.StorageGB, "the storage label wins over its alias")

	markup = `<ul><li><strong>Hard Drive:</strong> 1 TB</li></ul>`
	rec, err = NewBuilder(&recordingExtractor{}, false, zerolog.Nop()).Build(context.Background(), markup, domain.TierMinimum)
	require.NoError(t, err)
	assert.Equal(t, 1024, rec.StorageGB)
}

func TestBuild_ExtractionErrorPropagates(t *testing.T) {
	ee := &extract.ExtractionError{Kind: extract.KindCPUFrequency, Reply: "no idea"}
	b := NewBuilder(&recordingExtractor{err: ee}, false, zerolog.Nop())

	_, err := b.Build(context.Background(), gtaMinimum, domain.TierMinimum)
	var got *extract.ExtractionError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, "no idea", got.Reply)
}

func TestBuild_Parallel(t *testing.T) {
	ex := &recordingExtractor{cores: intPtr(4), freq: floatPtr(2.4), gpu: intPtr(1)}
	b := NewBuilder(ex, true, zerolog.Nop())

	rec, err := b.Build(context.Background(), gtaMinimum, domain.TierMinimum)
	require.NoError(t, err)
	assert.Equal(t, 4, *rec.CPUCoreCount)
	assert.InDelta(t, 2.4, *rec.CPUFreqGHz, 1e-9)
	assert.Equal(t, 1, *rec.GPUMemoryGB)
	assert.ElementsMatch(t, []string{"freq", "cores", "gpu"}, ex.calls)
}

func TestBuild_WithRulesOracle(t *testing.T) {
	ex := extract.New(oracle.NewRules(), zerolog.Nop())
	b := NewBuilder(ex, false, zerolog.Nop())

	rec, err := b.Build(context.Background(), gtaMinimum, domain.TierMinimum)
	require.NoError(t, err)

	require.NotNil(t, rec.CPUFreqGHz)
	assert.InDelta(t, 2.4, *rec.CPUFreqGHz, 1e-9)
	require.NotNil(t, rec.CPUCoreCount)
	assert.Equal(t, 4, *rec.CPUCoreCount)
	require.NotNil(t, rec.GPUMemoryGB)
	assert.Equal(t, 1, *rec.GPUMemoryGB)
}
