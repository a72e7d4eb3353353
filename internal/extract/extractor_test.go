package extract

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOracle struct {
	mu       sync.Mutex
	replies  map[Kind]string
	err      error
	requests []Request
}

func (f *fakeOracle) Extract(_ context.Context, req Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.replies[req.Kind], nil
}

func newExtractor(o Oracle) *Extractor {
	return New(o, zerolog.Nop())
}

func TestCPUCores_MinimumAcrossCPUs(t *testing.T) {
	o := &fakeOracle{replies: map[Kind]string{KindCPUCores: "4"}}
	e := newExtractor(o)

	cores, err := e.CPUCores(context.Background(), "Intel Core i5 (4 cores) / AMD Ryzen 7 (8 cores)")
	require.NoError(t, err)
	require.NotNil(t, cores)
	assert.Equal(t, 4, *cores)

	require.Len(t, o.requests, 1)
	assert.Equal(t, KindCPUCores, o.requests[0].Kind)
	assert.Equal(t, "intel core i5 (4 cores) / amd ryzen 7 (8 cores)", o.requests[0].Input)
	assert.Contains(t, o.requests[0].Prompt, "lowest number of cores")
	assert.Contains(t, o.requests[0].Prompt, "Input: 'intel core i5 (4 cores) / amd ryzen 7 (8 cores)'")
}

func TestCPUCores_NoneIsUnknown(t *testing.T) {
	for _, reply := range []string{"None", "none", "NONE", "  None.\n"} {
		e := newExtractor(&fakeOracle{replies: map[Kind]string{KindCPUCores: reply}})

		cores, err := e.CPUCores(context.Background(), "nvidia rtx 3080")
		require.NoError(t, err, reply)
		assert.Nil(t, cores, reply)
	}
}

func TestCPUCores_TrailingProse(t *testing.T) {
	e := newExtractor(&fakeOracle{replies: map[Kind]string{KindCPUCores: "the answer is 6 cores"}})

	cores, err := e.CPUCores(context.Background(), "amd ryzen 5 5600x with 6 cores")
	require.NoError(t, err)
	require.NotNil(t, cores)
	assert.Equal(t, 6, *cores)
}

func TestCPUFrequency_Decimal(t *testing.T) {
	e := newExtractor(&fakeOracle{replies: map[Kind]string{KindCPUFrequency: "3.6 GHz."}})

	ghz, err := e.CPUFrequencyGHz(context.Background(), "intel core i7-9700k 3.6ghz")
	require.NoError(t, err)
	require.NotNil(t, ghz)
	assert.InDelta(t, 3.6, *ghz, 1e-9)
}

func TestGPUMemory(t *testing.T) {
	e := newExtractor(&fakeOracle{replies: map[Kind]string{KindGPUMemory: "2"}})

	mem, unit, err := e.GPUMemory(context.Background(), "2x RTX 2080 Ti 11GB, 1x GTX 1050 2GB")
	require.NoError(t, err)
	require.NotNil(t, mem)
	assert.Equal(t, 2, *mem)
	assert.Equal(t, "GB", unit)
}

func TestGPUMemory_ClockIsTagged(t *testing.T) {
	e := newExtractor(&fakeOracle{replies: map[Kind]string{KindGPUMemory: "1300"}})

	mem, unit, err := e.GPUMemory(context.Background(), "geforce gtx 960, 1300 mhz")
	require.NoError(t, err)
	require.NotNil(t, mem)
	assert.Equal(t, 1300, *mem)
	assert.Equal(t, "MHz", unit)
}

func TestGPUMemory_NotAGPU(t *testing.T) {
	e := newExtractor(&fakeOracle{replies: map[Kind]string{KindGPUMemory: "None"}})

	mem, unit, err := e.GPUMemory(context.Background(), "intel core i7")
	require.NoError(t, err)
	assert.Nil(t, mem)
	assert.Empty(t, unit)
}

func TestExtract_GibberishIsExtractionError(t *testing.T) {
	e := newExtractor(&fakeOracle{replies: map[Kind]string{KindCPUCores: "I cannot tell."}})

	cores, err := e.CPUCores(context.Background(), "some cpu")
	assert.Nil(t, cores)

	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindCPUCores, ee.Kind)
	assert.Equal(t, "I cannot tell.", ee.Reply)
}

func TestExtract_HugeReplyIsExtractionError(t *testing.T) {
	e := newExtractor(&fakeOracle{replies: map[Kind]string{
		KindCPUCores:  "99999999999999999999",
		KindGPUMemory: "99999999999999999999",
	}})

	cores, err := e.CPUCores(context.Background(), "some cpu")
	assert.Nil(t, cores)
	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindCPUCores, ee.Kind)

	mem, unit, err := e.GPUMemory(context.Background(), "some gpu")
	assert.Nil(t, mem)
	assert.Empty(t, unit)
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, KindGPUMemory, ee.Kind)
}

func TestExtract_EmptyInputSkipsOracle(t *testing.T) {
	o := &fakeOracle{}
	e := newExtractor(o)

	cores, err := e.CPUCores(context.Background(), "  Better  ")
	require.NoError(t, err)
	assert.Nil(t, cores)
	assert.Empty(t, o.requests)
}

func TestExtract_OracleErrorIsWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	e := newExtractor(&fakeOracle{err: boom})

	_, err := e.CPUFrequencyGHz(context.Background(), "intel core i5")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var ee *ExtractionError
	assert.False(t, errors.As(err, &ee))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Intel Core i5-8250U or Better ", "intel core i5-8250u or"},
		{"AMD\tRyzen\n5", "amd ryzen 5"},
		{"Core i7 'Ivy'\x00 Bridge\x1b[0m", "core i7 ivy bridge[0m"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestPrompt_AllKinds(t *testing.T) {
	for _, kind := range []Kind{KindCPUCores, KindCPUFrequency, KindGPUMemory} {
		p, err := Prompt(kind, "geforce gtx 1060 6gb")
		require.NoError(t, err, kind)
		assert.Contains(t, p, "Input: 'geforce gtx 1060 6gb'", kind)
		assert.True(t, strings.Contains(p, "'None'"), kind)
	}

	_, err := Prompt(Kind("ram"), "x")
	assert.Error(t, err)
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		kind  Kind
		reply string
		value float64
		known bool
	}{
		{KindCPUCores, "8", 8, true},
		{KindCPUCores, "6 cores", 6, true},
		{KindCPUCores, "None", 0, false},
		{KindCPUFrequency, "3.5", 3.5, true},
		{KindCPUFrequency, "approx 2.8GHz", 2.8, true},
		{KindGPUMemory, "6gb", 6, true},
		{KindGPUMemory, "1.5", 1, true},
		{KindGPUMemory, "none of the above", 0, false},
	}

	for _, tt := range tests {
		v, known, err := ParseReply(tt.kind, tt.reply)
		require.NoError(t, err, tt.reply)
		assert.Equal(t, tt.known, known, tt.reply)
		assert.InDelta(t, tt.value, v, 1e-9, tt.reply)
	}
}

func TestParseReply_OutOfRange(t *testing.T) {
	for _, reply := range []string{"99999999999999999999", "2147483648", strings.Repeat("9", 400)} {
		_, known, err := ParseReply(KindGPUMemory, reply)
		assert.False(t, known, reply)

		var ee *ExtractionError
		assert.ErrorAs(t, err, &ee, reply)
	}

	v, known, err := ParseReply(KindCPUCores, "2147483647")
	require.NoError(t, err)
	assert.True(t, known)
	assert.InDelta(t, 2147483647, v, 1e-9)
}
