package parse

import (
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/kernsecbench/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStreamParser() *StreamParser {
	return NewStreamParser(NewClassifier(DefaultScalarPatterns()), DefaultStreamTitles())
}

func key(family string) domain.StreamKey {
	return domain.StreamKey{Family: family}
}

func TestStreamParser_BlankLineClosesStream(t *testing.T) {
	p := newTestStreamParser()
	lines := strings.Split("Memory read bandwidth\n1 100\n2 200\n\n3 300\n", "\n")

	streams, err := p.Parse(lines)
	require.NoError(t, err)
	require.Len(t, streams, 1)
	assert.Equal(t, key("mem_read_bw"), streams[0].Key)
	assert.Equal(t, []domain.Point{domain.Point2(1, 100), domain.Point2(2, 200)}, streams[0].Points)
}

func TestStreamParser_Transitions(t *testing.T) {
	p := newTestStreamParser()
	in := InStream(key("mem_read_bw"))

	tests := []struct {
		name   string
		state  State
		line   string
		next   State
		action Action
	}{
		{"blank closes", in, "   ", Idle, ActionNone},
		{"scalar closes", in, "Simple syscall: 0.0464 microseconds", Idle, ActionNone},
		{"header opens", Idle, "Memory write bandwidth", InStream(key("mem_write_bw")), ActionOpen},
		{"quoted header opens", Idle, `"Mmap read bandwidth`, InStream(key("mmap_read_bw")), ActionOpen},
		{"header switches stream", in, "libc bcopy aligned", InStream(key("libc_bcopy_aligned")), ActionOpen},
		{"row appends", in, "0.000512 32409.27", in, ActionAppend},
		{"row while idle ignored", Idle, "1 2", Idle, ActionNone},
		{"garbage closes", in, "lmbench done", Idle, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := p.Step(tt.state, tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.next, tr.Next)
			assert.Equal(t, tt.action, tr.Action)
		})
	}
}

func TestStreamParser_Tables(t *testing.T) {
	p := newTestStreamParser()

	t.Run("three column rows", func(t *testing.T) {
		streams, err := p.Parse([]string{"File system latency", "1 2 3"})
		require.NoError(t, err)
		s, ok := streams.Get(key("fs_latency"))
		require.True(t, ok)
		assert.Equal(t, []domain.Point{domain.Point3(1, 2, 3)}, s.Points)
		assert.False(t, s.TwoColumn())
	})

	t.Run("offending line is not reprocessed", func(t *testing.T) {
		streams, err := p.Parse([]string{"Memory read bandwidth", "1 2", "oops", "3 4"})
		require.NoError(t, err)
		assert.Equal(t, []domain.Point{domain.Point2(1, 2)}, streams[0].Points)
	})

	t.Run("header without rows yields empty stream", func(t *testing.T) {
		streams, err := p.Parse([]string{"Memory read bandwidth", "", "Memory write bandwidth", "1 2"})
		require.NoError(t, err)
		require.Len(t, streams, 2)
		assert.Empty(t, streams[0].Points)
		assert.Len(t, streams.NonEmpty(), 1)
	})

	t.Run("repeated header resets points", func(t *testing.T) {
		streams, err := p.Parse([]string{
			"Memory read bandwidth", "1 2",
			"Memory write bandwidth", "5 6",
			"Memory read bandwidth", "3 4",
		})
		require.NoError(t, err)
		require.Len(t, streams, 2)
		assert.Equal(t, key("mem_read_bw"), streams[0].Key)
		assert.Equal(t, []domain.Point{domain.Point2(3, 4)}, streams[0].Points)
	})

	t.Run("parameterized headers stay distinct", func(t *testing.T) {
		streams, err := p.Parse([]string{
			`"size=0k ovr=1.20`, "0.00049 1.216", "",
			`"size=16k ovr=1.31`, "0.00049 1.300", "0.00098 1.412",
		})
		require.NoError(t, err)
		require.Len(t, streams, 2)
		assert.Equal(t, domain.StreamKey{Family: "size_latency", Param: "size=0k"}, streams[0].Key)
		assert.Equal(t, "size_latency_size=16k", streams[1].Key.String())
		assert.Len(t, streams[1].Points, 2)
	})

	t.Run("scalar line inside table ends it", func(t *testing.T) {
		streams, err := p.Parse([]string{
			"Memory read bandwidth", "1 2",
			"Simple syscall: 0.0464 microseconds",
			"3 4",
		})
		require.NoError(t, err)
		assert.Len(t, streams[0].Points, 1)
	})
}

func TestParser_ParseLmbench(t *testing.T) {
	p := New(DefaultConfig())
	lines := []string{
		"Simple syscall: 0.0464 microseconds",
		"Select on 10 fd's: 0.1364 microseconds",
		"",
		`"read bandwidth`,
		"0.000512 6000.5",
		"0.001024 6100.25",
	}

	scalars, streams, err := p.ParseLmbench(lines)
	require.NoError(t, err)
	assert.Len(t, scalars, 2)
	assert.Equal(t, "select_10", scalars[1].Metric)
	require.Len(t, streams, 1)
	assert.Equal(t, key("read_bw"), streams[0].Key)
	assert.True(t, streams[0].TwoColumn())
}

func TestParser_ParseBlocks(t *testing.T) {
	p := New(DefaultConfig())

	got, err := p.ParseBlocks("glibc", []string{"Benchmark: cos:", "1", "2", "3"})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = p.ParseBlocks("phoronix", nil)
	assert.Error(t, err)
}
