package es

import (
	"context"
	"testing"

	"github.com/DjordjeVuckovic/kernsecbench/internal/bench/table"
	pkgtesting "github.com/DjordjeVuckovic/kernsecbench/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping elasticsearch integration test in short mode")
	}
	ctx := context.Background()
	container := pkgtesting.NewESContainer(ctx, t)

	s, err := NewStorer(ctx, ClientConfig{Addresses: []string{container.Address}, IndexName: "bench_rows"})
	require.NoError(t, err)

	scalars := []table.ScalarRow{
		{Run: "baseline", Iteration: 0, Metric: "syscall", Value: 0.1, Unit: "microseconds"},
		{Run: "baseline", Iteration: 1, Metric: "syscall", Value: 0.2, Unit: "microseconds"},
	}
	streams := []table.StreamRow{{Run: "baseline", Iteration: 0, Stream: "mem_read_bw", X: 1, Y: 100}}

	require.NoError(t, s.SaveScalars(ctx, "a1", scalars))
	require.NoError(t, s.SaveStreams(ctx, "a1", streams))

	n, err := s.Count(ctx, "a1", KindScalar)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = s.Count(ctx, "a1", KindStream)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.EnsureIndex(ctx))
}
