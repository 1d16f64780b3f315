package aggregate

import (
	"testing"

	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	"github.com/DjordjeVuckovic/kernsecbench/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReducer_Reduce(t *testing.T) {
	r := DefaultReducer()
	key := domain.StreamKey{Family: "stream"}

	t.Run("keeps x inside the domain", func(t *testing.T) {
		got, err := r.Reduce(key, []domain.Point{
			domain.Point2(0.5, 10), domain.Point2(1, 20), domain.Point2(32, 30), domain.Point2(64, 40),
		})
		require.NoError(t, err)
		assert.Equal(t, []domain.MetricReading{
			{Metric: "stream_1", Value: 20, Unit: ReducedUnit},
			{Metric: "stream_32", Value: 30, Unit: ReducedUnit},
		}, got)
	})

	t.Run("fractional x keeps minimal digits", func(t *testing.T) {
		got, err := r.Reduce(key, []domain.Point{domain.Point2(1.5, 7)})
		require.NoError(t, err)
		assert.Equal(t, "stream_1.5", got[0].Metric)
	})

	t.Run("parameterized key", func(t *testing.T) {
		got, err := r.Reduce(domain.StreamKey{Family: "size_latency", Param: "size=0k"}, []domain.Point{domain.Point2(2, 1)})
		require.NoError(t, err)
		assert.Equal(t, "size_latency_size=0k_2", got[0].Metric)
	})

	t.Run("nothing survives", func(t *testing.T) {
		_, err := r.Reduce(key, []domain.Point{domain.Point2(0.001, 1), domain.Point2(512, 2)})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("three column stream refused", func(t *testing.T) {
		_, err := r.Reduce(key, []domain.Point{domain.Point3(1, 2, 3)})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestReducer_ReduceAll(t *testing.T) {
	streams := domain.Streams{
		{Key: domain.StreamKey{Family: "mem_read_bw"}, Points: []domain.Point{domain.Point2(1, 100), domain.Point2(2, 200)}},
		{Key: domain.StreamKey{Family: "empty"}},
		{Key: domain.StreamKey{Family: "fs_latency"}, Points: []domain.Point{domain.Point3(1, 2, 3)}},
		{Key: domain.StreamKey{Family: "tiny"}, Points: []domain.Point{domain.Point2(0.25, 1)}},
		{Key: domain.StreamKey{Family: "mixed"}, Points: []domain.Point{domain.Point2(1, 9), domain.Point3(2, 4, 6)}},
	}

	got := DefaultReducer().ReduceAll(streams)
	assert.Equal(t, []domain.MetricReading{
		{Metric: "mem_read_bw_1", Value: 100, Unit: ReducedUnit},
		{Metric: "mem_read_bw_2", Value: 200, Unit: ReducedUnit},
	}, got)
}
