package table

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/kernsecbench/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []domain.Run {
	return []domain.Run{
		{
			Name: "baseline",
			Iterations: []domain.Iteration{
				{
					Index:    0,
					Readings: []domain.MetricReading{{Metric: "syscall", Value: 0.1, Unit: "microseconds"}},
					Streams: domain.Streams{
						{Key: domain.StreamKey{Family: "mem_read_bw"}, Points: []domain.Point{domain.Point2(1, 10), domain.Point2(2, 20)}},
						{Key: domain.StreamKey{Family: "fs_latency"}, Points: []domain.Point{domain.Point3(0, 100, 5)}},
						{Key: domain.StreamKey{Family: "mappings"}},
					},
				},
			},
		},
		{
			Name: "pti_on",
			Iterations: []domain.Iteration{
				{Index: 0, Readings: []domain.MetricReading{{Metric: "syscall", Value: 0.3, Unit: "microseconds"}}},
				{Index: 1, Readings: []domain.MetricReading{{Metric: "syscall", Value: 0.5, Unit: "microseconds"}}},
			},
		},
	}
}

func TestBuildScalarRows(t *testing.T) {
	rows := BuildScalarRows(sampleRuns())

	assert.Equal(t, []ScalarRow{
		{Run: "baseline", Iteration: 0, Metric: "syscall", Value: 0.1, Unit: "microseconds"},
		{Run: "pti_on", Iteration: 0, Metric: "syscall", Value: 0.3, Unit: "microseconds"},
		{Run: "pti_on", Iteration: 1, Metric: "syscall", Value: 0.5, Unit: "microseconds"},
	}, rows)
}

func TestBuildStreamRows(t *testing.T) {
	rows := BuildStreamRows(sampleRuns())
	require.Len(t, rows, 3)

	assert.Equal(t, "mem_read_bw", rows[0].Stream)
	assert.Nil(t, rows[0].Z)
	assert.Equal(t, "fs_latency", rows[2].Stream)
	require.NotNil(t, rows[2].Z)
	assert.Equal(t, 5.0, *rows[2].Z)
}

func streamRow(run string, iter int, stream string, x, y float64) StreamRow {
	return StreamRow{Run: run, Iteration: iter, Stream: stream, X: x, Y: y}
}

func TestBuildWideGrid(t *testing.T) {
	t.Run("identical x sets are averaged per x", func(t *testing.T) {
		rows := []StreamRow{
			streamRow("baseline", 0, "mem_read_bw", 2, 20),
			streamRow("baseline", 0, "mem_read_bw", 1, 10),
			streamRow("baseline", 1, "mem_read_bw", 1, 12),
			streamRow("baseline", 1, "mem_read_bw", 2, 24),
		}

		grid := BuildWideGrid(rows)
		require.Len(t, grid, 2)

		assert.Equal(t, 1.0, grid[0].X)
		assert.InDelta(t, 11.0, grid[0].Mean, 1e-12)
		assert.InDelta(t, 1.4142135623730951, grid[0].Stdev, 1e-12)
		assert.Equal(t, 2.0, grid[1].X)
		assert.InDelta(t, 22.0, grid[1].Mean, 1e-12)
	})

	t.Run("mismatched x sets exclude the pair", func(t *testing.T) {
		rows := []StreamRow{
			streamRow("baseline", 0, "mem_read_bw", 1, 10),
			streamRow("baseline", 0, "mem_read_bw", 2, 20),
			streamRow("baseline", 1, "mem_read_bw", 1, 10),
			streamRow("baseline", 1, "mem_read_bw", 2, 20),
			streamRow("baseline", 1, "mem_read_bw", 3, 30),
			streamRow("baseline", 0, "mmap_bw", 1, 5),
		}

		grid := BuildWideGrid(rows)
		require.Len(t, grid, 1)
		assert.Equal(t, "mmap_bw", grid[0].Stream)
	})

	t.Run("single sample has zero stdev", func(t *testing.T) {
		grid := BuildWideGrid([]StreamRow{streamRow("ibrs", 0, "pipe_bw", 4, 7)})
		require.Len(t, grid, 1)
		assert.Equal(t, GridRow{Run: "ibrs", Stream: "pipe_bw", X: 4, Mean: 7, Stdev: 0}, grid[0])
	})

	t.Run("pairs keep first-seen order", func(t *testing.T) {
		grid := BuildWideGrid([]StreamRow{
			streamRow("b", 0, "s", 1, 1),
			streamRow("a", 0, "s", 1, 1),
		})
		require.Len(t, grid, 2)
		assert.Equal(t, "b", grid[0].Run)
		assert.Equal(t, "a", grid[1].Run)
	})

	t.Run("no rows", func(t *testing.T) {
		assert.Empty(t, BuildWideGrid(nil))
	})
}

func TestWriteScalarCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteScalarCSV(&buf, []ScalarRow{
		{Run: "baseline", Iteration: 2, Metric: "select_10", Value: 1.5, Unit: "microseconds"},
	})
	require.NoError(t, err)

	assert.Equal(t, "run,iteration,metric,value,unit\nbaseline,2,select_10,1.5,microseconds\n", buf.String())
}

func TestWriteStreamCSV(t *testing.T) {
	z := 3.0
	var buf bytes.Buffer
	err := WriteStreamCSV(&buf, []StreamRow{
		streamRow("baseline", 0, "mem_read_bw", 1, 2),
		{Run: "baseline", Iteration: 0, Stream: "fs_latency", X: 1, Y: 2, Z: &z},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"run,iteration,stream,x,y,z\nbaseline,0,mem_read_bw,1,2,\nbaseline,0,fs_latency,1,2,3\n",
		buf.String())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "grid.csv")

	err := WriteFile(path, func(w io.Writer) error {
		return WriteGridCSV(w, WideGrid{{Run: "r", Stream: "s", X: 1, Mean: 2, Stdev: 0}})
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "run,stream,x,mean,stdev\nr,s,1,2,0\n", string(data))
}
