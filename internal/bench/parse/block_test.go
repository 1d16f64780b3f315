package parse

import (
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/kernsecbench/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBlockFormat_Glibc(t *testing.T) {
	lines := strings.Split("Benchmark: cos:\n90.7372\n90.7282\n90.4056", "\n")

	got := GlibcFormat.Parse(lines, AdvanceFixed)

	assert.Equal(t, []domain.MetricReading{
		{Metric: "cos", Value: 90.7372, Unit: "ns"},
		{Metric: "cos", Value: 90.7282, Unit: "ns"},
		{Metric: "cos", Value: 90.4056, Unit: "ns"},
	}, got)
}

func TestBlockFormat_Families(t *testing.T) {
	t.Run("inkscape reads three of four values", func(t *testing.T) {
		lines := []string{"Operation: SVG Files To PNG:", "33.815", "32.37", "32.303", "32.135"}
		got := InkscapeFormat.Parse(lines, AdvanceFixed)
		assert.Len(t, got, 3)
		for _, r := range got {
			assert.Equal(t, "SVG Files To PNG", r.Metric)
			assert.Equal(t, "s", r.Unit)
		}
	})

	t.Run("sqlite uses fixed name", func(t *testing.T) {
		lines := []string{"Threads / Copies: 4", "0.0000", "1.5", "2"}
		got := SqliteFormat.Parse(lines, AdvanceFixed)
		assert.Equal(t, []domain.MetricReading{
			{Metric: "sqlite_ops", Value: 0, Unit: "s"},
			{Metric: "sqlite_ops", Value: 1.5, Unit: "s"},
			{Metric: "sqlite_ops", Value: 2, Unit: "s"},
		}, got)
	})

	t.Run("header is case insensitive", func(t *testing.T) {
		got := GlibcFormat.Parse([]string{"benchmark: sin:", "1"}, AdvanceFixed)
		assert.Equal(t, []domain.MetricReading{{Metric: "sin", Value: 1, Unit: "ns"}}, got)
	})
}

func TestBlockFormat_MalformedLine(t *testing.T) {
	lines := []string{
		"Benchmark: cos:",
		"90.1",
		"Benchmark: sin:",
		"10.5",
		"10.6",
		"10.7",
	}

	t.Run("fixed advance skips the next header", func(t *testing.T) {
		got := GlibcFormat.Parse(lines, AdvanceFixed)
		assert.Equal(t, []domain.MetricReading{{Metric: "cos", Value: 90.1, Unit: "ns"}}, got)
	})

	t.Run("rescan resumes at the failed line", func(t *testing.T) {
		got := GlibcFormat.Parse(lines, AdvanceRescan)
		assert.Equal(t, []domain.MetricReading{
			{Metric: "cos", Value: 90.1, Unit: "ns"},
			{Metric: "sin", Value: 10.5, Unit: "ns"},
			{Metric: "sin", Value: 10.6, Unit: "ns"},
			{Metric: "sin", Value: 10.7, Unit: "ns"},
		}, got)
	})
}

func TestBlockFormat_EdgeCases(t *testing.T) {
	t.Run("premature end of input", func(t *testing.T) {
		got := GlibcFormat.Parse([]string{"Benchmark: exp:", "4.2"}, AdvanceFixed)
		assert.Equal(t, []domain.MetricReading{{Metric: "exp", Value: 4.2, Unit: "ns"}}, got)
	})

	t.Run("header without values", func(t *testing.T) {
		got := GlibcFormat.Parse([]string{"Benchmark: exp:", "n/a"}, AdvanceFixed)
		assert.Empty(t, got)
	})

	t.Run("no header", func(t *testing.T) {
		assert.Empty(t, GlibcFormat.Parse([]string{"1", "2", "3"}, AdvanceFixed))
	})
}

func TestParseAdvancePolicy(t *testing.T) {
	p, ok := ParseAdvancePolicy("")
	assert.True(t, ok)
	assert.Equal(t, AdvanceFixed, p)

	p, ok = ParseAdvancePolicy("rescan")
	assert.True(t, ok)
	assert.Equal(t, AdvanceRescan, p)
	assert.Equal(t, "rescan", p.String())

	_, ok = ParseAdvancePolicy("skip")
	assert.False(t, ok)
}
