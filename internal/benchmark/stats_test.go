package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats_IgnoresUnreportedMetrics(t *testing.T) {
	entries := []Entry{
		{ID: "1", Timestamp: 1000, ClientID: "a", PageURL: "/", Metrics: Metrics{TTFB: 100, LCP: 2400}},
		{ID: "2", Timestamp: 2000, ClientID: "a", PageURL: "/", Metrics: Metrics{TTFB: 200}},
		{ID: "3", Timestamp: 3000, ClientID: "b", PageURL: "/products", Metrics: Metrics{TTFB: 300}},
	}

	stats := computeStats(entries)

	require.NotNil(t, stats)
	assert.Equal(t, 3, stats.Count)

	ttfb, ok := stats.Metrics["ttfb"]
	require.True(t, ok)
	assert.InDelta(t, 200, ttfb.Avg, 1e-9)
	assert.Equal(t, float64(100), ttfb.Min)
	assert.Equal(t, float64(300), ttfb.Max)

	// Only one entry reported LCP; the two zero values do not drag the
	// average down.
	lcp, ok := stats.Metrics["lcp"]
	require.True(t, ok)
	assert.Equal(t, float64(2400), lcp.Avg)
	assert.Equal(t, float64(2400), lcp.Min)

	// FID was never reported, so it has no aggregate at all.
	_, ok = stats.Metrics["fid"]
	assert.False(t, ok)
}

func TestComputeStats_PagesAndClients(t *testing.T) {
	entries := []Entry{
		{ID: "1", Timestamp: 1000, ClientID: "a", PageURL: "/", UserAgent: "agent-a"},
		{ID: "2", Timestamp: 2000, ClientID: "a", PageURL: "/products"},
		{ID: "3", Timestamp: 3000, ClientID: "b", PageURL: "/", UserAgent: "agent-b"},
	}

	stats := computeStats(entries)

	assert.Equal(t, 2, stats.Pages["/"])
	assert.Equal(t, 1, stats.Pages["/products"])

	require.Contains(t, stats.Clients, "a")
	assert.Equal(t, 2, stats.Clients["a"].Count)
	assert.Equal(t, "agent-a", stats.Clients["a"].UserAgent)
	assert.Equal(t, 1, stats.Clients["b"].Count)
}

func TestComputeStats_TimeRange(t *testing.T) {
	entries := []Entry{
		{ID: "1", Timestamp: 5000},
		{ID: "2", Timestamp: 1000},
		{ID: "3", Timestamp: 3000},
	}

	stats := computeStats(entries)

	require.NotNil(t, stats.TimeRange)
	assert.Equal(t, int64(1000), stats.TimeRange.Oldest)
	assert.Equal(t, int64(5000), stats.TimeRange.Newest)
}

func TestSummarize(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	s := summarize(values)

	assert.InDelta(t, 55, s.Avg, 1e-9)
	assert.Equal(t, float64(10), s.Min)
	assert.Equal(t, float64(100), s.Max)
	assert.Equal(t, float64(60), s.Median)
	assert.Equal(t, float64(100), s.P90)
}

func TestPercentile_SingleValue(t *testing.T) {
	assert.Equal(t, float64(42), percentile([]float64{42}, 50))
	assert.Equal(t, float64(42), percentile([]float64{42}, 90))
}
