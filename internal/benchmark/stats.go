package benchmark

import "sort"

// MetricStats summarizes one metric across all entries that reported a
// non-zero value for it.
type MetricStats struct {
	Avg    float64 `json:"avg"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// ClientStats counts entries per reporting client.
type ClientStats struct {
	Count     int    `json:"count"`
	UserAgent string `json:"userAgent,omitempty"`
}

// TimeRange is the span covered by the stored entries, in unix milliseconds.
type TimeRange struct {
	Oldest int64 `json:"oldest"`
	Newest int64 `json:"newest"`
}

// Stats is the aggregate view over all stored benchmark entries.
type Stats struct {
	Count     int                    `json:"count"`
	Metrics   map[string]MetricStats `json:"metrics,omitempty"`
	Pages     map[string]int         `json:"pages,omitempty"`
	Clients   map[string]ClientStats `json:"clients,omitempty"`
	TimeRange *TimeRange             `json:"timeRange,omitempty"`
}

func computeStats(entries []Entry) *Stats {
	stats := &Stats{Count: len(entries)}
	if len(entries) == 0 {
		return stats
	}

	values := map[string][]float64{}
	collect := func(name string, v float64) {
		if v > 0 {
			values[name] = append(values[name], v)
		}
	}

	stats.Pages = make(map[string]int)
	stats.Clients = make(map[string]ClientStats)
	tr := &TimeRange{Oldest: entries[0].Timestamp, Newest: entries[0].Timestamp}

	for _, e := range entries {
		collect("ttfb", e.Metrics.TTFB)
		collect("fcp", e.Metrics.FCP)
		collect("lcp", e.Metrics.LCP)
		collect("fid", e.Metrics.FID)
		collect("cls", e.Metrics.CLS)
		collect("load", e.Metrics.Load)
		collect("domContentLoaded", e.Metrics.DOMContentLoaded)

		stats.Pages[e.PageURL]++

		client := stats.Clients[e.ClientID]
		client.Count++
		if client.UserAgent == "" {
			client.UserAgent = e.UserAgent
		}
		stats.Clients[e.ClientID] = client

		if e.Timestamp < tr.Oldest {
			tr.Oldest = e.Timestamp
		}
		if e.Timestamp > tr.Newest {
			tr.Newest = e.Timestamp
		}
	}
	stats.TimeRange = tr

	stats.Metrics = make(map[string]MetricStats, len(values))
	for name, vs := range values {
		stats.Metrics[name] = summarize(vs)
	}

	return stats
}

func summarize(values []float64) MetricStats {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return MetricStats{
		Avg:    sum / float64(len(sorted)),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: percentile(sorted, 50),
		P90:    percentile(sorted, 90),
	}
}

// percentile expects values sorted ascending.
func percentile(sorted []float64, p int) float64 {
	idx := len(sorted) * p / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
