// Package benchmark collects client-side performance samples reported by
// the storefront frontends and aggregates them for comparison.
package benchmark

// Metrics holds the core web-vital measurements of a single page view, in
// milliseconds (CLS is unitless). Zero means "not reported".
type Metrics struct {
	TTFB             float64 `json:"ttfb,omitempty"`
	FCP              float64 `json:"fcp,omitempty"`
	LCP              float64 `json:"lcp,omitempty"`
	FID              float64 `json:"fid,omitempty"`
	CLS              float64 `json:"cls,omitempty"`
	Load             float64 `json:"load,omitempty"`
	DOMContentLoaded float64 `json:"domContentLoaded,omitempty"`
}

// Entry is one benchmark sample reported by a client.
type Entry struct {
	ID        string  `json:"id"`
	Timestamp int64   `json:"timestamp"` // unix milliseconds
	ClientID  string  `json:"clientId"`
	PageURL   string  `json:"pageUrl"`
	UserAgent string  `json:"userAgent"`
	Metrics   Metrics `json:"metrics"`
}
