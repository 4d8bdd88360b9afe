// Package oracle defines the text-to-structured-data extraction contract and
// its Gemini-backed implementation.
//
// The oracle never fails past its boundary: network errors, unparseable
// responses, and shape mismatches all surface as a nil structured payload
// with the raw text carrying the diagnostic. Callers treat nil uniformly as
// "extraction failed, leave stored data untouched".
package oracle

import "context"

// DailyExtraction is the result of one daily-metrics extraction. Metrics is
// nil when the oracle failed or no JSON object could be located in its
// response; Raw always carries the verbatim response (or an error string)
// for audit.
type DailyExtraction struct {
	Metrics *MetricsPayload
	Raw     string
}

// Oracle converts free journal text into structured payloads.
type Oracle interface {
	ExtractDailyMetrics(ctx context.Context, content, date string) DailyExtraction
	// ExtractProcrastinationEvents returns the events found in an aggregate
	// record document, or an empty slice on failure.
	ExtractProcrastinationEvents(ctx context.Context, content string) []EventPayload
}
