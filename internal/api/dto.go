package api

import "github.com/halvard/dagaz/internal/syncer"

// ParseRequest is the request body for a selective parse run.
type ParseRequest struct {
	Dates []string `json:"dates"`
}

// ParseResponse wraps the per-date outcomes of a selective run.
type ParseResponse struct {
	Results []syncer.Outcome `json:"results"`
}

// SyncRequest is the request body for starting a background sync.
type SyncRequest struct {
	Full bool `json:"full"`
}

// SyncStartedResponse is returned when a background sync is accepted.
type SyncStartedResponse struct {
	Queued int `json:"queued"`
}

// DeleteMetricsRequest is the request body for deleting parsed data.
type DeleteMetricsRequest struct {
	Dates []string `json:"dates"`
}

// RawOutputResponse carries the verbatim oracle response for one date.
type RawOutputResponse struct {
	Date string `json:"date"`
	Raw  string `json:"raw"`
}

// ImportResponse is returned after a successful record import.
type ImportResponse struct {
	Imported int `json:"imported"`
}
