package models

import "time"

// RateSnapshot holds one full set of exchange rates relative to Base.
// Snapshots are replaced wholesale on refresh, never patched in place.
type RateSnapshot struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// RatesResponse is the wire shape of GET /rates.
type RatesResponse struct {
	Base   string             `json:"base"`
	Rates  map[string]float64 `json:"rates"`
	Cached bool               `json:"cached"`
}
