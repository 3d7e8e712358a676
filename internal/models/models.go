// Package models contains shared types used by the consumption service and
// its clients.
package models

// HealthResponse is returned by /healthz and /readyz endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Row is a single result row keyed by column name, passed through exactly
// as the database returned it.
type Row map[string]any

// ErrorResponse is the body of every non-2xx consumption response.
type ErrorResponse struct {
	Error string `json:"error" example:"min_hr: must be a positive integer"`
}
