// Defines response types for the disc API.

package dto

import (
	"net/http"
)

// DiscResponse is a disc as sent on the wire.
type DiscResponse struct {
	ID            int64   `json:"id"`
	FilmName      string  `json:"filmName"`
	RotationType  string  `json:"rotationType"`
	Region        string  `json:"region"`
	LengthMinutes float64 `json:"lengthMinutes"`
	VideoFormat   string  `json:"videoFormat"`
}

// DiscListResponse is the response for GET /Id. It encodes as a bare JSON
// array.
type DiscListResponse []DiscResponse

// CreatedDiscResponse is the response for POST /Id.
type CreatedDiscResponse struct {
	DiscResponse
}

// StatusCode implements StatusCoder.
func (*CreatedDiscResponse) StatusCode() int {
	return http.StatusCreated
}

// MessageResponse is a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
