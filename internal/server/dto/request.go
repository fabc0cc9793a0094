// Defines request types for the disc API.

package dto

import (
	"github.com/maruel/discdb/internal/discs"
)

// ListDiscsRequest is the request for GET /Id.
type ListDiscsRequest struct{}

// Validate validates the list discs request.
func (r *ListDiscsRequest) Validate() error {
	return nil
}

// GetDiscRequest is the request for GET /Id/{id}.
type GetDiscRequest struct {
	ID int64 `path:"id"`
}

// Validate validates the get disc request. The id was already parsed by the
// wrapper.
func (r *GetDiscRequest) Validate() error {
	return nil
}

// CreateDiscRequest is the body of POST /Id.
//
// The body is decoded leniently by [discs.Payload] so that missing fields and
// wrong types are reported by Validate in a fixed order instead of failing
// JSON decoding.
type CreateDiscRequest struct {
	discs.Payload

	candidate discs.Candidate
}

// Validate validates the create disc request and keeps the validated
// candidate for [CreateDiscRequest.Candidate].
func (r *CreateDiscRequest) Validate() error {
	c, err := r.Payload.Validate()
	if err != nil {
		return BadRequest(err.Error())
	}
	r.candidate = c
	return nil
}

func (r *CreateDiscRequest) decodesBody() {}

// Candidate returns the validated record fields. Only meaningful after
// Validate returned nil.
func (r *CreateDiscRequest) Candidate() discs.Candidate {
	return r.candidate
}

// DeleteDiscRequest is the request for DELETE /Id/{id}.
type DeleteDiscRequest struct {
	ID int64 `path:"id"`
}

// Validate validates the delete disc request.
func (r *DeleteDiscRequest) Validate() error {
	return nil
}

// HealthRequest is the request for GET /health.
type HealthRequest struct{}

// Validate validates the health request.
func (r *HealthRequest) Validate() error {
	return nil
}

// SchemaRequest is the request for GET /schema.
type SchemaRequest struct{}

// Validate validates the schema request.
func (r *SchemaRequest) Validate() error {
	return nil
}
