package handlers

import (
	"context"

	"github.com/invopop/jsonschema"
	"github.com/maruel/discdb/internal/discs"
	"github.com/maruel/discdb/internal/server/dto"
)

// SchemaHandler serves the JSON Schema of a disc record.
type SchemaHandler struct {
	schema *jsonschema.Schema
}

// NewSchemaHandler reflects the schema once.
func NewSchemaHandler() *SchemaHandler {
	return &SchemaHandler{schema: discs.Schema()}
}

// Schema returns the disc record JSON Schema.
func (h *SchemaHandler) Schema(ctx context.Context, req *dto.SchemaRequest) (*jsonschema.Schema, error) {
	return h.schema, nil
}
