package discs

import (
	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema describing a [Record] as served by the API.
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	s := r.Reflect(&Record{})
	s.Title = "Disc"
	s.Description = "Optical disc record"
	return s
}
