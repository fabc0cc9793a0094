// Package discs defines the optical disc record model, request validation
// and id assignment.
//
// Everything in this package is pure: no I/O, no locking. The storage
// package owns the ordered collection and calls into [IDRule] and [Build]
// while holding its write lock.
package discs

// RotationType is the spin mode of the disc.
type RotationType string

const (
	// RotationCAV is constant angular velocity.
	RotationCAV RotationType = "CAV"
	// RotationCLV is constant linear velocity.
	RotationCLV RotationType = "CLV"
)

// Valid reports whether r is a known rotation type.
func (r RotationType) Valid() bool {
	return r == RotationCAV || r == RotationCLV
}

// VideoFormat is the analog video standard of the disc.
type VideoFormat string

const (
	// FormatNTSC is the NTSC standard.
	FormatNTSC VideoFormat = "NTSC"
	// FormatPAL is the PAL standard.
	FormatPAL VideoFormat = "PAL"
)

// Valid reports whether f is a known video format.
func (f VideoFormat) Valid() bool {
	return f == FormatNTSC || f == FormatPAL
}

// Record is a stored disc. The JSON field names are part of the wire format.
type Record struct {
	ID            int64        `json:"id" yaml:"id" jsonschema:"description=Assigned by the server"`
	FilmName      string       `json:"filmName" yaml:"filmName" jsonschema:"minLength=1"`
	RotationType  RotationType `json:"rotationType" yaml:"rotationType" jsonschema:"enum=CAV,enum=CLV"`
	Region        string       `json:"region" yaml:"region" jsonschema:"minLength=1"`
	LengthMinutes float64      `json:"lengthMinutes" yaml:"lengthMinutes"`
	VideoFormat   VideoFormat  `json:"videoFormat" yaml:"videoFormat" jsonschema:"enum=NTSC,enum=PAL"`
}

// Clone returns a copy of the record.
func (r Record) Clone() Record {
	return r
}

// Candidate is a payload that passed validation and is ready to be stored.
type Candidate struct {
	FilmName      string
	RotationType  RotationType
	Region        string
	LengthMinutes float64
	VideoFormat   VideoFormat
}
