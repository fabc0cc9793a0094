package discs

// Reason enumerates why a payload was rejected.
type Reason int

const (
	// ReasonMissingParameters means no body was supplied at all.
	ReasonMissingParameters Reason = iota + 1
	// ReasonMissingFields means a required field is absent or empty.
	ReasonMissingFields
	// ReasonBadFormat means a field has the wrong JSON type.
	ReasonBadFormat
	// ReasonBadRotationType means rotationType is not CAV or CLV.
	ReasonBadRotationType
	// ReasonBadVideoFormat means videoFormat is not NTSC or PAL.
	ReasonBadVideoFormat
)

func (r Reason) String() string {
	switch r {
	case ReasonMissingParameters:
		return "input parameters expected"
	case ReasonMissingFields:
		return "missing required fields"
	case ReasonBadFormat:
		return "bad format, expected {filmName: string, rotationType: string (CAV or CLV), region: string, lengthMinutes: number, videoFormat: string (NTSC or PAL)}"
	case ReasonBadRotationType:
		return "rotationType must be CAV or CLV"
	case ReasonBadVideoFormat:
		return "videoFormat must be NTSC or PAL"
	default:
		return "invalid disc"
	}
}

// ValidationError is returned by [Payload.Validate].
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	return e.Reason.String()
}

// Validate checks the payload and returns the candidate record.
//
// Checks run in a fixed order and only the first failure is reported:
// presence, JSON types, rotationType, videoFormat. A lengthMinutes of 0 is
// valid; empty strings count as missing.
func (p *Payload) Validate() (Candidate, error) {
	if !p.present {
		return Candidate{}, &ValidationError{Reason: ReasonMissingParameters}
	}
	if missingString(p.FilmName) || missingString(p.RotationType) || missingString(p.Region) ||
		!p.LengthMinutes.Present || missingString(p.VideoFormat) {
		return Candidate{}, &ValidationError{Reason: ReasonMissingFields}
	}
	if p.FilmName.WrongType || p.RotationType.WrongType || p.Region.WrongType ||
		p.LengthMinutes.WrongType || p.VideoFormat.WrongType {
		return Candidate{}, &ValidationError{Reason: ReasonBadFormat}
	}
	rot := RotationType(p.RotationType.Value)
	if !rot.Valid() {
		return Candidate{}, &ValidationError{Reason: ReasonBadRotationType}
	}
	vf := VideoFormat(p.VideoFormat.Value)
	if !vf.Valid() {
		return Candidate{}, &ValidationError{Reason: ReasonBadVideoFormat}
	}
	return Candidate{
		FilmName:      p.FilmName.Value,
		RotationType:  rot,
		Region:        p.Region.Value,
		LengthMinutes: p.LengthMinutes.Value,
		VideoFormat:   vf,
	}, nil
}

// ValidateRecord applies the payload rules to an already typed record, used
// for seed data.
func ValidateRecord(r *Record) error {
	p := NewPayload(r.FilmName, string(r.RotationType), r.Region, r.LengthMinutes, string(r.VideoFormat))
	_, err := p.Validate()
	return err
}

func missingString(f Field[string]) bool {
	return !f.Present || (!f.WrongType && f.Value == "")
}
