// Decodes untyped create requests into typed, presence-aware fields.

package discs

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON value that remembers whether it was supplied and whether
// its JSON type matched T.
//
// A JSON null is treated the same as an absent key.
type Field[T any] struct {
	Value     T
	Present   bool
	WrongType bool
}

// Set returns a present, well-typed field. Mostly useful in tests.
func Set[T any](v T) Field[T] {
	return Field[T]{Value: v, Present: true}
}

// UnmarshalJSON implements json.Unmarshaler. It never fails on a type
// mismatch; the mismatch is recorded in WrongType instead so that validation
// can report it in the right order.
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	*f = Field[T]{}
	if isNull(b) {
		return nil
	}
	f.Present = true
	if err := json.Unmarshal(b, &f.Value); err != nil {
		var zero T
		f.Value = zero
		f.WrongType = true
	}
	return nil
}

// Payload is the body of a create request.
type Payload struct {
	FilmName      Field[string]  `json:"filmName"`
	RotationType  Field[string]  `json:"rotationType"`
	Region        Field[string]  `json:"region"`
	LengthMinutes Field[float64] `json:"lengthMinutes"`
	VideoFormat   Field[string]  `json:"videoFormat"`

	// present is false when the body was empty or null.
	present bool
}

// UnmarshalJSON implements json.Unmarshaler.
//
// Any syntactically valid JSON value is accepted. A value that is not an
// object is remembered as present but carries no fields. Keys match
// case-sensitively; "filmname" is an unknown key, not filmName.
func (p *Payload) UnmarshalJSON(b []byte) error {
	*p = Payload{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || isNull(b) {
		return nil
	}
	p.present = true
	if b[0] != '{' {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	for key, f := range map[string]json.Unmarshaler{
		"filmName":      &p.FilmName,
		"rotationType":  &p.RotationType,
		"region":        &p.Region,
		"lengthMinutes": &p.LengthMinutes,
		"videoFormat":   &p.VideoFormat,
	} {
		if raw, ok := obj[key]; ok {
			if err := f.UnmarshalJSON(raw); err != nil {
				return err
			}
		}
	}
	return nil
}

// NewPayload returns a payload marked as present with the given fields.
func NewPayload(filmName, rotationType, region string, lengthMinutes float64, videoFormat string) Payload {
	return Payload{
		FilmName:      Set(filmName),
		RotationType:  Set(rotationType),
		Region:        Set(region),
		LengthMinutes: Set(lengthMinutes),
		VideoFormat:   Set(videoFormat),
		present:       true,
	}
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}
