// Assigns identifiers and projects validated payloads into records.

package discs

import "fmt"

// IDRule selects how the identifier of a new record is computed.
type IDRule int

const (
	// IDRuleTail derives the id from the last record in insertion order:
	// 0 stays 0, anything else is incremented. It can hand out an id that is
	// already in use when the tail is not the largest id, and an empty store
	// yields 0 forever. This is the historical behavior of the service.
	IDRuleTail IDRule = iota
	// IDRuleMax uses one more than the largest id currently stored, starting
	// at 1. It never returns an id in use.
	IDRuleMax
)

// Next returns the id for a new record. lastID is the id of the tail record
// and maxID the largest id present; both are 0 for an empty store.
func (r IDRule) Next(lastID, maxID int64) int64 {
	if r == IDRuleMax {
		return maxID + 1
	}
	if lastID == 0 {
		return 0
	}
	return lastID + 1
}

func (r IDRule) String() string {
	switch r {
	case IDRuleTail:
		return "tail"
	case IDRuleMax:
		return "max"
	default:
		return fmt.Sprintf("IDRule(%d)", int(r))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r IDRule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *IDRule) UnmarshalText(b []byte) error {
	v, err := ParseIDRule(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseIDRule parses "tail" or "max". The empty string means tail.
func ParseIDRule(s string) (IDRule, error) {
	switch s {
	case "", "tail":
		return IDRuleTail, nil
	case "max":
		return IDRuleMax, nil
	default:
		return 0, fmt.Errorf("unknown id rule %q, want tail or max", s)
	}
}

// Build projects a validated candidate into a record with the given id.
func Build(c Candidate, id int64) Record {
	return Record{
		ID:            id,
		FilmName:      c.FilmName,
		RotationType:  c.RotationType,
		Region:        c.Region,
		LengthMinutes: c.LengthMinutes,
		VideoFormat:   c.VideoFormat,
	}
}
