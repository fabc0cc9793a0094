// Loads the records the store starts with.

package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/maruel/discdb/internal/discs"
	"gopkg.in/yaml.v3"
)

// SeedFile is the YAML layout of a seed file.
//
//	discs:
//	  - id: 1
//	    filmName: Shrek
//	    rotationType: CAV
//	    region: EUR
//	    lengthMinutes: 90
//	    videoFormat: NTSC
type SeedFile struct {
	Discs []discs.Record `yaml:"discs"`
}

// DefaultSeed returns the records loaded when no seed file is configured.
func DefaultSeed() []discs.Record {
	return []discs.Record{
		{ID: 1, FilmName: "Shrek", RotationType: discs.RotationCAV, Region: "EUR", LengthMinutes: 90, VideoFormat: discs.FormatNTSC},
		{ID: 2, FilmName: "Prueba2", RotationType: discs.RotationCLV, Region: "NAM", LengthMinutes: 201, VideoFormat: discs.FormatPAL},
	}
}

// LoadSeed reads and validates a YAML seed file. Order is preserved. An empty
// file yields an empty store.
func LoadSeed(path string) ([]discs.Record, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	d := yaml.NewDecoder(bytes.NewReader(raw))
	d.KnownFields(true)
	var f SeedFile
	if err := d.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if err := ValidateSeed(f.Discs); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	return f.Discs, nil
}

// MaxSeedID is the largest id a seed record may carry: the largest integer a
// JSON number holds exactly. Inserts after it stay far from int64 overflow.
const MaxSeedID = 1<<53 - 1

// ValidateSeed checks that every record is valid and ids are unique and in
// [1, MaxSeedID].
func ValidateSeed(records []discs.Record) error {
	seen := make(map[int64]struct{}, len(records))
	var errs []error
	for i := range records {
		r := &records[i]
		if r.ID <= 0 {
			errs = append(errs, fmt.Errorf("record %d: id must be positive, got %d", i, r.ID))
		} else if r.ID > MaxSeedID {
			errs = append(errs, fmt.Errorf("record %d: id %d exceeds %d", i, r.ID, int64(MaxSeedID)))
		} else if _, dup := seen[r.ID]; dup {
			errs = append(errs, fmt.Errorf("record %d: duplicate id %d", i, r.ID))
		}
		seen[r.ID] = struct{}{}
		if err := discs.ValidateRecord(r); err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
