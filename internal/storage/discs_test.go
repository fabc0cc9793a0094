package storage

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/maruel/discdb/internal/discs"
)

var prueba3 = discs.Candidate{FilmName: "prueba3", RotationType: discs.RotationCLV, Region: "Asia", LengthMinutes: 60, VideoFormat: discs.FormatNTSC}

func ids(s *DiscStore) []int64 {
	var out []int64
	for _, r := range s.List() {
		out = append(out, r.ID)
	}
	return out
}

func TestDiscStore_Scenario(t *testing.T) {
	s := NewDiscStore(DefaultSeed(), discs.IDRuleTail)
	r := s.Create(prueba3)
	if r.ID != 3 {
		t.Fatalf("Create() id = %d, want 3", r.ID)
	}
	got, ok := s.Get(3)
	if !ok || got != r {
		t.Fatalf("Get(3) = %+v, %v", got, ok)
	}
	if !s.DeleteByID(3) {
		t.Fatal("DeleteByID(3) = false")
	}
	if !slices.Equal(s.List(), DefaultSeed()) {
		t.Errorf("List() = %+v, want seed", s.List())
	}
}

func TestDiscStore_DeleteMissing(t *testing.T) {
	s := NewDiscStore(DefaultSeed(), discs.IDRuleTail)
	if s.DeleteByID(42) {
		t.Error("DeleteByID(42) = true")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestDiscStore_DeleteRemovesDuplicates(t *testing.T) {
	s := NewDiscStore(nil, discs.IDRuleTail)
	s.Insert(discs.Record{ID: 7, FilmName: "a"})
	s.Insert(discs.Record{ID: 8, FilmName: "b"})
	s.Insert(discs.Record{ID: 7, FilmName: "c"})
	if !s.DeleteByID(7) {
		t.Fatal("DeleteByID(7) = false")
	}
	if got := ids(s); !slices.Equal(got, []int64{8}) {
		t.Errorf("ids = %v, want [8]", got)
	}
}

func TestDiscStore_TailRule(t *testing.T) {
	t.Run("reuses deleted tail", func(t *testing.T) {
		s := NewDiscStore(DefaultSeed(), discs.IDRuleTail)
		s.DeleteByID(2)
		if r := s.Create(prueba3); r.ID != 2 {
			t.Errorf("id = %d, want 2", r.ID)
		}
	})
	t.Run("empty store yields zero twice", func(t *testing.T) {
		s := NewDiscStore(DefaultSeed(), discs.IDRuleTail)
		s.DeleteByID(1)
		s.DeleteByID(2)
		a := s.Create(prueba3)
		b := s.Create(prueba3)
		if a.ID != 0 || b.ID != 0 {
			t.Errorf("ids = %d, %d, want 0, 0", a.ID, b.ID)
		}
	})
	t.Run("collides when tail is not max", func(t *testing.T) {
		seed := DefaultSeed()
		seed[0], seed[1] = seed[1], seed[0]
		s := NewDiscStore(seed, discs.IDRuleTail)
		if r := s.Create(prueba3); r.ID != 2 {
			t.Errorf("id = %d, want 2", r.ID)
		}
		if got := ids(s); !slices.Equal(got, []int64{2, 1, 2}) {
			t.Errorf("ids = %v", got)
		}
	})
}

func TestDiscStore_MaxRule(t *testing.T) {
	seed := DefaultSeed()
	seed[0], seed[1] = seed[1], seed[0]
	s := NewDiscStore(seed, discs.IDRuleMax)
	if s.IDRule() != discs.IDRuleMax {
		t.Fatalf("IDRule() = %v", s.IDRule())
	}
	if r := s.Create(prueba3); r.ID != 3 {
		t.Errorf("id = %d, want 3", r.ID)
	}
	s.DeleteByID(1)
	s.DeleteByID(2)
	s.DeleteByID(3)
	if r := s.Create(prueba3); r.ID != 1 {
		t.Errorf("id on empty store = %d, want 1", r.ID)
	}
	if r := s.Create(prueba3); r.ID != 2 {
		t.Errorf("id = %d, want 2", r.ID)
	}
}

func TestDiscStore_ListIsACopy(t *testing.T) {
	s := NewDiscStore(DefaultSeed(), discs.IDRuleTail)
	l := s.List()
	l[0].FilmName = "changed"
	if r, _ := s.Get(1); r.FilmName != "Shrek" {
		t.Errorf("List() aliases storage: %q", r.FilmName)
	}
}

func TestLoadSeed(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		p := filepath.Join(t.TempDir(), "seed.yaml")
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}
	t.Run("valid", func(t *testing.T) {
		p := write(t, `discs:
  - id: 10
    filmName: Akira
    rotationType: CLV
    region: JPN
    lengthMinutes: 124
    videoFormat: NTSC
  - id: 4
    filmName: Alien
    rotationType: CAV
    region: EUR
    lengthMinutes: 117.5
    videoFormat: PAL
`)
		got, err := LoadSeed(p)
		if err != nil {
			t.Fatalf("LoadSeed() error = %v", err)
		}
		if len(got) != 2 || got[0].ID != 10 || got[1].LengthMinutes != 117.5 || got[1].VideoFormat != discs.FormatPAL {
			t.Errorf("LoadSeed() = %+v", got)
		}
	})
	t.Run("empty", func(t *testing.T) {
		got, err := LoadSeed(write(t, ""))
		if err != nil || len(got) != 0 {
			t.Errorf("LoadSeed() = %v, %v", got, err)
		}
	})
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "discs:\n  - id: 1\n    title: x\n", "title"},
		{"duplicate id", "discs:\n  - {id: 1, filmName: a, rotationType: CAV, region: b, lengthMinutes: 1, videoFormat: PAL}\n  - {id: 1, filmName: c, rotationType: CAV, region: d, lengthMinutes: 1, videoFormat: PAL}\n", "duplicate id"},
		{"zero id", "discs:\n  - {id: 0, filmName: a, rotationType: CAV, region: b, lengthMinutes: 1, videoFormat: PAL}\n", "must be positive"},
		{"max int64 id", "discs:\n  - {id: 9223372036854775807, filmName: a, rotationType: CAV, region: b, lengthMinutes: 1, videoFormat: PAL}\n", "exceeds"},
		{"bad enum", "discs:\n  - {id: 1, filmName: a, rotationType: XYZ, region: b, lengthMinutes: 1, videoFormat: PAL}\n", "rotationType"},
		{"missing field", "discs:\n  - {id: 1, rotationType: CAV, region: b, lengthMinutes: 1, videoFormat: PAL}\n", "missing required fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeed(write(t, tt.content))
			if err == nil {
				t.Fatal("LoadSeed() should fail")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("LoadSeed() should fail")
		}
	})
}

func TestValidateSeed_IDBound(t *testing.T) {
	r := DefaultSeed()[0]
	r.ID = MaxSeedID
	if err := ValidateSeed([]discs.Record{r}); err != nil {
		t.Errorf("ValidateSeed(MaxSeedID) = %v", err)
	}
	r.ID = MaxSeedID + 1
	if err := ValidateSeed([]discs.Record{r}); err == nil {
		t.Error("ValidateSeed(MaxSeedID+1) should fail")
	}
}

func TestDefaultSeed_Valid(t *testing.T) {
	if err := ValidateSeed(DefaultSeed()); err != nil {
		t.Fatal(err)
	}
}
