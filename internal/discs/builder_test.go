package discs

import (
	"testing"
)

func TestIDRule_Next(t *testing.T) {
	tests := []struct {
		name   string
		rule   IDRule
		lastID int64
		maxID  int64
		want   int64
	}{
		{"tail empty", IDRuleTail, 0, 0, 0},
		{"tail after seeds", IDRuleTail, 2, 2, 3},
		{"tail below max", IDRuleTail, 1, 5, 2},
		{"tail stuck at zero", IDRuleTail, 0, 7, 0},
		{"max empty", IDRuleMax, 0, 0, 1},
		{"max after seeds", IDRuleMax, 2, 2, 3},
		{"max ignores tail", IDRuleMax, 1, 5, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Next(tt.lastID, tt.maxID); got != tt.want {
				t.Errorf("Next(%d, %d) = %d, want %d", tt.lastID, tt.maxID, got, tt.want)
			}
		})
	}
}

func TestParseIDRule(t *testing.T) {
	for _, s := range []string{"", "tail", "max"} {
		r, err := ParseIDRule(s)
		if err != nil {
			t.Fatalf("ParseIDRule(%q) error = %v", s, err)
		}
		if s != "" && r.String() != s {
			t.Errorf("String() = %q, want %q", r.String(), s)
		}
	}
	if _, err := ParseIDRule("uuid"); err == nil {
		t.Error("ParseIDRule(uuid) should fail")
	}
	var r IDRule
	if err := r.UnmarshalText([]byte("max")); err != nil || r != IDRuleMax {
		t.Errorf("UnmarshalText(max) = %v, %v", r, err)
	}
	b, err := IDRuleMax.MarshalText()
	if err != nil || string(b) != "max" {
		t.Errorf("MarshalText() = %q, %v", b, err)
	}
}

func TestBuild(t *testing.T) {
	c := Candidate{FilmName: "prueba3", RotationType: RotationCLV, Region: "Asia", LengthMinutes: 60, VideoFormat: FormatNTSC}
	got := Build(c, 3)
	want := Record{ID: 3, FilmName: "prueba3", RotationType: RotationCLV, Region: "Asia", LengthMinutes: 60, VideoFormat: FormatNTSC}
	if got != want {
		t.Errorf("Build() = %+v, want %+v", got, want)
	}
}

func TestSchema(t *testing.T) {
	s := Schema()
	if s.Title != "Disc" {
		t.Errorf("Title = %q", s.Title)
	}
	for _, name := range []string{"id", "filmName", "rotationType", "region", "lengthMinutes", "videoFormat"} {
		if _, ok := s.Properties.Get(name); !ok {
			t.Errorf("missing property %q", name)
		}
	}
	rot, _ := s.Properties.Get("rotationType")
	if len(rot.Enum) != 2 || rot.Enum[0] != "CAV" || rot.Enum[1] != "CLV" {
		t.Errorf("rotationType enum = %v", rot.Enum)
	}
}
