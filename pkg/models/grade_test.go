package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestGradeIsValid(t *testing.T) {
	for g := Again; g <= Easy; g++ {
		if !g.IsValid() {
			t.Errorf("Grade(%d).IsValid() = false", int(g))
		}
	}
	for _, g := range []Grade{0, 5, -1} {
		if g.IsValid() {
			t.Errorf("Grade(%d).IsValid() = true", int(g))
		}
	}
}

func TestGradePass(t *testing.T) {
	tests := []struct {
		grade Grade
		want  bool
	}{
		{Again, false},
		{Hard, false},
		{Good, true},
		{Easy, true},
	}
	for _, tt := range tests {
		if got := tt.grade.Pass(); got != tt.want {
			t.Errorf("%v.Pass() = %v, want %v", tt.grade, got, tt.want)
		}
	}
}

func TestGradeString(t *testing.T) {
	tests := []struct {
		grade Grade
		want  string
	}{
		{Again, "Again"},
		{Hard, "Hard"},
		{Good, "Good"},
		{Easy, "Easy"},
		{Grade(7), "Grade(7)"},
	}
	for _, tt := range tests {
		if got := tt.grade.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestGradeJSONRoundTrip(t *testing.T) {
	for g := Again; g <= Easy; g++ {
		data, err := json.Marshal(g)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", g, err)
		}
		var back Grade
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s): %v", data, err)
		}
		if back != g {
			t.Errorf("round trip %v -> %s -> %v", g, data, back)
		}
	}
}

func TestGradeJSONInvalid(t *testing.T) {
	if _, err := json.Marshal(Grade(0)); err == nil {
		t.Error("Marshal(Grade(0)) succeeded")
	}
	var g Grade
	if err := json.Unmarshal([]byte(`"Perfect"`), &g); !errors.Is(err, ErrInvalidGrade) {
		t.Errorf("Unmarshal unknown name err = %v, want ErrInvalidGrade", err)
	}
	if err := json.Unmarshal([]byte(`3`), &g); !errors.Is(err, ErrInvalidGrade) {
		t.Errorf("Unmarshal number err = %v, want ErrInvalidGrade", err)
	}
}
