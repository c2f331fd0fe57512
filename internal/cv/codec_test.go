package cv

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := Default()

	raw, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(raw), "\n  \"personal\": {") {
		t.Fatalf("expected 2-space indented output, got %s", raw[:40])
	}

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(doc, got) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", doc, got)
	}
}

func TestEncodeEmptyListsAsArrays(t *testing.T) {
	var doc Document
	Normalize(&doc)

	raw, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(string(raw), "null") {
		t.Fatalf("expected no null values, got %s", raw)
	}

	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(doc, got) {
		t.Fatalf("round trip mismatch for empty document")
	}
}

func TestDecodeRejectsInvalidJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "not json"},
		{name: "array", raw: "[]"},
		{name: "empty", raw: "   "},
		{name: "truncated", raw: `{"personal": {`},
		{name: "wrong type", raw: `{"summary": "one line"}`},
		{name: "quoted level", raw: `{"profileSkills": [{"name": "SQL", "level": "3"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.raw))
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestDecodeFillsMissingSectionIcons(t *testing.T) {
	doc, err := Decode([]byte(`{"sections": {"summary": "Star"}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Sections.Summary != "Star" {
		t.Fatalf("expected stored icon kept, got %q", doc.Sections.Summary)
	}
	if doc.Sections.Education != "GraduationCap" {
		t.Fatalf("expected default education icon, got %q", doc.Sections.Education)
	}
	if doc.Experiences == nil || doc.Summary == nil {
		t.Fatalf("expected empty lists, got nil")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	doc := Default()
	cp := Clone(doc)

	cp.Summary[0] = "changed"
	cp.Experiences[0].Missions[0].Tasks[0] = "changed"
	cp.ProfileSkills[0].Level = 0
	cp.Personal.FirstName = "changed"

	if doc.Summary[0] == "changed" {
		t.Fatalf("summary shared with clone")
	}
	if doc.Experiences[0].Missions[0].Tasks[0] == "changed" {
		t.Fatalf("tasks shared with clone")
	}
	if doc.ProfileSkills[0].Level == 0 {
		t.Fatalf("profile skills shared with clone")
	}
	if doc.Personal.FirstName == "changed" {
		t.Fatalf("personal shared with clone")
	}
}

func TestDefaultReturnsFreshCopies(t *testing.T) {
	first := Default()
	first.Summary = append(first.Summary[:0], "overwritten")

	second := Default()
	if second.Summary[0] == "overwritten" {
		t.Fatalf("Default returned a shared value")
	}
	if second.Experiences[0].ID != "exp-banque-privee" {
		t.Fatalf("unexpected first experience id %q", second.Experiences[0].ID)
	}
}

func TestClampLevel(t *testing.T) {
	cases := map[float64]float64{
		-1:   0,
		0:    0,
		0.2:  0,
		0.3:  0.5,
		2.74: 2.5,
		2.75: 3,
		5:    5,
		7:    5,
	}
	for in, want := range cases {
		if got := ClampLevel(in); got != want {
			t.Fatalf("ClampLevel(%v) = %v, want %v", in, got, want)
		}
	}
}
