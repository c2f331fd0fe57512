package cv

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Clone returns a deep copy of doc. The copy never shares backing arrays
// with doc, so mutating it cannot affect the source value.
func Clone(doc Document) Document {
	out := Document{
		Personal:      doc.Personal,
		Sections:      doc.Sections,
		Summary:       cloneStrings(doc.Summary),
		Experiences:   make([]Experience, len(doc.Experiences)),
		ProfileSkills: make([]ProfileSkill, len(doc.ProfileSkills)),
		Skills:        make([]Skill, len(doc.Skills)),
		Education:     make([]Education, len(doc.Education)),
	}
	for i, exp := range doc.Experiences {
		out.Experiences[i] = cloneExperience(exp)
	}
	copy(out.ProfileSkills, doc.ProfileSkills)
	copy(out.Skills, doc.Skills)
	copy(out.Education, doc.Education)
	return out
}

func cloneExperience(exp Experience) Experience {
	missions := make([]Mission, len(exp.Missions))
	for i, m := range exp.Missions {
		m.Tasks = cloneStrings(m.Tasks)
		missions[i] = m
	}
	exp.Missions = missions
	return exp
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Normalize makes doc safe to commit: nil lists become empty lists so the
// JSON form always carries arrays, and missing section icons get the
// section's default.
func Normalize(doc *Document) {
	doc.Sections.fillDefaults()
	if doc.Summary == nil {
		doc.Summary = []string{}
	}
	if doc.Experiences == nil {
		doc.Experiences = []Experience{}
	}
	for i := range doc.Experiences {
		if doc.Experiences[i].Missions == nil {
			doc.Experiences[i].Missions = []Mission{}
		}
		for j := range doc.Experiences[i].Missions {
			if doc.Experiences[i].Missions[j].Tasks == nil {
				doc.Experiences[i].Missions[j].Tasks = []string{}
			}
		}
	}
	if doc.ProfileSkills == nil {
		doc.ProfileSkills = []ProfileSkill{}
	}
	if doc.Skills == nil {
		doc.Skills = []Skill{}
	}
	if doc.Education == nil {
		doc.Education = []Education{}
	}
}

// Encode serializes doc as human-readable JSON indented with two spaces.
func Encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses raw JSON into a normalized Document. Any syntax or type
// error is reported as ErrValidation.
func Decode(raw []byte) (Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Document{}, fmt.Errorf("%w: document must be a JSON object", ErrValidation)
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	Normalize(&doc)
	return doc, nil
}
