package cv

import (
	"errors"
	"strings"
	"testing"
)

func TestPathGetSet(t *testing.T) {
	cases := []struct {
		name string
		path Path
		want string
	}{
		{name: "personal", path: PersonalPath("firstName"), want: "Camille"},
		{name: "summary", path: SummaryPath(1), want: "Conception d'architectures <b>serverless</b> sur AWS"},
		{name: "experience", path: ExperiencePath("exp-assurance", "client"), want: "Assureur national"},
		{name: "mission", path: MissionPath("exp-banque-privee", "m-portail-client", "tools"), want: "React, TypeScript, Playwright, GitLab CI"},
		{name: "task", path: TaskPath("exp-assurance", "m-api-sinistres", 1), want: "Déploiement sur AWS Lambda et API Gateway"},
		{name: "profile skill", path: ProfileSkillPath(2), want: "AWS"},
		{name: "skill details", path: SkillPath(0, "details"), want: "React, Vue.js, TypeScript"},
		{name: "education", path: EducationPath(0, "school"), want: "INSA Lyon"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := Default()
			got, err := Get(&doc, tc.path)
			if err != nil {
				t.Fatalf("Get(%s): %v", tc.path, err)
			}
			if got != tc.want {
				t.Fatalf("Get(%s) = %q, want %q", tc.path, got, tc.want)
			}

			if err := Set(&doc, tc.path, "edited"); err != nil {
				t.Fatalf("Set(%s): %v", tc.path, err)
			}
			got, _ = Get(&doc, tc.path)
			if got != "edited" {
				t.Fatalf("after Set, Get(%s) = %q", tc.path, got)
			}
		})
	}
}

func TestPathUnknown(t *testing.T) {
	paths := []Path{
		"",
		"personal",
		"personal.age",
		"summary[9]",
		"summary[x]",
		"summary",
		"experiences[missing].title",
		"experiences[exp-assurance]",
		"experiences[exp-assurance].missions[m-api-sinistres].tasks[5]",
		"experiences[exp-assurance].missions[nope].name",
		"profileSkills[0].level",
		"skills[0].other",
		"education[0",
		"education[0]x.school",
	}
	for _, p := range paths {
		doc := Default()
		if _, err := Get(&doc, p); !errors.Is(err, ErrUnknownPath) {
			t.Fatalf("Get(%q) expected ErrUnknownPath, got %v", p, err)
		}
	}
}

func TestPathKeysMayContainDots(t *testing.T) {
	doc := Default()
	doc.Experiences[0].ID = "exp-v1.2"
	p := ExperiencePath("exp-v1.2", "title")
	if !strings.Contains(string(p), "[exp-v1.2]") {
		t.Fatalf("unexpected path %q", p)
	}
	got, err := Get(&doc, p)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "Lead développeuse" {
		t.Fatalf("Get = %q", got)
	}
}

func TestNewExperienceDefaults(t *testing.T) {
	exp := NewExperience()
	if !strings.HasPrefix(exp.ID, "exp-") || len(exp.ID) <= len("exp-") {
		t.Fatalf("expected fresh id, got %q", exp.ID)
	}
	if exp.Title != "Nouveau poste" {
		t.Fatalf("unexpected title %q", exp.Title)
	}
	if len(exp.Missions) != 1 {
		t.Fatalf("expected one mission, got %d", len(exp.Missions))
	}
	if got := exp.Missions[0].Tasks; len(got) != 1 || got[0] != "Tâche 1" {
		t.Fatalf("unexpected tasks %v", got)
	}
	if other := NewExperience(); other.ID == exp.ID {
		t.Fatalf("ids must be unique, got %q twice", exp.ID)
	}
}
