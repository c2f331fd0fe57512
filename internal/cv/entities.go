package cv

import "github.com/lithammer/shortuuid/v4"

// Placeholder content for entries appended from the page.
const (
	NewSummaryText      = "Nouvelle compétence"
	NewTaskText         = "Nouvelle tâche"
	NewExperienceTitle  = "Nouveau poste"
	NewExperienceClient = "Client"
	NewExperienceStart  = "2025"
	NewExperienceEnd    = "Aujourd'hui"
	FirstMissionName    = "Description mission"
	NewMissionName      = "Nouvelle mission"
	FirstTaskText       = "Tâche 1"
	NewProfileSkillName = "Compétence"
	NewProfileSkillLvl  = 2
	NewSkillName        = "Outil"
	NewSkillDetails     = "Détails"
	NewEducationYears   = "20XX – 20XX"
	NewEducationDegree  = "Diplôme"
	NewEducationSchool  = "École"
)

// NewExperienceID returns a fresh, never recomputed experience identity.
func NewExperienceID() string {
	return "exp-" + shortuuid.New()
}

// NewMissionID returns a fresh mission identity.
func NewMissionID() string {
	return "m-" + shortuuid.New()
}

// NewExperience builds the entry appended by "+ Expérience": one mission
// holding a single task.
func NewExperience() Experience {
	return Experience{
		ID:        NewExperienceID(),
		Title:     NewExperienceTitle,
		Client:    NewExperienceClient,
		StartDate: NewExperienceStart,
		EndDate:   NewExperienceEnd,
		Missions: []Mission{{
			ID:    NewMissionID(),
			Name:  FirstMissionName,
			Tasks: []string{FirstTaskText},
			Tools: "",
		}},
	}
}

// NewMission builds the entry appended by "+ Mission".
func NewMission() Mission {
	return Mission{
		ID:    NewMissionID(),
		Name:  NewMissionName,
		Tasks: []string{FirstTaskText},
		Tools: "",
	}
}

func NewProfileSkill() ProfileSkill {
	return ProfileSkill{Name: NewProfileSkillName, Level: NewProfileSkillLvl}
}

func NewSkill() Skill {
	return Skill{Name: NewSkillName, Details: NewSkillDetails}
}

func NewEducation() Education {
	return Education{Years: NewEducationYears, Degree: NewEducationDegree, School: NewEducationSchool}
}

// ExperienceIndex returns the position of the experience with id, or -1.
func (d *Document) ExperienceIndex(id string) int {
	for i := range d.Experiences {
		if d.Experiences[i].ID == id {
			return i
		}
	}
	return -1
}

// MissionIndex returns the position of mission id inside experience exp, or -1.
func (e *Experience) MissionIndex(id string) int {
	for i := range e.Missions {
		if e.Missions[i].ID == id {
			return i
		}
	}
	return -1
}

// EnsureIDs gives a fresh identity to every experience or mission whose id
// is empty or already used by an earlier sibling. Existing unique ids are
// kept. It returns the number of ids assigned.
func (d *Document) EnsureIDs() int {
	assigned := 0
	seenExp := make(map[string]bool, len(d.Experiences))
	for i := range d.Experiences {
		exp := &d.Experiences[i]
		if exp.ID == "" || seenExp[exp.ID] {
			exp.ID = NewExperienceID()
			assigned++
		}
		seenExp[exp.ID] = true

		seenMission := make(map[string]bool, len(exp.Missions))
		for j := range exp.Missions {
			m := &exp.Missions[j]
			if m.ID == "" || seenMission[m.ID] {
				m.ID = NewMissionID()
				assigned++
			}
			seenMission[m.ID] = true
		}
	}
	return assigned
}
