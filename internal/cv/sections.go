package cv

import "fmt"

// SectionKey names one of the fixed page sections that carry an icon.
type SectionKey string

const (
	SectionSummary     SectionKey = "summary"
	SectionExperiences SectionKey = "experiences"
	SectionProfile     SectionKey = "profile"
	SectionSkills      SectionKey = "skills"
	SectionEducation   SectionKey = "education"
)

// SectionKeys lists every section key in page order.
var SectionKeys = []SectionKey{
	SectionSummary,
	SectionExperiences,
	SectionProfile,
	SectionSkills,
	SectionEducation,
}

var defaultSectionIcons = map[SectionKey]string{
	SectionSummary:     "ClipboardList",
	SectionExperiences: "Briefcase",
	SectionProfile:     "User",
	SectionSkills:      "Wrench",
	SectionEducation:   "GraduationCap",
}

// Sections maps each section key to an icon identifier. Using a struct keeps
// every key present; unknown identifiers are resolved at render time.
type Sections struct {
	Summary     string `json:"summary"`
	Experiences string `json:"experiences"`
	Profile     string `json:"profile"`
	Skills      string `json:"skills"`
	Education   string `json:"education"`
}

// Valid reports whether key belongs to the fixed section set.
func (k SectionKey) Valid() bool {
	_, ok := defaultSectionIcons[k]
	return ok
}

// DefaultIcon returns the icon a section uses when none is stored.
func (k SectionKey) DefaultIcon() string {
	return defaultSectionIcons[k]
}

// Get returns the icon identifier stored for key.
func (s Sections) Get(key SectionKey) string {
	switch key {
	case SectionSummary:
		return s.Summary
	case SectionExperiences:
		return s.Experiences
	case SectionProfile:
		return s.Profile
	case SectionSkills:
		return s.Skills
	case SectionEducation:
		return s.Education
	}
	return ""
}

// Set stores icon for key.
func (s *Sections) Set(key SectionKey, icon string) error {
	switch key {
	case SectionSummary:
		s.Summary = icon
	case SectionExperiences:
		s.Experiences = icon
	case SectionProfile:
		s.Profile = icon
	case SectionSkills:
		s.Skills = icon
	case SectionEducation:
		s.Education = icon
	default:
		return fmt.Errorf("unknown section %q", key)
	}
	return nil
}

func (s *Sections) fillDefaults() {
	for _, key := range SectionKeys {
		if s.Get(key) == "" {
			_ = s.Set(key, key.DefaultIcon())
		}
	}
}
