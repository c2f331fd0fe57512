package cv

// Document is the full résumé: personal details, section icons and the
// ordered entity lists rendered on the page.
type Document struct {
	Personal      Personal       `json:"personal"`
	Sections      Sections       `json:"sections"`
	Summary       []string       `json:"summary"`
	Experiences   []Experience   `json:"experiences"`
	ProfileSkills []ProfileSkill `json:"profileSkills"`
	Skills        []Skill        `json:"skills"`
	Education     []Education    `json:"education"`
}

// Personal holds the header fields. None of them is required.
type Personal struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Website   string `json:"website"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	LinkedIn  string `json:"linkedin"`
	Company   string `json:"company"`
}

// Experience is a position held for a client. ID is assigned once at
// creation and is the only identity used for reordering.
type Experience struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Client    string    `json:"client"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Missions  []Mission `json:"missions"`
}

// Mission is a unit of work inside an experience. Tools is a
// comma-separated list.
type Mission struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Tasks []string `json:"tasks"`
	Tools string   `json:"tools"`
}

// ProfileSkill is a rated skill. Level is in [0,5] by steps of 0.5.
type ProfileSkill struct {
	Name  string  `json:"name"`
	Level float64 `json:"level"`
}

// Skill is a named skill with rich-text details.
type Skill struct {
	Name    string `json:"name"`
	Details string `json:"details"`
}

// Education is one diploma line.
type Education struct {
	Years  string `json:"years"`
	Degree string `json:"degree"`
	School string `json:"school"`
}

// MaxLevel is the top of the skill rating scale.
const MaxLevel = 5.0

// ClampLevel snaps a level to the nearest half step inside [0, MaxLevel].
func ClampLevel(level float64) float64 {
	if level <= 0 {
		return 0
	}
	if level >= MaxLevel {
		return MaxLevel
	}
	return float64(int(level*2+0.5)) / 2
}
