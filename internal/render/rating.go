package render

import (
	"strings"

	"cv-editor/internal/cv"
	"cv-editor/internal/richtext"
)

// RatingUnits is the number of two-part units drawn for a skill level.
const RatingUnits = 5

// Lit is how much of a rating unit is highlighted.
type Lit int

const (
	Unlit Lit = iota
	HalfLit
	FullLit
)

func (l Lit) String() string {
	switch l {
	case HalfLit:
		return "half"
	case FullLit:
		return "full"
	}
	return "off"
}

// Unit returns the state of unit i (1-based) for level v: full when v >= i,
// half when i-0.5 <= v < i, unlit otherwise.
func Unit(v float64, i int) Lit {
	fi := float64(i)
	switch {
	case v >= fi:
		return FullLit
	case v >= fi-0.5:
		return HalfLit
	}
	return Unlit
}

// Units returns the state of every unit for level v.
func Units(v float64) []Lit {
	out := make([]Lit, RatingUnits)
	for i := 1; i <= RatingUnits; i++ {
		out[i-1] = Unit(v, i)
	}
	return out
}

// ClickLeft is the level after a click on the left half of unit i: a half
// lit unit drops to the level below it, otherwise the unit becomes half lit.
func ClickLeft(v float64, i int) float64 {
	if Unit(v, i) == HalfLit {
		return cv.ClampLevel(float64(i) - 1)
	}
	return cv.ClampLevel(float64(i) - 0.5)
}

// ClickRight is the level after a click on the right half of unit i: a full
// unit drops to half, otherwise it becomes full.
func ClickRight(v float64, i int) float64 {
	if Unit(v, i) == FullLit {
		return cv.ClampLevel(float64(i) - 0.5)
	}
	return cv.ClampLevel(float64(i))
}

// LevelLabel is the machine-readable text shown next to a rating.
func LevelLabel(v float64) string {
	switch {
	case v >= 5:
		return "Expert"
	case v >= 4:
		return "Advanced"
	case v >= 3:
		return "Intermediate"
	case v >= 2:
		return "Beginner"
	}
	return "Basic"
}

// ToolBadges splits a comma-separated tools field into plain-text badge
// labels, dropping empty entries and any formatting.
func ToolBadges(tools string) []string {
	var out []string
	for _, t := range strings.Split(richtext.PlainText(tools), ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
