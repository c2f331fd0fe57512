package cv

import (
	"fmt"

	"cv-editor/internal/reorder"
)

// ListScope names an ordered list of the document, using the same grammar
// as Path: "summary", "experiences", "experiences[exp-1].missions",
// "experiences[exp-1].missions[m-1].tasks", "profileSkills", "skills" and
// "education".
type ListScope string

const (
	ListSummary       ListScope = "summary"
	ListExperiences   ListScope = "experiences"
	ListProfileSkills ListScope = "profileSkills"
	ListSkills        ListScope = "skills"
	ListEducation     ListScope = "education"
)

func MissionsScope(expID string) ListScope {
	return ListScope(fmt.Sprintf("experiences[%s].missions", expID))
}

func TasksScope(expID, missionID string) ListScope {
	return ListScope(fmt.Sprintf("experiences[%s].missions[%s].tasks", expID, missionID))
}

// list is a typed view over one list of a Document, used to implement the
// list operations once per element type.
type list struct {
	ids    func() []string
	add    func()
	remove func(i int) bool
	order  func(ids []string) bool
}

func (d *Document) list(scope ListScope) (list, error) {
	unknown := fmt.Errorf("%w: list %q", ErrUnknownPath, string(scope))
	segs, err := parsePath(Path(scope))
	if err != nil {
		return list{}, unknown
	}
	switch {
	case len(segs) == 1 && !segs[0].hasKey:
		switch segs[0].name {
		case string(ListSummary):
			return stringList(&d.Summary, NewSummaryText, nil), nil
		case string(ListExperiences):
			return sliceList(&d.Experiences, NewExperience, func(e Experience) string { return e.ID }), nil
		case string(ListProfileSkills):
			return sliceList(&d.ProfileSkills, NewProfileSkill, func(s ProfileSkill) string { return s.Name }), nil
		case string(ListSkills):
			return sliceList(&d.Skills, NewSkill, func(s Skill) string { return s.Name }), nil
		case string(ListEducation):
			return sliceList(&d.Education, NewEducation, func(e Education) string { return e.Years }), nil
		}
	case len(segs) == 2 && segs[0].name == "experiences" && segs[0].hasKey &&
		segs[1].name == "missions" && !segs[1].hasKey:
		ei := d.ExperienceIndex(segs[0].key)
		if ei < 0 {
			return list{}, unknown
		}
		return sliceList(&d.Experiences[ei].Missions, NewMission, func(m Mission) string { return m.ID }), nil
	case len(segs) == 3 && segs[0].name == "experiences" && segs[0].hasKey &&
		segs[1].name == "missions" && segs[1].hasKey && segs[2].name == "tasks" && !segs[2].hasKey:
		ei := d.ExperienceIndex(segs[0].key)
		if ei < 0 {
			return list{}, unknown
		}
		mi := d.Experiences[ei].MissionIndex(segs[1].key)
		if mi < 0 {
			return list{}, unknown
		}
		m := &d.Experiences[ei].Missions[mi]
		return stringList(&m.Tasks, NewTaskText, func(s string) string { return s }), nil
	}
	return list{}, unknown
}

func sliceList[T any](items *[]T, fresh func() T, key func(T) string) list {
	ids := func() []string { return reorder.KeyedIDs(*items, key) }
	return list{
		ids: ids,
		add: func() { *items = append(*items, fresh()) },
		remove: func(i int) bool {
			if i < 0 || i >= len(*items) {
				return false
			}
			out := make([]T, 0, len(*items)-1)
			out = append(out, (*items)[:i]...)
			*items = append(out, (*items)[i+1:]...)
			return true
		},
		order: func(order []string) bool {
			out, ok := reorder.Arrange(*items, ids(), order)
			if ok {
				*items = out
			}
			return ok
		},
	}
}

// stringList serves summary points and tasks. A nil key makes the list
// not reorderable.
func stringList(items *[]string, placeholder string, key func(string) string) list {
	l := sliceList(items, func() string { return placeholder }, func(s string) string { return s })
	if key == nil {
		l.ids = func() []string { return nil }
		l.order = func([]string) bool { return false }
	}
	return l
}

// ListIDs returns the drag identity of every item of scope, in order. Lists
// that cannot be reordered yield nil.
func (d *Document) ListIDs(scope ListScope) ([]string, error) {
	l, err := d.list(scope)
	if err != nil {
		return nil, err
	}
	return l.ids(), nil
}

// AddItem appends a placeholder entry to scope. New experiences and missions
// get fresh identities.
func (d *Document) AddItem(scope ListScope) error {
	l, err := d.list(scope)
	if err != nil {
		return err
	}
	l.add()
	return nil
}

// RemoveItem deletes the item at index from scope.
func (d *Document) RemoveItem(scope ListScope, index int) error {
	l, err := d.list(scope)
	if err != nil {
		return err
	}
	if !l.remove(index) {
		return fmt.Errorf("%w: %s has no item %d", ErrUnknownPath, scope, index)
	}
	return nil
}

// ArrangeItems puts the items of scope in the identity order given, as
// computed by a reorder.List over ListIDs. It reports false when nothing
// moved or order does not match the current identities.
func (d *Document) ArrangeItems(scope ListScope, order []string) (bool, error) {
	l, err := d.list(scope)
	if err != nil {
		return false, err
	}
	return l.order(order), nil
}

// SetLevel stores a rating for the profile skill at index.
func (d *Document) SetLevel(index int, level float64) error {
	if index < 0 || index >= len(d.ProfileSkills) {
		return fmt.Errorf("%w: profileSkills has no item %d", ErrUnknownPath, index)
	}
	d.ProfileSkills[index].Level = ClampLevel(level)
	return nil
}
