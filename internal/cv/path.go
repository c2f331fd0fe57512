package cv

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses one editable string field of a Document, for example
// "personal.firstName", "summary[2]" or
// "experiences[exp-1].missions[m-1].tasks[0]". Experiences and missions are
// addressed by identity, every other list by index.
type Path string

type segment struct {
	name   string
	key    string
	hasKey bool
}

func PersonalPath(field string) Path { return Path("personal." + field) }

func SummaryPath(i int) Path { return Path(fmt.Sprintf("summary[%d]", i)) }

func ExperiencePath(expID, field string) Path {
	return Path(fmt.Sprintf("experiences[%s].%s", expID, field))
}

func MissionPath(expID, missionID, field string) Path {
	return Path(fmt.Sprintf("experiences[%s].missions[%s].%s", expID, missionID, field))
}

func TaskPath(expID, missionID string, i int) Path {
	return Path(fmt.Sprintf("experiences[%s].missions[%s].tasks[%d]", expID, missionID, i))
}

func ProfileSkillPath(i int) Path { return Path(fmt.Sprintf("profileSkills[%d].name", i)) }

func SkillPath(i int, field string) Path { return Path(fmt.Sprintf("skills[%d].%s", i, field)) }

func EducationPath(i int, field string) Path {
	return Path(fmt.Sprintf("education[%d].%s", i, field))
}

// Get returns the value stored at p.
func Get(doc *Document, p Path) (string, error) {
	ptr, err := doc.field(p)
	if err != nil {
		return "", err
	}
	return *ptr, nil
}

// Set writes value at p. It is meant to run inside an update mutator.
func Set(doc *Document, p Path, value string) error {
	ptr, err := doc.field(p)
	if err != nil {
		return err
	}
	*ptr = value
	return nil
}

func parsePath(p Path) ([]segment, error) {
	raw := string(p)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty path", ErrUnknownPath)
	}
	var (
		segs []segment
		cur  segment
		buf  strings.Builder
	)
	inKey := false
	for _, r := range raw {
		switch {
		case inKey && r == ']':
			cur.key = buf.String()
			cur.hasKey = true
			buf.Reset()
			inKey = false
		case inKey:
			buf.WriteRune(r)
		case r == '[':
			cur.name = buf.String()
			buf.Reset()
			inKey = true
		case r == '.':
			if !cur.hasKey {
				cur.name = buf.String()
			}
			segs = append(segs, cur)
			cur = segment{}
			buf.Reset()
		default:
			if cur.hasKey {
				return nil, fmt.Errorf("%w: %q", ErrUnknownPath, raw)
			}
			buf.WriteRune(r)
		}
	}
	if inKey {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPath, raw)
	}
	if !cur.hasKey {
		cur.name = buf.String()
	}
	segs = append(segs, cur)
	for _, s := range segs {
		if s.name == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPath, raw)
		}
	}
	return segs, nil
}

func indexKey(s segment, n int) (int, bool) {
	if !s.hasKey {
		return 0, false
	}
	i, err := strconv.Atoi(s.key)
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}

func (d *Document) field(p Path) (*string, error) {
	segs, err := parsePath(p)
	if err != nil {
		return nil, err
	}
	unknown := fmt.Errorf("%w: %q", ErrUnknownPath, string(p))
	head := segs[0]
	switch head.name {
	case "personal":
		if head.hasKey || len(segs) != 2 {
			return nil, unknown
		}
		return d.personalField(segs[1].name, unknown)
	case "summary":
		i, ok := indexKey(head, len(d.Summary))
		if !ok || len(segs) != 1 {
			return nil, unknown
		}
		return &d.Summary[i], nil
	case "experiences":
		return d.experienceField(segs, unknown)
	case "profileSkills":
		i, ok := indexKey(head, len(d.ProfileSkills))
		if !ok || len(segs) != 2 || segs[1].name != "name" {
			return nil, unknown
		}
		return &d.ProfileSkills[i].Name, nil
	case "skills":
		i, ok := indexKey(head, len(d.Skills))
		if !ok || len(segs) != 2 {
			return nil, unknown
		}
		switch segs[1].name {
		case "name":
			return &d.Skills[i].Name, nil
		case "details":
			return &d.Skills[i].Details, nil
		}
	case "education":
		i, ok := indexKey(head, len(d.Education))
		if !ok || len(segs) != 2 {
			return nil, unknown
		}
		switch segs[1].name {
		case "years":
			return &d.Education[i].Years, nil
		case "degree":
			return &d.Education[i].Degree, nil
		case "school":
			return &d.Education[i].School, nil
		}
	}
	return nil, unknown
}

func (d *Document) personalField(name string, unknown error) (*string, error) {
	p := &d.Personal
	switch name {
	case "firstName":
		return &p.FirstName, nil
	case "lastName":
		return &p.LastName, nil
	case "title":
		return &p.Title, nil
	case "subtitle":
		return &p.Subtitle, nil
	case "website":
		return &p.Website, nil
	case "email":
		return &p.Email, nil
	case "phone":
		return &p.Phone, nil
	case "linkedin":
		return &p.LinkedIn, nil
	case "company":
		return &p.Company, nil
	}
	return nil, unknown
}

func (d *Document) experienceField(segs []segment, unknown error) (*string, error) {
	if !segs[0].hasKey || len(segs) < 2 {
		return nil, unknown
	}
	ei := d.ExperienceIndex(segs[0].key)
	if ei < 0 {
		return nil, unknown
	}
	exp := &d.Experiences[ei]
	if len(segs) == 2 {
		switch segs[1].name {
		case "title":
			return &exp.Title, nil
		case "client":
			return &exp.Client, nil
		case "startDate":
			return &exp.StartDate, nil
		case "endDate":
			return &exp.EndDate, nil
		}
		return nil, unknown
	}
	if segs[1].name != "missions" || !segs[1].hasKey || len(segs) != 3 {
		return nil, unknown
	}
	mi := exp.MissionIndex(segs[1].key)
	if mi < 0 {
		return nil, unknown
	}
	m := &exp.Missions[mi]
	last := segs[2]
	switch last.name {
	case "name":
		if !last.hasKey {
			return &m.Name, nil
		}
	case "tools":
		if !last.hasKey {
			return &m.Tools, nil
		}
	case "tasks":
		if ti, ok := indexKey(last, len(m.Tasks)); ok {
			return &m.Tasks[ti], nil
		}
	}
	return nil, unknown
}
