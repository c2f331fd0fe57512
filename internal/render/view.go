package render

import (
	"html/template"

	"cv-editor/internal/cv"
	"cv-editor/internal/printfit"
	"cv-editor/internal/reorder"
	"cv-editor/internal/richtext"
)

// Options control how a page is rendered.
type Options struct {
	EditMode bool
	// Picker is the section whose icon picker is open, if any.
	Picker cv.SectionKey
	// Display overrides stored values for cells holding live, uncommitted
	// input.
	Display map[cv.Path]string
	// Scale is the last measured print scale; zero when unknown.
	Scale float64
	// Print renders the bare page, without the app bar or editor script.
	Print   bool
	Version uint64
	APIBase string
}

// Cell is one rich-text field on the page.
type Cell struct {
	Path cv.Path
	HTML template.HTML
	Edit bool
}

// Row is an item of a list with its identity and position.
type Row struct {
	Index  int
	DragID string
	Last   bool
}

type SectionBar struct {
	Key        cv.SectionKey
	Title      string
	Icon       Icon
	Right      bool
	Edit       bool
	PickerOpen bool
	Icons      []Icon
}

type ListView struct {
	Scope   cv.ListScope
	Handles bool
}

type SummaryItem struct {
	Row
	Text Cell
}

type ExperienceView struct {
	Row
	ID         string
	Title      Cell
	Client     Cell
	ShowClient bool
	Start      Cell
	End        Cell
	Missions   ListView
	Items      []MissionView
}

type MissionView struct {
	Row
	ID        string
	Name      Cell
	Tasks     ListView
	TaskItems []TaskView
	Tools     Cell
	Badges    []string
}

type TaskView struct {
	Row
	Text Cell
}

type RatingUnit struct {
	Index int
	State string
	Left  bool
	Right bool
}

type ProfileSkillView struct {
	Row
	Name  Cell
	Level float64
	Label string
	Units []RatingUnit
}

type SkillView struct {
	Row
	Name        Cell
	Details     Cell
	ShowDetails bool
}

type EducationView struct {
	Row
	Years  Cell
	Degree Cell
	School Cell
}

// View is everything the page template needs.
type View struct {
	Options
	Indicator printfit.IndicatorState

	Company   string
	FirstName Cell
	LastName  Cell
	Email     Cell
	Phone     Cell
	Website   Cell
	LinkedIn  Cell
	Title     Cell
	Subtitle  Cell

	SummaryBar     SectionBar
	Summary        []SummaryItem
	ExperiencesBar SectionBar
	Experiences    ListView
	Exps           []ExperienceView
	ProfileBar     SectionBar
	Profile        ListView
	ProfileSkills  []ProfileSkillView
	SkillsBar      SectionBar
	Skills         ListView
	SkillItems     []SkillView
	EducationBar   SectionBar
	Education      ListView
	EducationItems []EducationView

	Controls []ToolbarButton
}

type ToolbarButton struct {
	Command string
	Title   string
	Glyph   template.HTML
}

// Build computes the view of doc.
func Build(doc cv.Document, opts Options) View {
	if opts.APIBase == "" {
		opts.APIBase = "/api/v1"
	}
	b := builder{doc: &doc, opts: opts}
	v := View{
		Options:   opts,
		Indicator: printfit.Indicator(scaleOrOne(opts.Scale)),
		Company:   doc.Personal.Company,
		FirstName: b.cell(cv.PersonalPath("firstName")),
		LastName:  b.cell(cv.PersonalPath("lastName")),
		Email:     b.cell(cv.PersonalPath("email")),
		Phone:     b.cell(cv.PersonalPath("phone")),
		Website:   b.cell(cv.PersonalPath("website")),
		LinkedIn:  b.cell(cv.PersonalPath("linkedin")),
		Title:     b.cell(cv.PersonalPath("title")),
		Subtitle:  b.cell(cv.PersonalPath("subtitle")),

		SummaryBar:     b.bar(cv.SectionSummary, "Profil", false),
		ExperiencesBar: b.bar(cv.SectionExperiences, "Expériences professionnelles", false),
		ProfileBar:     b.bar(cv.SectionProfile, "Profil technique", true),
		SkillsBar:      b.bar(cv.SectionSkills, "Compétences", true),
		EducationBar:   b.bar(cv.SectionEducation, "Formations", true),

		Experiences: b.list(cv.ListExperiences),
		Profile:     b.list(cv.ListProfileSkills),
		Skills:      b.list(cv.ListSkills),
		Education:   b.list(cv.ListEducation),
	}

	for i := range doc.Summary {
		v.Summary = append(v.Summary, SummaryItem{
			Row:  Row{Index: i, Last: i == len(doc.Summary)-1},
			Text: b.cell(cv.SummaryPath(i)),
		})
	}

	expIDs := b.ids(cv.ListExperiences)
	for i, exp := range doc.Experiences {
		v.Exps = append(v.Exps, b.experience(exp, row(i, expIDs)))
	}

	skillIDs := b.ids(cv.ListProfileSkills)
	for i, s := range doc.ProfileSkills {
		v.ProfileSkills = append(v.ProfileSkills, ProfileSkillView{
			Row:   row(i, skillIDs),
			Name:  b.cell(cv.ProfileSkillPath(i)),
			Level: s.Level,
			Label: LevelLabel(s.Level),
			Units: b.units(s.Level),
		})
	}

	toolIDs := b.ids(cv.ListSkills)
	for i, s := range doc.Skills {
		v.SkillItems = append(v.SkillItems, SkillView{
			Row:         row(i, toolIDs),
			Name:        b.cell(cv.SkillPath(i, "name")),
			Details:     b.cell(cv.SkillPath(i, "details")),
			ShowDetails: s.Details != "" || opts.EditMode,
		})
	}

	eduIDs := b.ids(cv.ListEducation)
	for i := range doc.Education {
		v.EducationItems = append(v.EducationItems, EducationView{
			Row:    row(i, eduIDs),
			Years:  b.cell(cv.EducationPath(i, "years")),
			Degree: b.cell(cv.EducationPath(i, "degree")),
			School: b.cell(cv.EducationPath(i, "school")),
		})
	}

	if opts.EditMode {
		v.Controls = toolbarControls()
	}
	return v
}

func scaleOrOne(s float64) float64 {
	if s <= 0 {
		return 1
	}
	return s
}

func row(i int, ids []string) Row {
	r := Row{Index: i, Last: i == len(ids)-1}
	if i < len(ids) {
		r.DragID = ids[i]
	}
	return r
}

type builder struct {
	doc  *cv.Document
	opts Options
}

func (b builder) cell(p cv.Path) Cell {
	value, _ := cv.Get(b.doc, p)
	if live, ok := b.opts.Display[p]; ok && b.opts.EditMode {
		value = richtext.Sanitize(live)
	}
	// Stored markup is sanitized on every commit, so only b, i, u and br
	// reach the page.
	return Cell{Path: p, HTML: template.HTML(value), Edit: b.opts.EditMode}
}

func (b builder) ids(scope cv.ListScope) []string {
	ids, _ := b.doc.ListIDs(scope)
	return ids
}

func (b builder) list(scope cv.ListScope) ListView {
	ids := b.ids(scope)
	l := reorder.NewList(ids, ids, b.opts.EditMode)
	return ListView{Scope: scope, Handles: l.Handles()}
}

func (b builder) bar(key cv.SectionKey, title string, right bool) SectionBar {
	bar := SectionBar{
		Key:   key,
		Title: title,
		Icon:  LookupIcon(b.doc.Sections.Get(key)),
		Right: right,
		Edit:  b.opts.EditMode,
	}
	if b.opts.EditMode && b.opts.Picker == key {
		bar.PickerOpen = true
		bar.Icons = Icons
	}
	return bar
}

func (b builder) units(level float64) []RatingUnit {
	out := make([]RatingUnit, 0, RatingUnits)
	for i, lit := range Units(level) {
		out = append(out, RatingUnit{
			Index: i + 1,
			State: lit.String(),
			Left:  lit != Unlit,
			Right: lit == FullLit,
		})
	}
	return out
}

func (b builder) experience(exp cv.Experience, r Row) ExperienceView {
	ev := ExperienceView{
		Row:        r,
		ID:         exp.ID,
		Title:      b.cell(cv.ExperiencePath(exp.ID, "title")),
		Client:     b.cell(cv.ExperiencePath(exp.ID, "client")),
		ShowClient: exp.Client != "",
		Start:      b.cell(cv.ExperiencePath(exp.ID, "startDate")),
		End:        b.cell(cv.ExperiencePath(exp.ID, "endDate")),
		Missions:   b.list(cv.MissionsScope(exp.ID)),
	}
	missionIDs := b.ids(cv.MissionsScope(exp.ID))
	for i, m := range exp.Missions {
		mv := MissionView{
			Row:   row(i, missionIDs),
			ID:    m.ID,
			Name:  b.cell(cv.MissionPath(exp.ID, m.ID, "name")),
			Tasks: b.list(cv.TasksScope(exp.ID, m.ID)),
			Tools: b.cell(cv.MissionPath(exp.ID, m.ID, "tools")),
		}
		if !b.opts.EditMode {
			mv.Badges = ToolBadges(m.Tools)
		}
		taskIDs := b.ids(cv.TasksScope(exp.ID, m.ID))
		for ti := range m.Tasks {
			mv.TaskItems = append(mv.TaskItems, TaskView{
				Row:  row(ti, taskIDs),
				Text: b.cell(cv.TaskPath(exp.ID, m.ID, ti)),
			})
		}
		ev.Items = append(ev.Items, mv)
	}
	return ev
}
