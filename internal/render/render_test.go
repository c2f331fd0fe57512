package render

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"cv-editor/internal/cv"
)

func TestUnits(t *testing.T) {
	got := Units(2.5)
	want := []Lit{FullLit, FullLit, HalfLit, Unlit, Unlit}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Units(2.5) = %v, want %v", got, want)
	}
}

func TestClickRightToggles(t *testing.T) {
	level := 1.0
	level = ClickRight(level, 3)
	if level != 3 {
		t.Fatalf("first right click on unit 3 = %v, want 3", level)
	}
	level = ClickRight(level, 3)
	if level != 2.5 {
		t.Fatalf("second right click on unit 3 = %v, want 2.5", level)
	}
}

func TestClickLeftToggles(t *testing.T) {
	level := ClickLeft(4, 3)
	if level != 2.5 {
		t.Fatalf("left click on full unit 3 = %v, want 2.5", level)
	}
	level = ClickLeft(level, 3)
	if level != 2 {
		t.Fatalf("left click on half unit 3 = %v, want 2", level)
	}
}

func TestClicksStayOnHalfSteps(t *testing.T) {
	level := 0.0
	for step := 0; step < 200; step++ {
		unit := step%RatingUnits + 1
		if step%3 == 0 {
			level = ClickLeft(level, unit)
		} else {
			level = ClickRight(level, unit)
		}
		if level < 0 || level > 5 || level*2 != float64(int(level*2)) {
			t.Fatalf("level %v left the half-step scale", level)
		}
	}
}

func TestLevelLabel(t *testing.T) {
	cases := map[float64]string{5: "Expert", 4.5: "Advanced", 4: "Advanced", 3: "Intermediate", 2.5: "Beginner", 1.5: "Basic", 0: "Basic"}
	for level, want := range cases {
		if got := LevelLabel(level); got != want {
			t.Fatalf("LevelLabel(%v) = %q, want %q", level, got, want)
		}
	}
}

func TestToolBadges(t *testing.T) {
	got := ToolBadges(" React, ,TypeScript ,, Docker")
	want := []string{"React", "TypeScript", "Docker"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ToolBadges = %v, want %v", got, want)
	}
	if ToolBadges("") != nil {
		t.Fatalf("expected no badges for empty tools")
	}
	if got := ToolBadges("<b>Go</b>, Docker &amp; K8s"); !reflect.DeepEqual(got, []string{"Go", "Docker & K8s"}) {
		t.Fatalf("badges keep formatting: %v", got)
	}
}

func TestLookupIconFallback(t *testing.T) {
	if LookupIcon("Rocket") != IconFileText {
		t.Fatalf("expected fallback icon")
	}
	if LookupIcon("Cloud") != IconCloud {
		t.Fatalf("expected known icon")
	}
	if len(Icons) != 16 {
		t.Fatalf("expected 16 icons, got %d", len(Icons))
	}
}

func renderPage(t *testing.T, doc cv.Document, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	if err := WritePage(&buf, doc, opts); err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	return buf.String()
}

func TestReadModePage(t *testing.T) {
	out := renderPage(t, cv.Default(), Options{})
	if strings.Contains(out, `contenteditable="true" data-cell`) {
		t.Fatalf("read mode must not render editable cells")
	}
	if strings.Contains(out, `drag-handle"`) || strings.Contains(out, `data-action="add"`) {
		t.Fatalf("read mode must not render edit affordances")
	}
	for _, want := range []string{`class="cv-page"`, `id="cv-wrapper"`, "<b>8 ans</b>", `class="tool-badge">Playwright<`, "Expert"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
}

func TestEditModePage(t *testing.T) {
	out := renderPage(t, cv.Default(), Options{EditMode: true})
	for _, want := range []string{
		`contenteditable="true" data-cell="personal.firstName"`,
		`data-cell="experiences[exp-assurance].missions[m-api-sinistres].tasks[0]"`,
		`data-drag-id="exp-banque-privee"`,
		`data-scope="experiences">+ Expérience<`,
		`data-action="rate" data-side="right" data-index="0" data-unit="5"`,
		`id="format-toolbar"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in edit page", want)
		}
	}
	if strings.Contains(out, `class="tool-badges"`) {
		t.Fatalf("edit mode shows tools as an editable cell")
	}
}

func TestEditModeShowsLiveDisplay(t *testing.T) {
	p := cv.PersonalPath("title")
	out := renderPage(t, cv.Default(), Options{EditMode: true, Display: map[cv.Path]string{p: "EN COURS"}})
	if !strings.Contains(out, "EN COURS") {
		t.Fatalf("expected live content of the focused cell")
	}
}

func TestLiveDisplayIsSanitized(t *testing.T) {
	p := cv.PersonalPath("title")
	live := `<img src=x onerror=alert(2)><u>EN</u> COURS<script>alert(1)</script>`
	out := renderPage(t, cv.Default(), Options{EditMode: true, Display: map[cv.Path]string{p: live}})
	if !strings.Contains(out, "<u>EN</u> COURS") {
		t.Fatalf("expected sanitized live content")
	}
	if strings.Contains(out, "onerror") || strings.Contains(out, "alert(1)") || strings.Contains(out, "alert(2)") {
		t.Fatalf("live content must not carry active markup")
	}
}

func TestIconPicker(t *testing.T) {
	doc := cv.Default()
	doc.Sections.Skills = "Unknown"
	out := renderPage(t, doc, Options{EditMode: true, Picker: cv.SectionSkills})
	if n := strings.Count(out, `data-action="pick" data-section="skills"`); n != len(Icons) {
		t.Fatalf("expected %d picker buttons, got %d", len(Icons), n)
	}

	v := Build(doc, Options{})
	if v.SkillsBar.Icon != IconFileText || v.SkillsBar.PickerOpen {
		t.Fatalf("unexpected skills bar %+v", v.SkillsBar)
	}
}

func TestClientHiddenWhenEmpty(t *testing.T) {
	doc := cv.Default()
	doc.Experiences[0].Client = ""
	v := Build(doc, Options{})
	if v.Exps[0].ShowClient || !v.Exps[1].ShowClient {
		t.Fatalf("unexpected client visibility")
	}
}

func TestSkillDetailsVisibility(t *testing.T) {
	doc := cv.Default()
	doc.Skills[0].Details = ""
	if Build(doc, Options{}).SkillItems[0].ShowDetails {
		t.Fatalf("empty details hidden in read mode")
	}
	if !Build(doc, Options{EditMode: true}).SkillItems[0].ShowDetails {
		t.Fatalf("empty details shown in edit mode")
	}
}

func TestScaleIndicator(t *testing.T) {
	if v := Build(cv.Default(), Options{}); v.Indicator.Visible {
		t.Fatalf("indicator hidden without a measured scale")
	}
	if v := Build(cv.Default(), Options{Scale: 0.85}); !v.Indicator.Visible || v.Indicator.Label != "85%" {
		t.Fatalf("unexpected indicator %+v", v.Indicator)
	}
}

func TestPrintHTMLHasNoEditor(t *testing.T) {
	out, err := PrintHTML(cv.Default())
	if err != nil {
		t.Fatalf("PrintHTML: %v", err)
	}
	if strings.Contains(out, "window.CV") || strings.Contains(out, `class="app-bar`) {
		t.Fatalf("print page must not carry the editor")
	}
}

func TestMarkdown(t *testing.T) {
	md, err := Markdown(cv.Default())
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	for _, want := range []string{"# Camille MARTIN", "## Expériences professionnelles", "**8 ans**", "React : Expert"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
}
