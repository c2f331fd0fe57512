package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"

	"cv-editor/internal/cv"
)

type exportPersonal struct {
	Title    template.HTML
	Subtitle template.HTML
}

type exportMission struct {
	Name  template.HTML
	Tasks []template.HTML
	Tools string
}

type exportExperience struct {
	Title     template.HTML
	Client    template.HTML
	StartDate template.HTML
	EndDate   template.HTML
	Missions  []exportMission
}

type exportRating struct {
	Name  template.HTML
	Label string
	Level float64
}

type exportSkill struct {
	Name    template.HTML
	Details template.HTML
}

type exportEducation struct {
	Years  template.HTML
	Degree template.HTML
	School template.HTML
}

type exportView struct {
	Name          template.HTML
	Personal      exportPersonal
	Contact       []template.HTML
	Summary       []template.HTML
	Experiences   []exportExperience
	ProfileSkills []exportRating
	Skills        []exportSkill
	Education     []exportEducation
}

func trusted(s string) template.HTML { return template.HTML(s) }

func exportOf(doc cv.Document) exportView {
	p := doc.Personal
	v := exportView{
		Name:     trusted(strings.TrimSpace(p.FirstName + " " + p.LastName)),
		Personal: exportPersonal{Title: trusted(p.Title), Subtitle: trusted(p.Subtitle)},
	}
	for _, c := range []string{p.Email, p.Phone, p.Website, p.LinkedIn} {
		if c != "" {
			v.Contact = append(v.Contact, trusted(c))
		}
	}
	for _, s := range doc.Summary {
		v.Summary = append(v.Summary, trusted(s))
	}
	for _, e := range doc.Experiences {
		ev := exportExperience{
			Title:     trusted(e.Title),
			Client:    trusted(e.Client),
			StartDate: trusted(e.StartDate),
			EndDate:   trusted(e.EndDate),
		}
		for _, m := range e.Missions {
			mv := exportMission{Name: trusted(m.Name), Tools: strings.Join(ToolBadges(m.Tools), ", ")}
			for _, t := range m.Tasks {
				mv.Tasks = append(mv.Tasks, trusted(t))
			}
			ev.Missions = append(ev.Missions, mv)
		}
		v.Experiences = append(v.Experiences, ev)
	}
	for _, s := range doc.ProfileSkills {
		v.ProfileSkills = append(v.ProfileSkills, exportRating{Name: trusted(s.Name), Label: LevelLabel(s.Level), Level: s.Level})
	}
	for _, s := range doc.Skills {
		v.Skills = append(v.Skills, exportSkill{Name: trusted(s.Name), Details: trusted(s.Details)})
	}
	for _, e := range doc.Education {
		v.Education = append(v.Education, exportEducation{Years: trusted(e.Years), Degree: trusted(e.Degree), School: trusted(e.School)})
	}
	return v
}

// Markdown exports doc as a Markdown document.
func Markdown(doc cv.Document) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "export", exportOf(doc)); err != nil {
		return "", fmt.Errorf("render export: %w", err)
	}

	root, err := html.Parse(&buf)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	article := findByID(root, "cv")
	if article == nil {
		return "", fmt.Errorf("export article not found")
	}

	md, err := htmltomarkdown.ConvertNode(article)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return strings.TrimSpace(string(md)) + "\n", nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
