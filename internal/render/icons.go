package render

import (
	"fmt"
	"html/template"
)

// Icon identifies one of the fixed section icons.
type Icon string

const (
	IconBriefcase     Icon = "Briefcase"
	IconUser          Icon = "User"
	IconWrench        Icon = "Wrench"
	IconGraduationCap Icon = "GraduationCap"
	IconClipboardList Icon = "ClipboardList"
	IconCode          Icon = "Code"
	IconCpu           Icon = "Cpu"
	IconDatabase      Icon = "Database"
	IconStar          Icon = "Star"
	IconLayers        Icon = "Layers"
	IconFileText      Icon = "FileText"
	IconSettings      Icon = "Settings"
	IconTrophy        Icon = "Trophy"
	IconCloud         Icon = "Cloud"
	IconBookOpen      Icon = "BookOpen"
	IconTerminal      Icon = "Terminal"
)

// FallbackIcon is drawn for identifiers outside the icon set.
const FallbackIcon = IconFileText

// Icons is the picker grid, in display order.
var Icons = []Icon{
	IconBriefcase, IconUser, IconWrench, IconGraduationCap, IconClipboardList,
	IconCode, IconCpu, IconDatabase, IconStar, IconLayers, IconFileText,
	IconSettings, IconTrophy, IconCloud, IconBookOpen, IconTerminal,
}

var iconShapes = map[Icon]string{
	IconBriefcase:     `<rect width="20" height="14" x="2" y="7" rx="2"/><path d="M16 21V5a2 2 0 0 0-2-2h-4a2 2 0 0 0-2 2v16"/>`,
	IconUser:          `<path d="M19 21v-2a4 4 0 0 0-4-4H9a4 4 0 0 0-4 4v2"/><circle cx="12" cy="7" r="4"/>`,
	IconWrench:        `<path d="M14.7 6.3a1 1 0 0 0 0 1.4l1.6 1.6a1 1 0 0 0 1.4 0l3.77-3.77a6 6 0 0 1-7.94 7.94l-6.91 6.91a2.12 2.12 0 0 1-3-3l6.91-6.91a6 6 0 0 1 7.94-7.94l-3.76 3.76z"/>`,
	IconGraduationCap: `<path d="M22 10v6M2 10l10-5 10 5-10 5z"/><path d="M6 12v5c3 3 9 3 12 0v-5"/>`,
	IconClipboardList: `<rect width="8" height="4" x="8" y="2" rx="1"/><path d="M16 4h2a2 2 0 0 1 2 2v14a2 2 0 0 1-2 2H6a2 2 0 0 1-2-2V6a2 2 0 0 1 2-2h2"/><path d="M12 11h4M12 16h4M8 11h.01M8 16h.01"/>`,
	IconCode:          `<polyline points="16 18 22 12 16 6"/><polyline points="8 6 2 12 8 18"/>`,
	IconCpu:           `<rect width="16" height="16" x="4" y="4" rx="2"/><rect width="6" height="6" x="9" y="9" rx="1"/><path d="M15 2v2M15 20v2M2 15h2M2 9h2M20 15h2M20 9h2M9 2v2M9 20v2"/>`,
	IconDatabase:      `<ellipse cx="12" cy="5" rx="9" ry="3"/><path d="M3 5v14a9 3 0 0 0 18 0V5"/><path d="M3 12a9 3 0 0 0 18 0"/>`,
	IconStar:          `<polygon points="12 2 15.09 8.26 22 9.27 17 14.14 18.18 21.02 12 17.77 5.82 21.02 7 14.14 2 9.27 8.91 8.26 12 2"/>`,
	IconLayers:        `<polygon points="12 2 2 7 12 12 22 7 12 2"/><polyline points="2 17 12 22 22 17"/><polyline points="2 12 12 17 22 12"/>`,
	IconFileText:      `<path d="M14.5 2H6a2 2 0 0 0-2 2v16a2 2 0 0 0 2 2h12a2 2 0 0 0 2-2V7.5L14.5 2z"/><polyline points="14 2 14 8 20 8"/><path d="M16 13H8M16 17H8M10 9H8"/>`,
	IconSettings:      `<circle cx="12" cy="12" r="3"/><path d="M12 1v4M12 19v4M4.22 4.22l2.83 2.83M16.95 16.95l2.83 2.83M1 12h4M19 12h4M4.22 19.78l2.83-2.83M16.95 7.05l2.83-2.83"/>`,
	IconTrophy:        `<path d="M6 9H4.5a2.5 2.5 0 0 1 0-5H6M18 9h1.5a2.5 2.5 0 0 0 0-5H18M4 22h16M10 14.66V17c0 .55-.47.98-.97 1.21C7.85 18.75 7 20.24 7 22M14 14.66V17c0 .55.47.98.97 1.21C16.15 18.75 17 20.24 17 22M18 2H6v7a6 6 0 0 0 12 0V2z"/>`,
	IconCloud:         `<path d="M17.5 19H9a7 7 0 1 1 6.71-9h1.79a4.5 4.5 0 1 1 0 9z"/>`,
	IconBookOpen:      `<path d="M2 3h6a4 4 0 0 1 4 4v14a3 3 0 0 0-3-3H2z"/><path d="M22 3h-6a4 4 0 0 0-4 4v14a3 3 0 0 1 3-3h7z"/>`,
	IconTerminal:      `<polyline points="4 17 10 11 4 5"/><line x1="12" x2="20" y1="19" y2="19"/>`,
}

// Glyphs used by the editing chrome rather than by sections.
var uiShapes = map[string]string{
	"GripVertical":     `<circle cx="9" cy="5" r="1"/><circle cx="9" cy="12" r="1"/><circle cx="9" cy="19" r="1"/><circle cx="15" cy="5" r="1"/><circle cx="15" cy="12" r="1"/><circle cx="15" cy="19" r="1"/>`,
	"Bold":             `<path d="M6 4h8a4 4 0 0 1 0 8H6zM6 12h9a4 4 0 0 1 0 8H6z"/>`,
	"Italic":           `<line x1="19" x2="10" y1="4" y2="4"/><line x1="14" x2="5" y1="20" y2="20"/><line x1="15" x2="9" y1="4" y2="20"/>`,
	"Underline":        `<path d="M6 4v6a6 6 0 0 0 12 0V4"/><line x1="4" x2="20" y1="20" y2="20"/>`,
	"RemoveFormatting": `<path d="M4 7V4h16v3M5 20h6M13 4 8 20M15 15l5 5M20 15l-5 5"/>`,
}

// LookupIcon resolves a stored identifier. Unknown identifiers fall back to
// FallbackIcon instead of failing.
func LookupIcon(id string) Icon {
	if _, ok := iconShapes[Icon(id)]; ok {
		return Icon(id)
	}
	return FallbackIcon
}

// Known reports whether id names an icon of the set.
func Known(id string) bool {
	_, ok := iconShapes[Icon(id)]
	return ok
}

// SVG draws the icon at size pixels with the given stroke color.
func (i Icon) SVG(size int, color string) template.HTML {
	return svg(iconShapes[LookupIcon(string(i))], size, color)
}

func glyph(name string, size int, color string) template.HTML {
	return svg(uiShapes[name], size, color)
}

func svg(shape string, size int, color string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 24 24" fill="none" stroke="%s" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">%s</svg>`,
		size, size, template.HTMLEscapeString(color), shape))
}
