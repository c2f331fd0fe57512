package richtext

import "strings"

// ToolbarOffset is the distance in pixels between the top of the selection
// and the toolbar anchor.
const ToolbarOffset = 46

type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Selection describes the document selection as reported by the browser.
type Selection struct {
	Text       string  `json:"text"`
	Collapsed  bool    `json:"collapsed"`
	InEditable bool    `json:"inEditable"`
	Cell       string  `json:"cell,omitempty"`
	Range      Range   `json:"range"`
	Bounds     Rect    `json:"bounds"`
	ScrollY    float64 `json:"scrollY"`
}

// ToolbarState is where the floating toolbar is drawn, if at all.
type ToolbarState struct {
	Visible bool    `json:"visible"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Cell    string  `json:"cell,omitempty"`
	Range   Range   `json:"range"`
}

type Control struct {
	Command Command `json:"command"`
	Title   string  `json:"title"`
	Icon    string  `json:"icon"`
}

// Controls are the toolbar buttons, in display order.
var Controls = []Control{
	{Command: CmdBold, Title: "Gras (Ctrl+B)", Icon: "Bold"},
	{Command: CmdItalic, Title: "Italique (Ctrl+I)", Icon: "Italic"},
	{Command: CmdUnderline, Title: "Souligné (Ctrl+U)", Icon: "Underline"},
	{Command: CmdRemoveFormat, Title: "Supprimer la mise en forme", Icon: "RemoveFormatting"},
}

// Toolbar follows the selection while editing.
type Toolbar struct {
	state ToolbarState
}

func (t *Toolbar) State() ToolbarState { return t.state }

// Hide removes the toolbar, as when leaving edit mode.
func (t *Toolbar) Hide() { t.state = ToolbarState{} }

// OnSelectionChange recomputes the toolbar for sel. The toolbar is shown
// only in edit mode, for a non-blank selection anchored in an editable
// cell, centered above the selection.
func (t *Toolbar) OnSelectionChange(editMode bool, sel Selection) ToolbarState {
	if !editMode || sel.Collapsed || strings.TrimSpace(sel.Text) == "" || !sel.InEditable {
		t.Hide()
		return t.state
	}
	t.state = ToolbarState{
		Visible: true,
		X:       sel.Bounds.Left + sel.Bounds.Width/2,
		Y:       sel.Bounds.Top + sel.ScrollY - ToolbarOffset,
		Cell:    sel.Cell,
		Range:   sel.Range,
	}
	return t.state
}
