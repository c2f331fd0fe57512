package editor

import (
	"cv-editor/internal/cv"
	"cv-editor/internal/reorder"
	"cv-editor/internal/richtext"
)

// Event is one UI event forwarded by the page script.
type Event struct {
	Type string `json:"type"`

	Cell  cv.Path `json:"cell,omitempty"`
	HTML  *string `json:"html,omitempty"`
	Key   string  `json:"key,omitempty"`
	Shift bool    `json:"shift,omitempty"`

	Selection *richtext.Selection `json:"selection,omitempty"`
	Command   richtext.Command    `json:"command,omitempty"`
	Range     richtext.Range      `json:"range"`

	Scope string        `json:"scope,omitempty"`
	ID    string        `json:"id,omitempty"`
	Point reorder.Point `json:"point"`
	Over  string        `json:"over,omitempty"`

	Section cv.SectionKey `json:"section,omitempty"`
}

const (
	EventFocus      = "focus"
	EventInput      = "input"
	EventBlur       = "blur"
	EventKey        = "key"
	EventSelection  = "selection"
	EventFormat     = "format"
	EventDragStart  = "dragStart"
	EventDragMove   = "dragMove"
	EventDragEnd    = "dragEnd"
	EventDragCancel = "dragCancel"
	EventIconToggle = "iconToggle"
)

// Command is a structured change request.
type Command struct {
	Op string `json:"op"`

	Cell  cv.Path `json:"cell,omitempty"`
	Value string  `json:"value,omitempty"`

	Scope    string `json:"scope,omitempty"`
	Index    int    `json:"index"`
	ActiveID string `json:"activeId,omitempty"`
	OverID   string `json:"overId,omitempty"`

	Section cv.SectionKey `json:"section,omitempty"`
	Icon    string        `json:"icon,omitempty"`

	Unit int    `json:"unit,omitempty"`
	Side string `json:"side,omitempty"`

	On bool `json:"on"`
}

const (
	OpSet      = "set"
	OpAdd      = "add"
	OpRemove   = "remove"
	OpReorder  = "reorder"
	OpSetIcon  = "setIcon"
	OpRate     = "rate"
	OpEditMode = "editMode"
)

// DragState describes an active drag.
type DragState struct {
	Scope string `json:"scope"`
	ID    string `json:"id"`
}

// ViewState is what the page needs to update after events or commands.
type ViewState struct {
	Version  uint64                `json:"version"`
	EditMode bool                  `json:"editMode"`
	Cells    map[cv.Path]string    `json:"cells,omitempty"`
	Toolbar  richtext.ToolbarState `json:"toolbar"`
	Key      string                `json:"keyAction,omitempty"`
	Picker   cv.SectionKey         `json:"picker,omitempty"`
	Drag     *DragState            `json:"drag,omitempty"`
	Refresh  bool                  `json:"refresh,omitempty"`
}
