package richtext

import "errors"

var ErrNotFocused = errors.New("cell is not being edited")

// KeyAction is what a key press does to a focused cell.
type KeyAction int

const (
	KeyNone KeyAction = iota
	// KeyBlur ends editing of the cell, which commits it.
	KeyBlur
	// KeyLineBreak lets the browser insert a line break.
	KeyLineBreak
)

// Cell is the editing state of one rich-text field. committed mirrors the
// stored value; display is what the element currently shows, which may
// hold uncommitted input while the cell has focus.
type Cell struct {
	committed string
	display   string
	focused   bool
}

func NewCell(stored string) *Cell {
	return &Cell{committed: stored, display: stored}
}

// View returns the markup the element shows.
func (c *Cell) View() string { return c.display }

func (c *Cell) Focused() bool { return c.focused }

// Sync is called whenever the stored value may have changed. The displayed
// content follows it only while the cell does not have focus, so live input
// is never overwritten by unrelated updates. It reports whether the display
// changed.
func (c *Cell) Sync(stored string) bool {
	c.committed = stored
	if c.focused || c.display == stored {
		return false
	}
	c.display = stored
	return true
}

func (c *Cell) Focus() { c.focused = true }

// Input records the element's live content. Nothing is committed.
func (c *Cell) Input(markup string) error {
	if !c.focused {
		return ErrNotFocused
	}
	c.display = markup
	return nil
}

// KeyDown maps a key press to its effect: Enter ends editing, Shift+Enter
// inserts a line break.
func (c *Cell) KeyDown(key string, shift bool) KeyAction {
	if !c.focused || key != "Enter" {
		return KeyNone
	}
	if shift {
		return KeyLineBreak
	}
	return KeyBlur
}

// Blur ends editing. changed is true when the content differs from the last
// committed value, in which case value must be committed by the caller.
func (c *Cell) Blur() (value string, changed bool) {
	c.focused = false
	if c.display == c.committed {
		return c.display, false
	}
	c.committed = c.display
	return c.display, true
}

// Format applies cmd to the selection of the focused cell. Focus is kept.
func (c *Cell) Format(sel Range, cmd Command) error {
	if !c.focused {
		return ErrNotFocused
	}
	out, err := Apply(c.display, sel, cmd)
	if err != nil {
		return err
	}
	c.display = out
	return nil
}
