package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"cv-editor/internal/cloud"
	"cv-editor/internal/cv"
	"cv-editor/internal/printfit"
	"cv-editor/internal/render"
	"cv-editor/internal/reorder"
	"cv-editor/internal/richtext"
	"cv-editor/internal/shared/telemetry"
)

// Session is the editing state of one identity: its store plus everything
// the page shows beyond the document. Events and commands are applied one
// at a time under mu.
type Session struct {
	identity string
	store    *Store
	cloud    *cloud.Service

	mu       sync.Mutex
	editMode bool
	cells    map[cv.Path]*richtext.Cell
	focused  cv.Path
	toolbar  richtext.Toolbar
	drag     reorder.Drag
	picker   cv.SectionKey
	scale    float64

	ready     chan struct{}
	closeOnce sync.Once
	closed    chan struct{}
}

// NewSession wraps store. When remote is set the saved remote document is
// loaded in the background and replaces the local one; Ready is closed once
// that attempt finishes.
func NewSession(identity string, store *Store, remote *cloud.Service) *Session {
	s := &Session{
		identity: identity,
		store:    store,
		cloud:    remote,
		cells:    make(map[cv.Path]*richtext.Cell),
		ready:    make(chan struct{}),
		closed:   make(chan struct{}),
	}
	if remote == nil {
		close(s.ready)
		return s
	}
	go s.initialLoad()
	return s
}

func (s *Session) initialLoad() {
	defer close(s.ready)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.closed:
			cancel()
		case <-ctx.Done():
		}
	}()

	doc, ok, err := s.cloud.Load(ctx, s.identity)
	if err != nil || !ok {
		// Nothing saved remotely, or unreachable: keep the local document.
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.closed:
		return
	default:
	}
	if err := s.store.LoadData(ctx, doc); err != nil {
		telemetry.Error("session.initial_load_failed", map[string]any{"err": err})
		return
	}
	s.syncCells(nil)
}

// Ready is closed when the initial remote load has completed.
func (s *Session) Ready() <-chan struct{} { return s.ready }

// Wait blocks until the session is ready or ctx ends.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	default:
	}
	select {
	case <-s.ready:
		return nil
	case <-s.closed:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close discards the session. A pending initial load is abandoned and its
// result ignored.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

func (s *Session) Store() *Store { return s.store }

func (s *Session) Identity() string { return s.identity }

func (s *Session) EditMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editMode
}

// Snapshot returns the document with the options needed to render it as
// currently shown.
func (s *Session) Snapshot(apiBase string) (cv.Document, render.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	opts := render.Options{
		EditMode: s.editMode,
		Picker:   s.picker,
		Scale:    s.scale,
		Version:  s.store.Version(),
		APIBase:  apiBase,
	}
	if s.editMode && s.focused != "" {
		if c, ok := s.cells[s.focused]; ok {
			opts.Display = map[cv.Path]string{s.focused: c.View()}
		}
	}
	return s.store.Data(), opts
}

// MeasureScale records the page measurements reported by the browser and
// returns the resulting indicator.
func (s *Session) MeasureScale(width, height float64) printfit.IndicatorState {
	scale := printfit.Scale(width, height)
	s.mu.Lock()
	s.scale = scale
	s.mu.Unlock()
	return printfit.Indicator(scale)
}

func (s *Session) view() ViewState {
	v := ViewState{
		Version:  s.store.Version(),
		EditMode: s.editMode,
		Toolbar:  s.toolbar.State(),
		Picker:   s.picker,
	}
	if scope, id, ok := s.drag.Active(); ok {
		v.Drag = &DragState{Scope: scope, ID: id}
	}
	return v
}

func (v *ViewState) setCell(p cv.Path, html string) {
	if v.Cells == nil {
		v.Cells = make(map[cv.Path]string)
	}
	v.Cells[p] = html
}

// HandleEvents applies a batch of UI events in order. Processing stops at
// the first failing event; earlier events keep their effect.
func (s *Session) HandleEvents(ctx context.Context, events []Event) (ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := ViewState{}
	for i, ev := range events {
		if err := s.handle(ctx, ev, &out); err != nil {
			v := s.view()
			v.Cells, v.Refresh = out.Cells, out.Refresh
			return v, fmt.Errorf("event %d (%s): %w", i, ev.Type, err)
		}
	}
	v := s.view()
	v.Cells, v.Key, v.Refresh = out.Cells, out.Key, out.Refresh
	return v, nil
}

func (s *Session) handle(ctx context.Context, ev Event, out *ViewState) error {
	switch ev.Type {
	case EventFocus:
		if !s.editMode {
			return ErrReadOnly
		}
		c, err := s.cell(ev.Cell)
		if err != nil {
			return err
		}
		if s.focused != "" && s.focused != ev.Cell {
			if err := s.blur(ctx, s.focused, nil, out); err != nil {
				return err
			}
		}
		c.Focus()
		s.focused = ev.Cell
		return nil

	case EventInput:
		c, ok := s.cells[ev.Cell]
		if !ok || ev.HTML == nil {
			return fmt.Errorf("%w: input without a focused cell", ErrInvalidCommand)
		}
		if err := c.Input(*ev.HTML); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
		}
		return nil

	case EventBlur:
		return s.blur(ctx, ev.Cell, ev.HTML, out)

	case EventKey:
		c, ok := s.cells[ev.Cell]
		if !ok {
			return nil
		}
		switch c.KeyDown(ev.Key, ev.Shift) {
		case richtext.KeyBlur:
			out.Key = "blur"
		case richtext.KeyLineBreak:
			out.Key = "lineBreak"
		}
		return nil

	case EventSelection:
		if ev.Selection == nil {
			s.toolbar.Hide()
			return nil
		}
		sel := *ev.Selection
		if sel.InEditable {
			if _, ok := s.cells[cv.Path(sel.Cell)]; !ok || cv.Path(sel.Cell) != s.focused {
				sel.InEditable = false
			}
		}
		s.toolbar.OnSelectionChange(s.editMode, sel)
		return nil

	case EventFormat:
		if !ev.Command.Valid() {
			return fmt.Errorf("%w: unknown format %q", ErrInvalidCommand, ev.Command)
		}
		c, ok := s.cells[ev.Cell]
		if !ok || !c.Focused() {
			return fmt.Errorf("%w: format without a focused cell", ErrInvalidCommand)
		}
		if ev.HTML != nil {
			_ = c.Input(*ev.HTML)
		}
		if err := c.Format(ev.Range, ev.Command); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
		}
		out.setCell(ev.Cell, c.View())
		return nil

	case EventDragStart:
		if !s.editMode {
			return ErrReadOnly
		}
		return s.drag.Begin(ev.Scope, ev.ID, ev.Point)

	case EventDragMove:
		s.drag.MoveTo(ev.Point)
		return nil

	case EventDragEnd:
		drop, ok := s.drag.Release(ev.Over)
		if !ok {
			return nil
		}
		moved, err := s.reorder(ctx, drop)
		if err != nil {
			return err
		}
		out.Refresh = out.Refresh || moved
		return nil

	case EventDragCancel:
		s.drag.Cancel()
		return nil

	case EventIconToggle:
		if !s.editMode {
			return ErrReadOnly
		}
		if ev.Section == "" || ev.Section == s.picker {
			s.picker = ""
			return nil
		}
		if !ev.Section.Valid() {
			return fmt.Errorf("%w: unknown section %q", ErrInvalidCommand, ev.Section)
		}
		s.picker = ev.Section
		return nil
	}
	return fmt.Errorf("%w: unknown event %q", ErrInvalidCommand, ev.Type)
}

// cell returns the editing state for p, creating it from the stored value.
func (s *Session) cell(p cv.Path) (*richtext.Cell, error) {
	doc := s.store.Data()
	stored, err := cv.Get(&doc, p)
	if err != nil {
		return nil, err
	}
	c, ok := s.cells[p]
	if !ok {
		c = richtext.NewCell(stored)
		s.cells[p] = c
		return c, nil
	}
	c.Sync(stored)
	return c, nil
}

// blur ends editing of p and commits its content when it changed.
func (s *Session) blur(ctx context.Context, p cv.Path, html *string, out *ViewState) error {
	c, ok := s.cells[p]
	if !ok {
		return nil
	}
	if html != nil && c.Focused() {
		_ = c.Input(*html)
	}
	if s.focused == p {
		s.focused = ""
	}
	value, changed := c.Blur()
	if !changed {
		return nil
	}
	committed, err := s.store.commit(ctx, "cell", func(d *cv.Document) error {
		return cv.Set(d, p, value)
	})
	// The stored value may differ from what was typed: sanitized, or
	// unchanged when the commit failed. Cells always show what was stored.
	s.syncCells(out)
	if err != nil {
		return err
	}
	if committed && identityField(p) {
		out.Refresh = true
	}
	return nil
}

// identityField reports whether editing p changes the drag identity of a
// list item.
func identityField(p cv.Path) bool {
	ps := string(p)
	switch {
	case strings.Contains(ps, ".tasks["):
		return true
	case strings.HasPrefix(ps, "profileSkills["), strings.HasPrefix(ps, "skills[") && strings.HasSuffix(ps, ".name"):
		return true
	case strings.HasPrefix(ps, "education[") && strings.HasSuffix(ps, ".years"):
		return true
	}
	return false
}

// syncCells pushes the stored values into every cell. Cells whose path no
// longer exists are dropped.
func (s *Session) syncCells(out *ViewState) {
	doc := s.store.Data()
	for p, c := range s.cells {
		stored, err := cv.Get(&doc, p)
		if err != nil {
			delete(s.cells, p)
			if s.focused == p {
				s.focused = ""
			}
			continue
		}
		if c.Sync(stored) && out != nil {
			out.setCell(p, c.View())
		}
	}
}

// reorder applies drop to the list it targets. The list view decides the
// new order and ignores drops outside edit mode; the store receives the
// whole list in that order.
func (s *Session) reorder(ctx context.Context, drop reorder.Drop) (bool, error) {
	scope := cv.ListScope(drop.Scope)
	return s.store.commit(ctx, "reorder", func(d *cv.Document) error {
		ids, err := d.ListIDs(scope)
		if err != nil {
			return err
		}
		order, moved := reorder.NewList(ids, ids, s.editMode).Apply(drop)
		if !moved {
			return errUnchanged
		}
		if moved, err = d.ArrangeItems(scope, order); err != nil {
			return err
		}
		if !moved {
			return errUnchanged
		}
		return nil
	})
}

// Apply runs a structured command. Every command except editMode and
// reorder requires edit mode; a reorder outside edit mode is ignored.
func (s *Session) Apply(ctx context.Context, cmd Command) (ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := ViewState{}
	err := s.apply(ctx, cmd, &out)
	v := s.view()
	v.Cells, v.Refresh = out.Cells, out.Refresh
	return v, err
}

func (s *Session) apply(ctx context.Context, cmd Command, out *ViewState) error {
	switch cmd.Op {
	case OpEditMode:
		return s.setEditMode(ctx, cmd.On, out)
	case OpReorder:
		moved, err := s.reorder(ctx, reorder.Drop{Scope: cmd.Scope, ActiveID: cmd.ActiveID, OverID: cmd.OverID})
		if err != nil {
			return err
		}
		if moved {
			s.syncCells(out)
			out.Refresh = true
		}
		return nil
	}
	if !s.editMode {
		return ErrReadOnly
	}

	var (
		source string
		mutate func(*cv.Document) error
	)
	switch cmd.Op {
	case OpSet:
		source = "set"
		mutate = func(d *cv.Document) error { return cv.Set(d, cmd.Cell, cmd.Value) }
	case OpAdd:
		source = "add"
		mutate = func(d *cv.Document) error { return d.AddItem(cv.ListScope(cmd.Scope)) }
	case OpRemove:
		source = "remove"
		mutate = func(d *cv.Document) error { return d.RemoveItem(cv.ListScope(cmd.Scope), cmd.Index) }
	case OpSetIcon:
		if !cmd.Section.Valid() || !render.Known(cmd.Icon) {
			return fmt.Errorf("%w: icon %q for section %q", ErrInvalidCommand, cmd.Icon, cmd.Section)
		}
		source = "icon"
		mutate = func(d *cv.Document) error { return d.Sections.Set(cmd.Section, cmd.Icon) }
		s.picker = ""
	case OpRate:
		if cmd.Unit < 1 || cmd.Unit > render.RatingUnits || (cmd.Side != "left" && cmd.Side != "right") {
			return fmt.Errorf("%w: rating unit %d side %q", ErrInvalidCommand, cmd.Unit, cmd.Side)
		}
		source = "rating"
		mutate = func(d *cv.Document) error {
			if cmd.Index < 0 || cmd.Index >= len(d.ProfileSkills) {
				return fmt.Errorf("%w: profileSkills has no item %d", ErrUnknownCell, cmd.Index)
			}
			level := d.ProfileSkills[cmd.Index].Level
			if cmd.Side == "left" {
				level = render.ClickLeft(level, cmd.Unit)
			} else {
				level = render.ClickRight(level, cmd.Unit)
			}
			return d.SetLevel(cmd.Index, level)
		}
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidCommand, cmd.Op)
	}

	committed, err := s.store.commit(ctx, source, mutate)
	if err != nil {
		return err
	}
	if committed {
		s.syncCells(out)
		out.Refresh = true
	}
	return nil
}

// setEditMode switches modes. Leaving edit mode commits the focused cell
// and drops every editing affordance.
func (s *Session) setEditMode(ctx context.Context, on bool, out *ViewState) error {
	if on == s.editMode {
		return nil
	}
	if !on && s.focused != "" {
		if err := s.blur(ctx, s.focused, nil, out); err != nil && !errors.Is(err, ErrUnknownCell) {
			return err
		}
	}
	s.editMode = on
	s.toolbar.Hide()
	s.drag.Cancel()
	s.picker = ""
	out.Refresh = true
	return nil
}

// LoadDocument replaces the document, as after an import or a remote load.
func (s *Session) LoadDocument(ctx context.Context, doc cv.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.LoadData(ctx, doc); err != nil {
		return err
	}
	s.resetEditing()
	return nil
}

// Reset restores the default document.
func (s *Session) Reset(ctx context.Context, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.ResetData(ctx, confirmed); err != nil {
		return err
	}
	s.resetEditing()
	return nil
}

// resetEditing forgets live cell content after a wholesale replacement.
func (s *Session) resetEditing() {
	s.cells = make(map[cv.Path]*richtext.Cell)
	s.focused = ""
	s.toolbar.Hide()
	s.drag.Cancel()
	s.picker = ""
}

// SaveRemote uploads the current document. Editing is not blocked while
// the upload runs.
func (s *Session) SaveRemote(ctx context.Context) error {
	if s.cloud == nil {
		return fmt.Errorf("%w: remote storage is not configured", ErrRemoteUnavailable)
	}
	return s.cloud.Save(ctx, s.identity, s.store.Data())
}

// LoadRemote replaces the document with the remote copy. ok is false when
// nothing was saved remotely.
func (s *Session) LoadRemote(ctx context.Context) (bool, error) {
	if s.cloud == nil {
		return false, fmt.Errorf("%w: remote storage is not configured", ErrRemoteUnavailable)
	}
	doc, ok, err := s.cloud.Load(ctx, s.identity)
	if err != nil || !ok {
		return false, err
	}
	return true, s.LoadDocument(ctx, doc)
}
