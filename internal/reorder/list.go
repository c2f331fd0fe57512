package reorder

// List is an ordered list as displayed on the page. Outside edit mode it
// shows items in stored order without handles and ignores drops.
type List[T any] struct {
	Items    []T
	IDs      []string
	Editable bool
}

// NewList pairs items with their identities.
func NewList[T any](items []T, ids []string, editable bool) List[T] {
	return List[T]{Items: items, IDs: ids, Editable: editable}
}

// Handles reports whether drag handles are rendered.
func (l List[T]) Handles() bool {
	return l.Editable
}

// Apply computes the ordering resulting from drop. It is a no-op when the
// list is not editable.
func (l List[T]) Apply(drop Drop) ([]T, bool) {
	if !l.Editable {
		return l.Items, false
	}
	return ByKeys(l.Items, l.IDs, drop.ActiveID, drop.OverID)
}
