package browse

// Item is one row of a List: the label shown to the user and the value
// behind it.
type Item[T any] struct {
	Label string
	Value T
}

// List is an ordered sequence of items with an optional selection. The
// selection, when present, is always in range.
type List[T any] struct {
	items    []Item[T]
	selected int // -1 when nothing is selected
}

// NewList returns a list with nothing selected.
func NewList[T any](items []Item[T]) *List[T] {
	return &List[T]{items: items, selected: -1}
}

// Len returns the number of items.
func (l *List[T]) Len() int { return len(l.items) }

// Items returns the items in display order.
func (l *List[T]) Items() []Item[T] { return l.items }

// Selected returns the selected index.
func (l *List[T]) Selected() (int, bool) {
	return l.selected, l.selected >= 0
}

// SelectedItem returns the selected item.
func (l *List[T]) SelectedItem() (Item[T], bool) {
	if l.selected < 0 {
		return Item[T]{}, false
	}
	return l.items[l.selected], true
}

// Select selects index i. Out-of-range indexes clear the selection.
func (l *List[T]) Select(i int) {
	if i < 0 || i >= len(l.items) {
		l.selected = -1
		return
	}
	l.selected = i
}

// Unselect clears the selection.
func (l *List[T]) Unselect() { l.selected = -1 }

// Next moves the selection down one row, stopping at the last row. With
// nothing selected it selects the first row.
func (l *List[T]) Next() {
	if len(l.items) == 0 {
		return
	}
	if l.selected < 0 {
		l.selected = 0
		return
	}
	if l.selected < len(l.items)-1 {
		l.selected++
	}
}

// Previous moves the selection up one row, stopping at the first row. With
// nothing selected it selects the first row.
func (l *List[T]) Previous() {
	if len(l.items) == 0 {
		return
	}
	if l.selected <= 0 {
		l.selected = 0
		return
	}
	l.selected--
}

// Find returns the index of the first item matching fn.
func (l *List[T]) Find(fn func(T) bool) (int, bool) {
	for i, item := range l.items {
		if fn(item.Value) {
			return i, true
		}
	}
	return -1, false
}
