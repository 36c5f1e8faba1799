package ui

import "slices"

// FocusManager tracks and rotates focus across panels.
type FocusManager struct {
	Current  string   // ID of the currently focused panel
	Order    []string // Tab order for focus rotation
	OnChange func(from, to string)
}

// Next advances focus to the next panel in order.
// Returns the new current focus ID.
func (f *FocusManager) Next() string {
	return f.step(1)
}

// Prev moves focus to the previous panel in order.
func (f *FocusManager) Prev() string {
	return f.step(-1)
}

func (f *FocusManager) step(delta int) string {
	if len(f.Order) == 0 {
		return ""
	}
	idx := slices.Index(f.Order, f.Current)
	var next int
	switch {
	case idx < 0 && delta > 0:
		next = 0
	case idx < 0:
		next = len(f.Order) - 1
	default:
		next = (idx + delta + len(f.Order)) % len(f.Order)
	}
	f.set(f.Order[next])
	return f.Current
}

// SetFocus sets focus to the given panel ID.
// Returns true if the ID exists in order.
func (f *FocusManager) SetFocus(id string) bool {
	if !slices.Contains(f.Order, id) {
		return false
	}
	f.set(id)
	return true
}

// SetOrder replaces the focus order after panels are added or removed.
// Focus stays put if its panel survived; otherwise it moves to the panel
// that took the old position, or the last one.
func (f *FocusManager) SetOrder(order []string) {
	oldIdx := slices.Index(f.Order, f.Current)
	f.Order = slices.Clone(order)
	switch {
	case len(f.Order) == 0:
		f.set("")
	case slices.Contains(f.Order, f.Current):
	case oldIdx < 0:
		f.set(f.Order[0])
	default:
		f.set(f.Order[min(oldIdx, len(f.Order)-1)])
	}
}

func (f *FocusManager) set(id string) {
	from := f.Current
	f.Current = id
	if f.OnChange != nil && from != id {
		f.OnChange(from, id)
	}
}
