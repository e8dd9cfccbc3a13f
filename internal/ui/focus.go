package ui

// FocusID names a focusable control.
type FocusID string

const (
	FocusQuestion FocusID = "question"
	FocusRole     FocusID = "role"
	FocusRegion   FocusID = "region"
	FocusSubmit   FocusID = "submit"
)

// FocusManager tracks and rotates focus across controls.
type FocusManager struct {
	Current  FocusID   // currently focused control
	Order    []FocusID // Tab order for focus rotation
	OnChange func(from, to FocusID)
}

// NewFocusManager creates a manager focused on the first control in order.
func NewFocusManager(order ...FocusID) *FocusManager {
	f := &FocusManager{Order: order}
	if len(order) > 0 {
		f.Current = order[0]
	}
	return f
}

// Next advances focus to the next control in order.
// Returns the new current focus ID.
func (f *FocusManager) Next() FocusID {
	return f.step(1)
}

// Prev moves focus to the previous control in order.
func (f *FocusManager) Prev() FocusID {
	return f.step(-1)
}

func (f *FocusManager) step(delta int) FocusID {
	if len(f.Order) == 0 {
		return ""
	}
	idx := f.index(f.Current)
	if idx < 0 && delta < 0 {
		idx = 0
	}
	n := len(f.Order)
	f.set(f.Order[((idx+delta)%n+n)%n])
	return f.Current
}

// SetFocus sets focus to the given control.
// Returns true if the ID exists in order.
func (f *FocusManager) SetFocus(id FocusID) bool {
	if f.index(id) < 0 {
		return false
	}
	f.set(id)
	return true
}

// Is reports whether id has focus.
func (f *FocusManager) Is(id FocusID) bool {
	return f.Current == id
}

func (f *FocusManager) set(id FocusID) {
	from := f.Current
	f.Current = id
	if f.OnChange != nil && from != id {
		f.OnChange(from, id)
	}
}

func (f *FocusManager) index(id FocusID) int {
	for i, o := range f.Order {
		if o == id {
			return i
		}
	}
	return -1
}
