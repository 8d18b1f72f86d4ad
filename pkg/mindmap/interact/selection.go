package interact

// Selection holds at most one selected stage id. The zero value has nothing
// selected.
type Selection struct {
	id string
}

// NewSelection returns a selection starting at id ("" for none).
func NewSelection(id string) *Selection { return &Selection{id: id} }

// Selected returns the selected stage id, or "".
func (s *Selection) Selected() string { return s.id }

// Toggle selects id, or clears the selection if id is already selected.
// It returns the new selection.
func (s *Selection) Toggle(id string) string {
	if s.id == id {
		s.id = ""
	} else {
		s.id = id
	}
	return s.id
}

// Set replaces the selection.
func (s *Selection) Set(id string) { s.id = id }

// Clear deselects.
func (s *Selection) Clear() { s.id = "" }
