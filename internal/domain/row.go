package domain

// Column is one cell of an imported row: the header text and the cell value.
type Column struct {
	Name  string `json:"column"`
	Value string `json:"value"`
}

// ContactRow is a single imported spreadsheet row. It is an ordered sequence
// rather than a map so that detection tie-breaks follow the source file's
// column order.
type ContactRow []Column

// Get returns the value of the first column with the given name.
func (r ContactRow) Get(name string) (string, bool) {
	for _, c := range r {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}
