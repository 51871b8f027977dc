package models

// Column describes one dynamically-defined field of the inventory grid.
//
// Sequence is the business column number carried in the CSV files; it defines
// both storage order and CSV field order. Two legacy file shapes exist: the
// short one carries only a display width, the long one carries kind/length/
// required flags. A column populated from one shape leaves the other shape's
// fields at their zero values.
type Column struct {
	ID       int64  `json:"id"`
	Sequence int    `json:"column_id"`
	Label    string `json:"label"`
	Kind     string `json:"type,omitempty"`
	Length   string `json:"length,omitempty"`
	Required string `json:"required,omitempty"`
	Width    int    `json:"width,omitempty"`
}

// Column kinds observed in the legacy files. Values are stored verbatim;
// anything outside this set is carried through untouched.
const (
	KindText    = "texto"
	KindNumeric = "numerico"
	KindDate    = "fecha"
)
