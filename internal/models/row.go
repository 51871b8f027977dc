package models

import "encoding/json"

// Row is one inventory record: a store-assigned identifier plus a flexible
// set of labeled string values keyed by column label.
type Row struct {
	ID     int64
	Fields map[string]string
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	fields := make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Row{ID: r.ID, Fields: fields}
}

// MarshalJSON flattens the row into a single object with the identifier under
// "_id" next to the labeled values, which is the wire shape the grid client
// expects.
func (r Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["_id"] = r.ID
	return json.Marshal(out)
}

// UnmarshalJSON accepts the flattened wire shape. "_id" may arrive as a JSON
// number or be absent (new rows); every other member becomes a labeled value,
// with non-string values stringified via their JSON encoding.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Fields = make(map[string]string, len(raw))
	for k, v := range raw {
		if k == "_id" {
			if err := json.Unmarshal(v, &r.ID); err != nil {
				return err
			}
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			s = string(v)
		}
		r.Fields[k] = s
	}
	return nil
}
