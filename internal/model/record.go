package model

// Record is a schema-less content row. The CRUD layer never inspects field
// semantics beyond the distinguished "id" key; validation lives in the
// admin UI that produces these records.
type Record map[string]any

// ID returns the record id. JSON decoding yields float64, the Postgres
// driver yields int64, in-memory construction yields int.
func (r Record) ID() (int, bool) {
	switch v := r["id"].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

// Status returns the record's status field, or "" when absent.
func (r Record) Status() string {
	s, _ := r["status"].(string)
	return s
}

// Clone returns a shallow copy so callers can mutate without aliasing
// store-owned state.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
