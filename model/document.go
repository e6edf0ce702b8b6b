package model

import "strings"

// Record is one row of the record source, keyed by column name.
// Missing or empty cells are stored as "".
// Example: rec["Subject"], rec["Category"]
type Record map[string]string

// Get returns the trimmed value of a field, or "" when the field is absent.
func (r Record) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// Document is an indexed record. ID is the 0-based ingestion order and is stable
// only within one index generation.
type Document struct {
	ID     int    `json:"id"`
	Fields Record `json:"fields"`
}

// Field returns the raw value of the given field.
func (d Document) Field(name string) string {
	return d.Fields.Get(name)
}
