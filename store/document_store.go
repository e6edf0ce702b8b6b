package store

import (
	"github.com/gcbaptista/go-bug-analysis/model"
)

// DocumentStore keeps the raw records of one index generation in ingestion order,
// so Docs[i].ID == i. It backs result display, label lookup and keyword labelling.
type DocumentStore struct {
	Docs []model.Document
}

// NewDocumentStore creates a store from records, assigning ids in slice order.
func NewDocumentStore(records []model.Record) *DocumentStore {
	docs := make([]model.Document, len(records))
	for i, rec := range records {
		if rec == nil {
			rec = model.Record{}
		}
		docs[i] = model.Document{ID: i, Fields: rec}
	}
	return &DocumentStore{Docs: docs}
}

// Get returns the document with the given id.
func (ds *DocumentStore) Get(id int) (model.Document, bool) {
	if ds == nil || id < 0 || id >= len(ds.Docs) {
		return model.Document{}, false
	}
	return ds.Docs[id], true
}

// Len returns the number of stored documents.
func (ds *DocumentStore) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.Docs)
}

// Project returns the requested fields of a document; unknown fields map to "".
func (ds *DocumentStore) Project(id int, fields []string) map[string]string {
	doc, ok := ds.Get(id)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f] = doc.Field(f)
	}
	return out
}
