package index

import "sort"

// CorpusIndex holds, per field, the term statistics of one generation of documents.
// It is immutable once built; a rebuild produces a new CorpusIndex with a higher Generation.
type CorpusIndex struct {
	Generation uint64
	DocCount   int
	Fields     map[string]*FieldIndex
}

// DocumentCount returns the number of documents in the index.
func (ci *CorpusIndex) DocumentCount() int {
	if ci == nil {
		return -1
	}
	return ci.DocCount
}

// Field returns the index of one field, or nil when the field was never indexed.
func (ci *CorpusIndex) Field(name string) *FieldIndex {
	if ci == nil {
		return nil
	}
	return ci.Fields[name]
}

// FieldNames returns the indexed field names in lexicographic order.
func (ci *CorpusIndex) FieldNames() []string {
	names := make([]string, 0, len(ci.Fields))
	for name := range ci.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TermDocFrequency returns how many documents contain term in field, or -1 when
// the field or the term is unknown.
func (ci *CorpusIndex) TermDocFrequency(field, term string) int {
	f := ci.Field(field)
	if f == nil {
		return -1
	}
	return f.DocFrequency(term)
}

// DocumentTermFrequency returns how often term occurs in the field of one document,
// or -1 when the document, field or term is unknown.
func (ci *CorpusIndex) DocumentTermFrequency(docID int, field, term string) int {
	f := ci.Field(field)
	if f == nil || docID < 0 || docID >= ci.DocCount {
		return -1
	}
	return f.TermFrequency(docID, term)
}

// Builder accumulates tokenized field values and produces a CorpusIndex.
// It is not safe for concurrent use.
type Builder struct {
	generation uint64
	docCount   int
	fields     map[string]*FieldIndex
}

// NewBuilder creates a builder for the given generation. Every field in fields is
// present in the result even if no document contributes a term to it.
func NewBuilder(generation uint64, fields []string) *Builder {
	b := &Builder{
		generation: generation,
		fields:     make(map[string]*FieldIndex, len(fields)),
	}
	for _, f := range fields {
		b.fields[f] = newFieldIndex()
	}
	return b
}

// AddDocument registers the next document and returns its id.
func (b *Builder) AddDocument() int {
	id := b.docCount
	b.docCount++
	return id
}

// AddField records the tokens of one field value of a document previously returned by AddDocument.
// All tokens of one field value must be passed in a single call.
func (b *Builder) AddField(docID int, field string, tokens []string) {
	f, ok := b.fields[field]
	if !ok {
		f = newFieldIndex()
		b.fields[field] = f
	}
	f.add(docID, tokens)
}

// Build finalizes the posting lists and term order. The builder must not be used afterwards.
func (b *Builder) Build() *CorpusIndex {
	for _, f := range b.fields {
		f.finalize()
	}
	return &CorpusIndex{
		Generation: b.generation,
		DocCount:   b.docCount,
		Fields:     b.fields,
	}
}
