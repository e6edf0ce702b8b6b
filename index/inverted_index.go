package index

import (
	"bytes"
	"encoding/gob"
	"sort"
)

// FieldIndex is the inverted index of a single field: term -> documents containing it,
// plus the forward table docID -> term -> frequency used to build document vectors.
// A FieldIndex is immutable after Builder.Build returns it.
type FieldIndex struct {
	postings map[string]PostingList
	docTerms map[int]map[string]int
	terms    []string // lexicographic
}

func newFieldIndex() *FieldIndex {
	return &FieldIndex{
		postings: make(map[string]PostingList),
		docTerms: make(map[int]map[string]int),
	}
}

// DocFrequency returns the number of documents containing term, or -1 when the term is not indexed.
func (f *FieldIndex) DocFrequency(term string) int {
	pl, ok := f.postings[term]
	if !ok {
		return -1
	}
	return len(pl)
}

// TermFrequency returns how often term occurs in the document, or -1 when the
// document has no such term in this field.
func (f *FieldIndex) TermFrequency(docID int, term string) int {
	tf, ok := f.docTerms[docID][term]
	if !ok {
		return -1
	}
	return tf
}

// Postings returns the posting list of term, nil when absent. Callers must not modify it.
func (f *FieldIndex) Postings(term string) PostingList {
	return f.postings[term]
}

// DocTerms returns the term frequency table of one document. Callers must not modify it.
func (f *FieldIndex) DocTerms(docID int) map[string]int {
	return f.docTerms[docID]
}

// Terms returns every indexed term in lexicographic order. Callers must not modify it.
func (f *FieldIndex) Terms() []string {
	return f.terms
}

// TermCount returns the vocabulary size of the field.
func (f *FieldIndex) TermCount() int {
	return len(f.terms)
}

func (f *FieldIndex) add(docID int, tokens []string) {
	if len(tokens) == 0 {
		return
	}
	freqs := make(map[string]int)
	for _, tok := range tokens {
		freqs[tok]++
	}
	f.docTerms[docID] = freqs
	for term, tf := range freqs {
		f.postings[term] = append(f.postings[term], PostingEntry{DocID: docID, Frequency: tf})
	}
}

func (f *FieldIndex) finalize() {
	f.terms = make([]string, 0, len(f.postings))
	for term, pl := range f.postings {
		sort.Slice(pl, func(i, j int) bool { return pl[i].DocID < pl[j].DocID })
		f.terms = append(f.terms, term)
	}
	sort.Strings(f.terms)
}

// gobFieldIndexData is a helper struct for Gob encoding/decoding FieldIndex data.
// The sorted term list is rebuilt on decode.
type gobFieldIndexData struct {
	Postings map[string]PostingList
	DocTerms map[int]map[string]int
}

// GobEncode implements the gob.GobEncoder interface for FieldIndex.
func (f *FieldIndex) GobEncode() ([]byte, error) {
	dataToEncode := gobFieldIndexData{
		Postings: f.postings,
		DocTerms: f.docTerms,
	}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for FieldIndex.
func (f *FieldIndex) GobDecode(data []byte) error {
	decodedData := gobFieldIndexData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	f.postings = decodedData.Postings
	f.docTerms = decodedData.DocTerms

	// Ensure maps are initialized if they were nil after decoding (e.g. an empty field)
	if f.postings == nil {
		f.postings = make(map[string]PostingList)
	}
	if f.docTerms == nil {
		f.docTerms = make(map[int]map[string]int)
	}
	f.finalize()
	return nil
}
