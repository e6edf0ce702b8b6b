package index

import "sort"

// PostingEntry records that a document contains a term, and how often.
type PostingEntry struct {
	DocID     int // 0-based ingestion order
	Frequency int // occurrences of the term in this document's field, always >= 1
}

// PostingList is a slice of PostingEntry kept sorted by DocID ascending.
// Each DocID appears at most once.
type PostingList []PostingEntry

// DocIDs returns up to limit document ids in ascending order.
// A limit <= 0 returns every id.
func (pl PostingList) DocIDs(limit int) []int {
	n := len(pl)
	if limit > 0 && limit < n {
		n = limit
	}
	ids := make([]int, n)
	for i := 0; i < n; i++ {
		ids[i] = pl[i].DocID
	}
	return ids
}

// Find returns the entry for docID using binary search.
func (pl PostingList) Find(docID int) (PostingEntry, bool) {
	i := sort.Search(len(pl), func(i int) bool { return pl[i].DocID >= docID })
	if i < len(pl) && pl[i].DocID == docID {
		return pl[i], true
	}
	return PostingEntry{}, false
}
