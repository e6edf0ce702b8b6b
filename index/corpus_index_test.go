package index

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample() *CorpusIndex {
	b := NewBuilder(3, []string{"Subject", "Empty"})
	for _, tokens := range [][]string{
		{"login", "error"},
		{"login", "success", "login"},
		{"payment", "error"},
	} {
		id := b.AddDocument()
		b.AddField(id, "Subject", tokens)
	}
	return b.Build()
}

func TestCorpusIndexLookups(t *testing.T) {
	ci := buildSample()

	assert.Equal(t, uint64(3), ci.Generation)
	assert.Equal(t, 3, ci.DocumentCount())

	tests := []struct {
		name  string
		field string
		term  string
		want  int
	}{
		{"shared term", "Subject", "login", 2},
		{"shared term 2", "Subject", "error", 2},
		{"single doc term", "Subject", "payment", 1},
		{"unknown term", "Subject", "timeout", -1},
		{"unknown field", "Category", "login", -1},
		{"declared empty field", "Empty", "login", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ci.TermDocFrequency(tt.field, tt.term))
		})
	}

	assert.Equal(t, 2, ci.DocumentTermFrequency(1, "Subject", "login"))
	assert.Equal(t, 1, ci.DocumentTermFrequency(0, "Subject", "error"))
	assert.Equal(t, -1, ci.DocumentTermFrequency(0, "Subject", "payment"))
	assert.Equal(t, -1, ci.DocumentTermFrequency(7, "Subject", "login"))
	assert.Equal(t, -1, ci.DocumentTermFrequency(-1, "Subject", "login"))
	assert.Equal(t, -1, ci.DocumentTermFrequency(0, "Nope", "login"))

	assert.Equal(t, []string{"Empty", "Subject"}, ci.FieldNames())
	assert.Equal(t, []string{"error", "login", "payment", "success"}, ci.Field("Subject").Terms())
	assert.Equal(t, 0, ci.Field("Empty").TermCount())
}

func TestNilCorpusIndex(t *testing.T) {
	var ci *CorpusIndex
	assert.Equal(t, -1, ci.DocumentCount())
	assert.Equal(t, -1, ci.TermDocFrequency("Subject", "login"))
	assert.Nil(t, ci.Field("Subject"))
}

func TestPostingListOrdering(t *testing.T) {
	b := NewBuilder(1, nil)
	ids := []int{b.AddDocument(), b.AddDocument(), b.AddDocument()}
	// Insert out of order; Build must sort postings by DocID.
	b.AddField(ids[2], "Subject", []string{"error"})
	b.AddField(ids[0], "Subject", []string{"error"})
	b.AddField(ids[1], "Subject", []string{"error", "error"})
	ci := b.Build()

	pl := ci.Field("Subject").Postings("error")
	require.Len(t, pl, 3)
	assert.Equal(t, []int{0, 1, 2}, pl.DocIDs(0))
	assert.Equal(t, []int{0, 1}, pl.DocIDs(2))

	entry, ok := pl.Find(1)
	require.True(t, ok)
	assert.Equal(t, 2, entry.Frequency)
	_, ok = pl.Find(5)
	assert.False(t, ok)
}

func TestCorpusIndexGobRoundTrip(t *testing.T) {
	ci := buildSample()

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(ci))

	var decoded CorpusIndex
	require.NoError(t, gob.NewDecoder(&buf).Decode(&decoded))

	assert.Equal(t, ci.Generation, decoded.Generation)
	assert.Equal(t, ci.DocCount, decoded.DocCount)
	assert.Equal(t, ci.Field("Subject").Terms(), decoded.Field("Subject").Terms())
	assert.Equal(t, 2, decoded.TermDocFrequency("Subject", "login"))
	assert.Equal(t, 2, decoded.DocumentTermFrequency(1, "Subject", "login"))
	assert.NotNil(t, decoded.Field("Empty"))
}
