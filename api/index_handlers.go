package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
)

// RebuildRequest optionally names the record file to rebuild from.
type RebuildRequest struct {
	Path string `json:"path"`
}

// RebuildIndexHandler rebuilds the index synchronously.
// Request Body (optional): RebuildRequest
func (api *API) RebuildIndexHandler(c *gin.Context) {
	var req RebuildRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			SendInvalidJSONError(c, err)
			return
		}
	}

	snap, err := api.engine.RebuildIndex(c.Request.Context(), req.Path)
	if err != nil {
		SendEngineError(c, "rebuild", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Index rebuilt successfully",
		"generation": snap.Generation(),
		"documents":  snap.Store.Len(),
		"fields":     snap.Fields,
	})
}

// IndexStatusHandler reports the current generation.
func (api *API) IndexStatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.Status())
}

// ClearIndexHandler drops the in-memory index. The snapshot on disk is kept.
func (api *API) ClearIndexHandler(c *gin.Context) {
	api.engine.ClearIndex()
	c.JSON(http.StatusOK, gin.H{"message": "Index cleared"})
}

type termParams struct {
	Field string `form:"field"`
	Term  string `form:"term" binding:"required"`
	DocID string `form:"doc_id"`
}

// DocFrequencyHandler returns the number of documents containing a term, or -1
// when the field or the term is unknown.
// Query: field (defaults to the subject field), term
func (api *API) DocFrequencyHandler(c *gin.Context) {
	var params termParams
	if result := ValidateQueryBinding(c, &params); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	field := api.fieldOr(params.Field)
	term := api.engine.NormalizeTerm(params.Term)

	if !api.engine.Status().Built {
		SendEngineError(c, "document frequency", internalErrors.ErrIndexNotBuilt)
		return
	}
	df := api.engine.TermDocFrequency(field, term)
	c.JSON(http.StatusOK, gin.H{"field": field, "term": term, "doc_frequency": df})
}

// TermFrequencyHandler returns the frequency of a term in one document, or -1
// when the document, field or term is unknown.
// Query: field, term, doc_id
func (api *API) TermFrequencyHandler(c *gin.Context) {
	var params termParams
	if result := ValidateQueryBinding(c, &params); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	docID, result := ValidateDocumentID("doc_id", params.DocID)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	field := api.fieldOr(params.Field)
	term := api.engine.NormalizeTerm(params.Term)

	if !api.engine.Status().Built {
		SendEngineError(c, "term frequency", internalErrors.ErrIndexNotBuilt)
		return
	}
	tf := api.engine.DocumentTermFrequency(docID, field, term)
	c.JSON(http.StatusOK, gin.H{"doc_id": docID, "field": field, "term": term, "term_frequency": tf})
}

// fieldOr resolves an empty field parameter to the configured subject field.
func (api *API) fieldOr(field string) string {
	if field == "" {
		return api.engine.Settings().SubjectField
	}
	return field
}
