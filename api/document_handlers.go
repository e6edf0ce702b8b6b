package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-bug-analysis/internal/errors"
)

// GetDocumentHandler returns one stored record of the current generation.
// Document ids are positions in the record source and change across rebuilds.
func (api *API) GetDocumentHandler(c *gin.Context) {
	raw := c.Param("docId")
	docID, result := ValidateDocumentID("docId", raw)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	doc, err := api.engine.Document(docID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidInput) {
			SendDocumentNotFoundError(c, raw)
			return
		}
		SendEngineError(c, "get document", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document":   doc,
		"generation": api.engine.Status().Generation,
	})
}
