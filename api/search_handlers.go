package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SearchRequest defines the structure for boolean keyword queries.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	Field string `json:"field,omitempty"` // default field for unqualified terms
	Limit int    `json:"limit,omitempty"` // 0 uses the configured limit
}

// SearchHandler runs a boolean query against the current generation.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	var req SearchRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateFieldName("field", req.Field); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if req.Limit < 0 {
		result := &ValidationResult{Valid: true}
		result.AddError("limit", "Limit cannot be negative")
		SendValidationError(c, result)
		return
	}

	res, err := api.engine.Search(c.Request.Context(), req.Query, req.Field, req.Limit)
	if err != nil {
		SendEngineError(c, "search", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type topTermSearchParams struct {
	Field  string  `form:"field"`
	Cutoff float64 `form:"cutoff,default=-1"`
}

// TopTermSearchHandler searches with an OR query over the terms passing the cutoff.
// Query: field, cutoff (defaults to the configured cutoff)
func (api *API) TopTermSearchHandler(c *gin.Context) {
	var params topTermSearchParams
	if result := ValidateQueryBinding(c, &params); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateCutoff(params.Cutoff); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	res, err := api.engine.TopTermSearch(c.Request.Context(), params.Field, params.Cutoff)
	if err != nil {
		SendEngineError(c, "top-term search", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
