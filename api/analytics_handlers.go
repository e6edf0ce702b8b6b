package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-bug-analysis/internal/vector"
)

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	status := api.engine.Status()
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "go-bug-analysis",
		"index_built": status.Built,
		"generation":  status.Generation,
		"timestamp":   time.Now().Unix(),
	})
}

type fieldParams struct {
	Field string `form:"field"`
}

// AllTermsHandler lists every term of a field by document frequency.
// Query: field
func (api *API) AllTermsHandler(c *gin.Context) {
	var params fieldParams
	if result := ValidateQueryBinding(c, &params); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	terms, err := api.engine.AllTermsSorted(c.Request.Context(), params.Field)
	if err != nil {
		SendEngineError(c, "term listing", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"field": api.fieldOr(params.Field), "terms": terms, "count": len(terms)})
}

type topTermsParams struct {
	Field  string  `form:"field"`
	Cutoff float64 `form:"cutoff,default=-1"`
	N      int     `form:"n"`
}

// TopTermsHandler selects the most frequent terms of a field.
// Query: field, cutoff, n (both default to the configured values)
func (api *API) TopTermsHandler(c *gin.Context) {
	var params topTermsParams
	if result := ValidateQueryBinding(c, &params); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateCutoff(params.Cutoff); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	terms, err := api.engine.TopTerms(c.Request.Context(), params.Field, params.Cutoff, params.N)
	if err != nil {
		SendEngineError(c, "top terms", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"field": api.fieldOr(params.Field), "terms": terms, "count": len(terms)})
}

// CoverageRequest lists the terms of a coverage trace in processing order.
type CoverageRequest struct {
	Field string   `json:"field,omitempty"`
	Terms []string `json:"terms"`
}

// CoverageHandler traces the cumulative coverage of the given terms.
// Request Body: CoverageRequest
func (api *API) CoverageHandler(c *gin.Context) {
	var req CoverageRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateTerms("terms", req.Terms); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	report, err := api.engine.Coverage(c.Request.Context(), req.Field, req.Terms)
	if err != nil {
		SendEngineError(c, "coverage", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// TermDistributionHandler traces coverage over the whole vocabulary of a field.
// Query: field
func (api *API) TermDistributionHandler(c *gin.Context) {
	var params fieldParams
	if result := ValidateQueryBinding(c, &params); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	report, err := api.engine.TermDistribution(c.Request.Context(), params.Field)
	if err != nil {
		SendEngineError(c, "term distribution", err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// KeywordsRequest names the keywords to summarize, inline or from a file.
// When Keywords is empty the keyword file (Path, or the configured one) is read.
type KeywordsRequest struct {
	Field    string   `json:"field,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
	Path     string   `json:"path,omitempty"`
}

// KeywordsHandler summarizes keyword coverage and labels matching documents.
// Request Body (optional): KeywordsRequest
func (api *API) KeywordsHandler(c *gin.Context) {
	var req KeywordsRequest
	if c.Request.ContentLength > 0 {
		if result := ValidateJSONBinding(c, &req); result.HasErrors() {
			SendValidationError(c, result)
			return
		}
	}

	keywords := req.Keywords
	if len(keywords) == 0 {
		loaded, err := api.engine.LoadKeywords(req.Path)
		if err != nil {
			SendEngineError(c, "keyword loading", err)
			return
		}
		keywords = loaded
	}

	ctx := c.Request.Context()
	summary, err := api.engine.KeywordSummary(ctx, req.Field, keywords)
	if err != nil {
		SendEngineError(c, "keyword summary", err)
		return
	}
	hits, err := api.engine.KeywordLabels(ctx, keywords)
	if err != nil {
		SendEngineError(c, "keyword labels", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary, "hits": hits})
}

type similarityParams struct {
	Field     string `form:"field"`
	Docs      int    `form:"docs"`
	Weighting string `form:"weighting"`
}

// SimilarityHandler compares the first documents pairwise.
// Query: field, docs (defaults to the configured count), weighting (tf or tfidf)
func (api *API) SimilarityHandler(c *gin.Context) {
	var params similarityParams
	if result := ValidateQueryBinding(c, &params); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateDocCount("docs", params.Docs); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	w, result := ValidateWeighting(params.Weighting)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	res, err := api.engine.DocumentSimilarity(c.Request.Context(), params.Field, params.Docs, w)
	if err != nil {
		SendEngineError(c, "similarity", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type pairParams struct {
	Field     string `form:"field"`
	A         string `form:"a"`
	B         string `form:"b"`
	Weighting string `form:"weighting"`
}

// PairSimilarityHandler is the cosine similarity of two documents.
// Query: field, a, b, weighting
func (api *API) PairSimilarityHandler(c *gin.Context) {
	var params pairParams
	if result := ValidateQueryBinding(c, &params); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	a, result := ValidateDocumentID("a", params.A)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	b, result := ValidateDocumentID("b", params.B)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	w, result := ValidateWeighting(params.Weighting)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	sim, err := api.engine.PairSimilarity(params.Field, a, b, w)
	if err != nil {
		SendEngineError(c, "pair similarity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"a": a, "b": b, "weighting": w, "similarity": sim})
}

type tfidfParams struct {
	Field string `form:"field"`
	Docs  int    `form:"docs"`
}

// tfidfDocument is one document row of a TF-IDF model response.
type tfidfDocument struct {
	DocID int       `json:"doc_id"`
	TF    []float64 `json:"tf"`
	TFIDF []float64 `json:"tfidf"`
}

// tfidfResponse is a dense rendering of vector.Model.
type tfidfResponse struct {
	Field     string          `json:"field"`
	TotalDocs int             `json:"total_docs"`
	Terms     []string        `json:"terms"`
	DF        []int           `json:"df"`
	IDF       []float64       `json:"idf"`
	Documents []tfidfDocument `json:"documents"`
}

func newTFIDFResponse(m *vector.Model) tfidfResponse {
	resp := tfidfResponse{
		Field:     m.Field,
		TotalDocs: m.TotalDocs,
		Terms:     m.Positions.Terms(),
		DF:        m.DF,
		IDF:       m.IDF,
		Documents: make([]tfidfDocument, len(m.DocIDs)),
	}
	for i, id := range m.DocIDs {
		resp.Documents[i] = tfidfDocument{DocID: id, TF: m.TF[i].Dense(), TFIDF: m.TFIDF[i].Dense()}
	}
	return resp
}

// TFIDFHandler builds the TF-IDF model of the first documents.
// Query: field (defaults to the summary field), docs
func (api *API) TFIDFHandler(c *gin.Context) {
	var params tfidfParams
	if result := ValidateQueryBinding(c, &params); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateDocCount("docs", params.Docs); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	m, err := api.engine.TFIDFModel(c.Request.Context(), params.Field, params.Docs)
	if err != nil {
		SendEngineError(c, "tf-idf model", err)
		return
	}
	c.JSON(http.StatusOK, newTFIDFResponse(m))
}

// CooccurrenceRequest selects the terms of a co-occurrence matrix. Without
// terms the configured number of top terms is used.
type CooccurrenceRequest struct {
	Field string   `json:"field,omitempty"`
	Terms []string `json:"terms,omitempty"`
	Pairs int      `json:"pairs,omitempty"` // number of top pairs to list, 0 for all
}

// CooccurrenceHandler counts term co-occurrences.
// Request Body (optional): CooccurrenceRequest
func (api *API) CooccurrenceHandler(c *gin.Context) {
	var req CooccurrenceRequest
	if c.Request.ContentLength > 0 {
		if result := ValidateJSONBinding(c, &req); result.HasErrors() {
			SendValidationError(c, result)
			return
		}
	}
	if len(req.Terms) > 0 {
		if result := ValidateTerms("terms", req.Terms); result.HasErrors() {
			SendValidationError(c, result)
			return
		}
	} else {
		req.Terms = nil
	}

	m, err := api.engine.Cooccurrence(c.Request.Context(), req.Field, req.Terms)
	if err != nil {
		SendEngineError(c, "co-occurrence", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matrix": m, "pairs": m.TopPairs(req.Pairs)})
}

// EvaluateRequest optionally overrides the label set.
type EvaluateRequest struct {
	Labels []string `json:"labels,omitempty"`
}

// EvaluateHandler trains the classifier on the current generation and evaluates it.
// Request Body (optional): EvaluateRequest
func (api *API) EvaluateHandler(c *gin.Context) {
	var req EvaluateRequest
	if c.Request.ContentLength > 0 {
		if result := ValidateJSONBinding(c, &req); result.HasErrors() {
			SendValidationError(c, result)
			return
		}
	}
	if result := ValidateLabels(req.Labels); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	ev, err := api.engine.Evaluate(c.Request.Context(), req.Labels)
	if err != nil {
		SendEngineError(c, "evaluation", err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

type runsParams struct {
	Limit int `form:"limit,default=20"`
}

// ListRunsHandler lists the most recent analysis runs.
// Query: limit
func (api *API) ListRunsHandler(c *gin.Context) {
	var params runsParams
	if result := ValidateQueryBinding(c, &params); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	runs, err := api.engine.Runs(c.Request.Context(), params.Limit)
	if err != nil {
		SendInternalError(c, "list runs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}
