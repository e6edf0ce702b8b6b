package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/go-bug-analysis/internal/engine"
	"github.com/gcbaptista/go-bug-analysis/internal/metrics"
)

// maxRequestBody bounds JSON request bodies.
const maxRequestBody = 1 << 20

// API holds dependencies for API handlers.
type API struct {
	engine  *engine.Engine
	metrics *metrics.Metrics
	logger  *logrus.Entry
}

// NewAPI creates a new API handler structure. m may be nil to disable metrics.
func NewAPI(eng *engine.Engine, m *metrics.Metrics, logger *logrus.Entry) *API {
	if logger == nil {
		logger = logrus.WithField("component", "api")
	}
	return &API{engine: eng, metrics: m, logger: logger}
}

// SetupRoutes defines all the API routes of the analysis service.
func SetupRoutes(router *gin.Engine, eng *engine.Engine, m *metrics.Metrics, logger *logrus.Entry) {
	apiHandler := NewAPI(eng, m, logger)

	router.Use(
		RequestIDMiddleware(),
		LoggingMiddleware(apiHandler.logger),
		RequestSizeLimitMiddleware(maxRequestBody),
		CORSMiddleware(),
	)
	if m != nil {
		router.Use(MetricsMiddleware(m))
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Index management routes
	indexRoutes := router.Group("/index")
	{
		indexRoutes.POST("/rebuild", apiHandler.RebuildIndexHandler) // Rebuild from the record source
		indexRoutes.GET("", apiHandler.IndexStatusHandler)           // Current generation
		indexRoutes.DELETE("", apiHandler.ClearIndexHandler)         // Drop the current generation
		indexRoutes.GET("/df", apiHandler.DocFrequencyHandler)       // Document frequency of a term
		indexRoutes.GET("/tf", apiHandler.TermFrequencyHandler)      // Term frequency in one document

		indexRoutes.GET("/documents/:docId", apiHandler.GetDocumentHandler)
	}

	// Analysis routes
	analysisRoutes := router.Group("/analysis")
	{
		analysisRoutes.GET("/terms", apiHandler.AllTermsHandler)
		analysisRoutes.GET("/top-terms", apiHandler.TopTermsHandler)
		analysisRoutes.POST("/coverage", apiHandler.CoverageHandler)
		analysisRoutes.GET("/term-distribution", apiHandler.TermDistributionHandler)
		analysisRoutes.POST("/keywords", apiHandler.KeywordsHandler)
		analysisRoutes.POST("/search", apiHandler.SearchHandler)
		analysisRoutes.GET("/top-terms/search", apiHandler.TopTermSearchHandler)
		analysisRoutes.GET("/similarity", apiHandler.SimilarityHandler)
		analysisRoutes.GET("/similarity/pair", apiHandler.PairSimilarityHandler)
		analysisRoutes.GET("/tfidf", apiHandler.TFIDFHandler)
		analysisRoutes.POST("/cooccurrence", apiHandler.CooccurrenceHandler)
		analysisRoutes.POST("/evaluate", apiHandler.EvaluateHandler)
	}

	// Run history
	router.GET("/runs", apiHandler.ListRunsHandler)
}
