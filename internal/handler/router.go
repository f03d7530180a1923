package handler

import (
	"net/http"

	"pdf-compare/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	authHandler *AuthHandler,
	comparisonHandler *ComparisonHandler,
	authMiddleware func(http.Handler) http.Handler,
	logger domain.Logger,
) http.Handler {
	router := mux.NewRouter()
	router.Use(RequestLogger(logger))

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "pdf-compare"})
	}).Methods("GET")

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Protected routes (require authentication)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/auth/validate", authHandler.ValidateToken).Methods("GET")

	protected.HandleFunc("/comparisons", comparisonHandler.Compare).Methods("POST")
	protected.HandleFunc("/comparisons/text", comparisonHandler.CompareText).Methods("POST")
	protected.HandleFunc("/comparisons/{id}", comparisonHandler.GetComparison).Methods("GET")
	protected.HandleFunc("/comparisons/{id}/differences", comparisonHandler.GetDifferences).Methods("GET")
	protected.HandleFunc("/documents/{id}/comparisons", comparisonHandler.ListDocumentComparisons).Methods("GET")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // SvelteKit dev server
			"http://localhost:4173", // SvelteKit preview
			"http://localhost:3000", // Alternative dev port
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
