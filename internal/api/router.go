package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation - must be registered first
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// Health check (for Railway, k8s, etc.)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Candidate search & CRUD
	mux.HandleFunc("GET /api/candidates", a.SearchHandler)
	mux.HandleFunc("POST /api/candidates", a.CreateCandidateHandler)
	mux.HandleFunc("GET /api/candidates/{id}", a.GetCandidateHandler)
	mux.HandleFunc("PUT /api/candidates/{id}", a.UpdateCandidateHandler)
	mux.HandleFunc("DELETE /api/candidates/{id}", a.DeleteCandidateHandler)
	mux.HandleFunc("GET /api/filter-options", a.FilterOptionsHandler)

	// Status transitions
	mux.HandleFunc("POST /api/candidates/toggle-hired", a.ToggleHiredHandler)
	mux.HandleFunc("POST /api/candidates/toggle-blacklist", a.ToggleBlacklistHandler)
	mux.HandleFunc("POST /api/candidates/toggle-availability", a.ToggleAvailabilityHandler)

	// Resume upload
	mux.HandleFunc("POST /api/candidates/parse-resume", a.ParseResumeHandler)

	// Admin migration endpoints (streamed progress)
	mux.HandleFunc("POST /api/admin/migration/preview", a.requireAdmin(a.MigrationPreviewHandler))
	mux.HandleFunc("POST /api/admin/migration/transfer", a.requireAdmin(a.MigrationTransferHandler))
	mux.HandleFunc("POST /api/admin/migration/generate-embeddings", a.requireAdmin(a.GenerateEmbeddingsHandler))

	return mux
}
