package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(
	studyHandler *StudyHandler,
	authMiddleware func(http.Handler) http.Handler,
	allowedOrigins []string,
) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"pdf-study-assistant"}`))
	}).Methods(http.MethodGet)

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware)

	api.HandleFunc("/extract", studyHandler.Extract).Methods(http.MethodPost)

	api.HandleFunc("/sessions", studyHandler.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", studyHandler.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", studyHandler.DeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/summary", studyHandler.Summarize).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/quiz", studyHandler.GenerateQuiz).Methods(http.MethodPost)

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
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
