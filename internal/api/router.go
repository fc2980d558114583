// Package api exposes the pipeline over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// loggingMiddleware logs request details and latency.
func loggingMiddleware(log logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.WithFields(logrus.Fields{
				"method":  r.Method,
				"path":    r.URL.Path,
				"latency": time.Since(start).String(),
			}).Debug("request served")
		})
	}
}

// corsMiddleware adds CORS headers so a browser front end can drive the tour.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter creates and configures the HTTP router.
func NewRouter(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	r.Use(loggingMiddleware(handler.log))
	r.Use(corsMiddleware)

	r.HandleFunc("/ingest", handler.HandleIngest).Methods("POST", "OPTIONS")
	r.HandleFunc("/query", handler.HandleQuery).Methods("POST", "OPTIONS")
	r.HandleFunc("/feedback", handler.HandleFeedback).Methods("POST", "OPTIONS")
	r.HandleFunc("/session", handler.HandleSession).Methods("GET")
	r.HandleFunc("/graph", handler.HandleGraph).Methods("GET")
	r.HandleFunc("/fixture/suggestions", handler.HandleSuggestions).Methods("GET")
	r.HandleFunc("/health", handler.HandleHealth).Methods("GET")

	return r
}
