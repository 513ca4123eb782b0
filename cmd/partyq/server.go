package main

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"partyq/internal/app/parties"
	"partyq/internal/app/songs"
	"partyq/internal/app/votes"
	"partyq/internal/httpapi"
	"partyq/internal/logging"
	"partyq/internal/musicapi"
	"partyq/internal/store"
)

func newHTTPHandler(cfg Config, db *sql.DB, log *logging.Logger) http.Handler {
	dataStore := store.New(db)

	partySvc := parties.New(dataStore)
	songSvc := songs.New(dataStore)
	voteSvc := votes.New(dataStore)

	catalog := musicapi.NewSpotifyClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyRedirectURL)
	if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
		log.Warn("Spotify credentials not provided, catalog requests will fail")
	}

	api := httpapi.New(partySvc, songSvc, voteSvc, catalog, log, []byte(cfg.JWTSecret), cfg.AppURL)

	handler := withRequestLogging(log, api.Routes())
	return withCORS(cfg.AllowedOrigins, handler)
}

func withRequestLogging(log *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		log.HTTPRequest(r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
