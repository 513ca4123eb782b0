package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"partyq/internal/app/songs"
	"partyq/internal/logging"
	"partyq/internal/musicapi"
	"partyq/internal/store"
)

// PartyService captures the party lifecycle operations needed by the
// HTTP handlers.
type PartyService interface {
	Create(ctx context.Context, partyCode, hostID, authToken string) (store.Party, error)
	Find(ctx context.Context, partyCode string) (store.Party, error)
	Delete(ctx context.Context, partyCode string) error
}

// SongService coordinates queue-level operations.
type SongService interface {
	Add(ctx context.Context, submission songs.Submission, partyCode, addedBy string) ([]store.Song, error)
	List(ctx context.Context, partyCode string, limit int) ([]store.Song, error)
	Remove(ctx context.Context, id string) error
	RemoveAll(ctx context.Context, partyCode string) error
}

// VoteService applies vote units to queued songs.
type VoteService interface {
	Apply(ctx context.Context, name, partyCode string, direction store.VoteDirection) (store.Song, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	parties   PartyService
	songs     SongService
	votes     VoteService
	catalog   musicapi.CatalogClient
	log       *logging.Logger
	jwtSecret []byte
	appURL    string
}

// New configures a Server with the given service implementations.
func New(
	parties PartyService,
	songs SongService,
	votes VoteService,
	catalog musicapi.CatalogClient,
	log *logging.Logger,
	jwtSecret []byte,
	appURL string,
) *Server {
	return &Server{
		parties:   parties,
		songs:     songs,
		votes:     votes,
		catalog:   catalog,
		log:       log,
		jwtSecret: jwtSecret,
		appURL:    appURL,
	}
}

// Routes exposes the HTTP handlers for the party and queue API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Party lifecycle
	mux.HandleFunc("GET /party", s.handleGetParty)
	mux.HandleFunc("POST /party", s.handleCreateParty)
	mux.HandleFunc("DELETE /party", s.handleDeleteParty)

	// Song queue and votes
	mux.HandleFunc("GET /songs", s.handleListSongs)
	mux.HandleFunc("POST /songs", s.handleSubmitSongs)
	mux.HandleFunc("DELETE /songs", s.handleClearSongs)
	mux.HandleFunc("PUT /song", s.handleVote)
	mux.HandleFunc("DELETE /song", s.handleDeleteSong)

	// Catalog pass-throughs
	mux.HandleFunc("GET /songs/search", s.handleSearch)
	mux.HandleFunc("GET /hostPlaylists", s.handleHostPlaylists)
	mux.HandleFunc("GET /playlistSongs", s.handlePlaylistSongs)
	mux.HandleFunc("GET /currentlyPlaying", s.handleCurrentlyPlaying)
	mux.HandleFunc("GET /hostInfo", s.handleHostInfo)
	mux.HandleFunc("GET /hostLogin", s.handleHostLogin)
	mux.HandleFunc("GET /callback", s.handleCallback)

	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Not Found", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
