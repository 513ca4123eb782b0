package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"partyq/internal/app/songs"
	"partyq/internal/app/votes"
	"partyq/internal/store"
)

type submitSongsRequest struct {
	Songs     json.RawMessage `json:"songs"`
	PartyCode string          `json:"partyCode"`
	UserName  string          `json:"userName"`
}

type voteRequest struct {
	Name      string `json:"name"`
	PartyCode string `json:"partyCode"`
	Vote      int    `json:"vote"`
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	partyCode := query.Get("partyCode")
	if partyCode == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing partyCode parameter"})
		return
	}

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit parameter"})
			return
		}
		limit = parsed
	}

	queue, err := s.songs.List(r.Context(), partyCode, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, queue)
}

func (s *Server) handleSubmitSongs(w http.ResponseWriter, r *http.Request) {
	var req submitSongsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if req.PartyCode == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "partyCode is required"})
		return
	}

	submission, err := songs.ParseSubmission(req.Songs)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid songs payload"})
		return
	}

	added, err := s.songs.Add(r.Context(), submission, req.PartyCode, req.UserName)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrInvalidSong) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	if req.Name == "" || req.PartyCode == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name and partyCode are required"})
		return
	}

	song, err := s.votes.Apply(r.Context(), req.Name, req.PartyCode, votes.DirectionFromValue(req.Vote))
	if err != nil {
		if errors.Is(err, store.ErrSongNotFound) {
			// Voting on a song that was meanwhile removed is benign:
			// the vote lands nowhere and the client refreshes.
			w.WriteHeader(http.StatusCreated)
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, song)
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing id parameter"})
		return
	}

	if err := s.songs.Remove(r.Context(), id); err != nil {
		s.log.Error(err, "delete song")
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleClearSongs(w http.ResponseWriter, r *http.Request) {
	partyCode := r.URL.Query().Get("partyCode")
	if partyCode == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing partyCode parameter"})
		return
	}

	if err := s.songs.RemoveAll(r.Context(), partyCode); err != nil {
		s.log.Error(err, "clear party songs")
	}

	w.WriteHeader(http.StatusCreated)
}
