package httpapi

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"partyq/internal/musicapi"
)

const (
	stateCookieName   = "partyq_oauth_state"
	sessionCookieName = "partyq_session"
	sessionTTL        = 24 * time.Hour
)

var errMissingHostToken = errors.New("missing host token")

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing query parameter"})
		return
	}

	tracks, err := s.catalog.SearchTracks(r.Context(), query, 20)
	if err != nil {
		s.log.Error(err, "catalog search")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "music catalog unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleHostPlaylists(w http.ResponseWriter, r *http.Request) {
	token, err := s.resolveHostToken(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	playlists, err := s.catalog.HostPlaylists(r.Context(), token)
	if err != nil {
		s.log.Error(err, "catalog playlists")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "music catalog unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, playlists)
}

func (s *Server) handlePlaylistSongs(w http.ResponseWriter, r *http.Request) {
	playlistID := r.URL.Query().Get("playlistId")
	if playlistID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing playlistId parameter"})
		return
	}

	token, err := s.resolveHostToken(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	tracks, err := s.catalog.PlaylistTracks(r.Context(), token, playlistID)
	if err != nil {
		s.log.Error(err, "catalog playlist tracks")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "music catalog unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleCurrentlyPlaying(w http.ResponseWriter, r *http.Request) {
	token, err := s.resolveHostToken(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	playing, err := s.catalog.CurrentlyPlaying(r.Context(), token)
	if err != nil {
		s.log.Error(err, "catalog currently playing")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "music catalog unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, playing)
}

func (s *Server) handleHostInfo(w http.ResponseWriter, r *http.Request) {
	token, err := s.resolveHostToken(r)
	if err != nil {
		// Before a party exists the host only has the session cookie
		// from the OAuth callback; answer from its claims.
		if host, ok := s.hostFromSession(r); ok {
			writeJSON(w, http.StatusOK, host)
			return
		}
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}

	host, err := s.catalog.HostProfile(r.Context(), token)
	if err != nil {
		s.log.Error(err, "catalog host profile")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "music catalog unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, host)
}

func (s *Server) handleHostLogin(w http.ResponseWriter, r *http.Request) {
	state, err := newState()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, s.catalog.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid state parameter"})
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "authorization failed: " + errParam})
		return
	}

	token, err := s.catalog.Exchange(r.Context(), code)
	if err != nil {
		s.log.Error(err, "catalog token exchange")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "music catalog unavailable"})
		return
	}

	host, err := s.catalog.HostProfile(r.Context(), token.AccessToken)
	if err != nil {
		s.log.Error(err, "catalog host profile")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "music catalog unavailable"})
		return
	}

	session, err := s.createSessionToken(host)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// The client needs the host token to create the party record; it
	// arrives in the fragment so it never hits server logs again.
	redirect := fmt.Sprintf("%s/#access_token=%s&hostId=%s",
		s.appURL, url.QueryEscape(token.AccessToken), url.QueryEscape(host.ID))
	http.Redirect(w, r, redirect, http.StatusFound)
}

// resolveHostToken finds the catalog token for a host-scoped call:
// the party's stored token when a partyCode is given, otherwise an
// explicit bearer token.
func (s *Server) resolveHostToken(r *http.Request) (string, error) {
	if partyCode := r.URL.Query().Get("partyCode"); partyCode != "" {
		party, err := s.parties.Find(r.Context(), partyCode)
		if err != nil {
			return "", err
		}
		return party.AuthToken, nil
	}

	if token := parseBearerToken(r.Header.Get("Authorization")); token != "" {
		return token, nil
	}

	return "", errMissingHostToken
}

func (s *Server) createSessionToken(host *musicapi.Host) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  host.ID,
		"name": host.DisplayName,
		"iat":  now.Unix(),
		"exp":  now.Add(sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *Server) hostFromSession(r *http.Request) (*musicapi.Host, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}

	host := &musicapi.Host{}
	if sub, ok := claims["sub"].(string); ok {
		host.ID = sub
	}
	if name, ok := claims["name"].(string); ok {
		host.DisplayName = name
	}
	if host.ID == "" {
		return nil, false
	}
	return host, true
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func newState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
