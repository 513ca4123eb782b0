package musicapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/spotify"
	"golang.org/x/time/rate"
)

const spotifyAPIBase = "https://api.spotify.com/v1/"

// hostScopes cover everything the party host features need: playlist
// listing, playback state and the host profile.
var hostScopes = []string{
	"playlist-read-private",
	"user-read-currently-playing",
	"user-read-private",
	"user-modify-playback-state",
}

// SpotifyClient implements the CatalogClient interface for Spotify.
// Search runs under an app token obtained via client credentials;
// host-scoped calls use the bearer token handed in per call.
type SpotifyClient struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	oauthConfig  *oauth2.Config
	limiter      *rate.Limiter

	mu          sync.RWMutex
	accessToken string
	tokenExpiry time.Time

	apiBase  string
	tokenURL string
}

// NewSpotifyClient creates a new Spotify API client. redirectURL is
// where the authorize flow sends the host back to.
func NewSpotifyClient(clientID, clientSecret, redirectURL string) *SpotifyClient {
	return &SpotifyClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       hostScopes,
			Endpoint:     spotify.Endpoint,
		},
		limiter:  rate.NewLimiter(rate.Limit(10), 20),
		apiBase:  spotifyAPIBase,
		tokenURL: spotify.Endpoint.TokenURL,
	}
}

type spotifyTracksPage struct {
	Items []spotifyTrack `json:"items"`
}

type spotifyTrack struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration_ms"`
	Artists  []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Images []spotifyImage `json:"images"`
	} `json:"album"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// authenticate obtains the app access token via client credentials.
func (c *SpotifyClient) authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.tokenExpiry) {
		return nil
	}

	authString := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create auth request: %w", err)
	}

	req.Header.Set("Authorization", "Basic "+authString)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spotify auth failed: %s - %s", resp.Status, string(body))
	}

	var tokenResp spotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return nil
}

// doRequest performs an authenticated GET against the Spotify API.
// When token is empty the cached app token is used.
func (c *SpotifyClient) doRequest(ctx context.Context, token, endpoint string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if token == "" {
		if err := c.authenticate(ctx); err != nil {
			return err
		}
		c.mu.RLock()
		token = c.accessToken
		c.mu.RUnlock()
	}

	apiURL := c.apiBase + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return errNoContent
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spotify api error: %s - %s", resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

var errNoContent = errors.New("no content")

// SearchTracks searches for tracks on Spotify.
func (c *SpotifyClient) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	if limit <= 0 {
		limit = 20
	}
	params := url.Values{
		"q":     []string{query},
		"type":  []string{"track"},
		"limit": []string{fmt.Sprintf("%d", limit)},
	}

	var result struct {
		Tracks *spotifyTracksPage `json:"tracks"`
	}
	if err := c.doRequest(ctx, "", "search", params, &result); err != nil {
		return nil, err
	}

	if result.Tracks == nil {
		return []Track{}, nil
	}

	tracks := make([]Track, 0, len(result.Tracks.Items))
	for _, st := range result.Tracks.Items {
		tracks = append(tracks, convertTrack(st))
	}

	return tracks, nil
}

// HostProfile returns the account behind the given host token.
func (c *SpotifyClient) HostProfile(ctx context.Context, token string) (*Host, error) {
	var profile struct {
		ID          string         `json:"id"`
		DisplayName string         `json:"display_name"`
		Images      []spotifyImage `json:"images"`
	}
	if err := c.doRequest(ctx, token, "me", nil, &profile); err != nil {
		return nil, err
	}

	host := &Host{
		ID:          profile.ID,
		DisplayName: profile.DisplayName,
	}
	if len(profile.Images) > 0 {
		host.ImageURL = profile.Images[0].URL
	}
	return host, nil
}

// HostPlaylists lists the host's playlists.
func (c *SpotifyClient) HostPlaylists(ctx context.Context, token string) ([]Playlist, error) {
	params := url.Values{}
	params.Set("limit", "50")

	var response struct {
		Items []struct {
			ID     string         `json:"id"`
			Name   string         `json:"name"`
			Images []spotifyImage `json:"images"`
			Tracks struct {
				Total int `json:"total"`
			} `json:"tracks"`
		} `json:"items"`
	}
	if err := c.doRequest(ctx, token, "me/playlists", params, &response); err != nil {
		return nil, err
	}

	playlists := make([]Playlist, 0, len(response.Items))
	for _, item := range response.Items {
		playlist := Playlist{
			ID:         item.ID,
			Name:       item.Name,
			TrackCount: item.Tracks.Total,
		}
		if len(item.Images) > 0 {
			playlist.ImageURL = item.Images[0].URL
		}
		playlists = append(playlists, playlist)
	}

	return playlists, nil
}

// PlaylistTracks lists the tracks of one host playlist.
func (c *SpotifyClient) PlaylistTracks(ctx context.Context, token, playlistID string) ([]Track, error) {
	params := url.Values{}
	params.Set("limit", "100")

	var response struct {
		Items []struct {
			Track spotifyTrack `json:"track"`
		} `json:"items"`
	}
	if err := c.doRequest(ctx, token, "playlists/"+playlistID+"/tracks", params, &response); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(response.Items))
	for _, item := range response.Items {
		tracks = append(tracks, convertTrack(item.Track))
	}

	return tracks, nil
}

// CurrentlyPlaying reports the host's playback state. Spotify answers
// 204 when nothing is playing; that maps to a nil result.
func (c *SpotifyClient) CurrentlyPlaying(ctx context.Context, token string) (*NowPlaying, error) {
	var response struct {
		Item       *spotifyTrack `json:"item"`
		ProgressMs int           `json:"progress_ms"`
		IsPlaying  bool          `json:"is_playing"`
	}
	err := c.doRequest(ctx, token, "me/player/currently-playing", nil, &response)
	if err == errNoContent {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	playing := &NowPlaying{
		ProgressMs: response.ProgressMs,
		IsPlaying:  response.IsPlaying,
	}
	if response.Item != nil {
		track := convertTrack(*response.Item)
		playing.Track = &track
	}
	return playing, nil
}

// AuthCodeURL builds the authorize URL for the host login redirect.
func (c *SpotifyClient) AuthCodeURL(state string) string {
	return c.oauthConfig.AuthCodeURL(state)
}

// Exchange trades an authorization code for a host token.
func (c *SpotifyClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return token, nil
}

func convertTrack(st spotifyTrack) Track {
	artistName := ""
	if len(st.Artists) > 0 {
		artistName = st.Artists[0].Name
	}

	imageURL := ""
	if len(st.Album.Images) > 0 {
		// Middle-size album art when the catalog provides multiple
		// renditions.
		idx := 0
		if len(st.Album.Images) > 1 {
			idx = 1
		}
		imageURL = st.Album.Images[idx].URL
	}

	return Track{
		ID:         st.ID,
		Name:       st.Name,
		Artist:     artistName,
		ImageURL:   imageURL,
		Link:       st.ExternalURLs.Spotify,
		DurationMs: st.Duration,
	}
}
