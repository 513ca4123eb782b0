package musicapi

import (
	"context"

	"golang.org/x/oauth2"
)

// Track is a catalog track flattened to the fields the queue stores.
type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	ImageURL   string `json:"imageUrl"`
	Link       string `json:"link"`
	DurationMs int    `json:"durationMs"`
}

// Playlist is one of the host's catalog playlists.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ImageURL   string `json:"imageUrl,omitempty"`
	TrackCount int    `json:"trackCount"`
}

// Host identifies the catalog account a party's host logged in with.
type Host struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// NowPlaying describes the host's current playback, if any.
type NowPlaying struct {
	Track      *Track `json:"track"`
	ProgressMs int    `json:"progressMs"`
	IsPlaying  bool   `json:"isPlaying"`
}

// CatalogClient defines the music catalog operations the session
// service delegates to. Host-scoped calls take the party's token
// explicitly; nothing token-shaped lives in process-global state.
type CatalogClient interface {
	// SearchTracks searches the catalog by free-text query.
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)

	// HostProfile returns the account behind the given host token.
	HostProfile(ctx context.Context, token string) (*Host, error)

	// HostPlaylists lists the host's playlists.
	HostPlaylists(ctx context.Context, token string) ([]Playlist, error)

	// PlaylistTracks lists the tracks of one host playlist.
	PlaylistTracks(ctx context.Context, token, playlistID string) ([]Track, error)

	// CurrentlyPlaying reports the host's playback state; nil when
	// nothing is playing.
	CurrentlyPlaying(ctx context.Context, token string) (*NowPlaying, error)

	// AuthCodeURL builds the provider authorize URL for the host login
	// redirect.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for a host token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}
