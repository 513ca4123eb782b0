package songs

import (
	"bytes"
	"encoding/json"
	"errors"
)

// TrackInput is one track proposed into a queue. It decodes both the
// flattened shape returned by this API's search endpoints and the raw
// catalog track shape (nested artists/album/external_urls), so the
// runtime branching on payload shape lives here and nowhere else.
type TrackInput struct {
	Name       string
	Artist     string
	ImageURL   string
	Link       string
	DurationMs int
}

// Submission is an ordered batch of proposed tracks. A single-object
// payload parses to a one-element submission.
type Submission []TrackInput

// ParseSubmission resolves the `songs` field of a submit request,
// which may hold one track object or an array of tracks.
func ParseSubmission(data []byte) (Submission, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errors.New("missing songs payload")
	}

	if trimmed[0] == '[' {
		var batch []TrackInput
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, err
		}
		return batch, nil
	}

	var single TrackInput
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, err
	}
	return Submission{single}, nil
}

func (t *TrackInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		Track         json.RawMessage `json:"track"`
		Name          string          `json:"name"`
		Artist        string          `json:"artist"`
		ImageURL      string          `json:"imageUrl"`
		Link          string          `json:"link"`
		DurationMs    int             `json:"durationMs"`
		DurationMsRaw int             `json:"duration_ms"`
		Artists       []struct {
			Name string `json:"name"`
		} `json:"artists"`
		Album struct {
			Images []struct {
				URL string `json:"url"`
			} `json:"images"`
		} `json:"album"`
		ExternalURLs struct {
			Spotify string `json:"spotify"`
		} `json:"external_urls"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// Playlist exports wrap each element as {"track": {...}}.
	if len(raw.Track) > 0 && !bytes.Equal(raw.Track, []byte("null")) {
		return t.UnmarshalJSON(raw.Track)
	}

	t.Name = raw.Name
	t.Artist = raw.Artist
	if t.Artist == "" && len(raw.Artists) > 0 {
		t.Artist = raw.Artists[0].Name
	}
	t.ImageURL = raw.ImageURL
	if t.ImageURL == "" && len(raw.Album.Images) > 0 {
		// Prefer the middle-size album art when the catalog provides
		// multiple renditions.
		idx := 0
		if len(raw.Album.Images) > 1 {
			idx = 1
		}
		t.ImageURL = raw.Album.Images[idx].URL
	}
	t.Link = raw.Link
	if t.Link == "" {
		t.Link = raw.ExternalURLs.Spotify
	}
	t.DurationMs = raw.DurationMs
	if t.DurationMs == 0 {
		t.DurationMs = raw.DurationMsRaw
	}

	return nil
}
