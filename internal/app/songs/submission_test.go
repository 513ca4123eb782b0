package songs

import (
	"testing"
)

func TestParseSubmissionSingleTrack(t *testing.T) {
	payload := []byte(`{
		"name": "Karma Police",
		"artist": "Radiohead",
		"imageUrl": "http://img",
		"link": "http://link",
		"durationMs": 261000
	}`)

	sub, err := ParseSubmission(payload)
	if err != nil {
		t.Fatalf("ParseSubmission error: %v", err)
	}
	if len(sub) != 1 {
		t.Fatalf("expected 1 track, got %d", len(sub))
	}

	track := sub[0]
	if track.Name != "Karma Police" || track.Artist != "Radiohead" {
		t.Fatalf("unexpected track: %#v", track)
	}
	if track.ImageURL != "http://img" || track.Link != "http://link" || track.DurationMs != 261000 {
		t.Fatalf("unexpected track metadata: %#v", track)
	}
}

func TestParseSubmissionTrackArray(t *testing.T) {
	payload := []byte(`[
		{"name": "Reckoner", "artist": "Radiohead"},
		{"name": "Nude", "artist": "Radiohead"}
	]`)

	sub, err := ParseSubmission(payload)
	if err != nil {
		t.Fatalf("ParseSubmission error: %v", err)
	}
	if len(sub) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(sub))
	}
	if sub[0].Name != "Reckoner" || sub[1].Name != "Nude" {
		t.Fatalf("unexpected tracks: %#v", sub)
	}
}

func TestParseSubmissionRawCatalogShape(t *testing.T) {
	payload := []byte(`{
		"name": "Karma Police",
		"artists": [{"name": "Radiohead"}, {"name": "Someone Else"}],
		"album": {"images": [
			{"url": "http://img/large"},
			{"url": "http://img/medium"},
			{"url": "http://img/small"}
		]},
		"external_urls": {"spotify": "http://open/track/1"},
		"duration_ms": 261000
	}`)

	sub, err := ParseSubmission(payload)
	if err != nil {
		t.Fatalf("ParseSubmission error: %v", err)
	}

	track := sub[0]
	if track.Artist != "Radiohead" {
		t.Fatalf("expected first artist, got %q", track.Artist)
	}
	if track.ImageURL != "http://img/medium" {
		t.Fatalf("expected middle-size image, got %q", track.ImageURL)
	}
	if track.Link != "http://open/track/1" {
		t.Fatalf("unexpected link %q", track.Link)
	}
	if track.DurationMs != 261000 {
		t.Fatalf("unexpected duration %d", track.DurationMs)
	}
}

func TestParseSubmissionPlaylistWrapper(t *testing.T) {
	payload := []byte(`[
		{"track": {
			"name": "Nude",
			"artists": [{"name": "Radiohead"}],
			"album": {"images": [{"url": "http://img/only"}]},
			"external_urls": {"spotify": "http://open/track/2"},
			"duration_ms": 255000
		}}
	]`)

	sub, err := ParseSubmission(payload)
	if err != nil {
		t.Fatalf("ParseSubmission error: %v", err)
	}
	if len(sub) != 1 {
		t.Fatalf("expected 1 track, got %d", len(sub))
	}

	track := sub[0]
	if track.Name != "Nude" || track.Artist != "Radiohead" {
		t.Fatalf("unexpected track: %#v", track)
	}
	if track.ImageURL != "http://img/only" {
		t.Fatalf("expected sole image used, got %q", track.ImageURL)
	}
}

func TestParseSubmissionMissingPayload(t *testing.T) {
	for _, payload := range [][]byte{nil, []byte("  "), []byte("null")} {
		if _, err := ParseSubmission(payload); err == nil {
			t.Fatalf("expected error for payload %q", payload)
		}
	}
}

func TestParseSubmissionMalformedJSON(t *testing.T) {
	if _, err := ParseSubmission([]byte(`{"name": `)); err == nil {
		t.Fatal("expected error but got nil")
	}
	if _, err := ParseSubmission([]byte(`[{"name": "x"`)); err == nil {
		t.Fatal("expected error but got nil")
	}
}
