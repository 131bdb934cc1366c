package transcripts

import (
	"errors"
	"strings"
	"testing"

	"tuberag/internal/models"
)

func TestMaterializeDropsUncaptionedRecords(t *testing.T) {
	records := []*models.VideoRecord{
		{ID: "v1", Title: "First", Transcript: "some words"},
		{ID: "v2", Title: "Second", Transcript: "   \n\t  "},
		{ID: "v3", Title: "Third", Transcript: ""},
		{ID: "v4", Title: "Fourth", Transcript: "more words"},
	}

	docs, err := Materialize(records)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].SourceVideoID != "v1" || docs[1].SourceVideoID != "v4" {
		t.Errorf("wrong records materialized: %s, %s", docs[0].SourceVideoID, docs[1].SourceVideoID)
	}
}

func TestMaterializeNoTranscripts(t *testing.T) {
	records := []*models.VideoRecord{
		{ID: "v1", Title: "First", Transcript: ""},
		{ID: "v2", Title: "Second", Transcript: "  "},
	}

	docs, err := Materialize(records)
	if !errors.Is(err, ErrNoTranscripts) {
		t.Errorf("error = %v, want ErrNoTranscripts", err)
	}
	if docs != nil {
		t.Errorf("got %d documents, want none", len(docs))
	}
}

func TestMaterializeDisplayNameCollisions(t *testing.T) {
	records := []*models.VideoRecord{
		{ID: "aaa", Title: "Weekly Update", Transcript: "one"},
		{ID: "bbb", Title: "Weekly Update", Transcript: "two"},
		{ID: "ccc", Title: "Weekly Update", Transcript: "three"},
	}

	docs, err := Materialize(records)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	seen := make(map[string]bool)
	for _, doc := range docs {
		if seen[doc.DisplayName] {
			t.Errorf("duplicate display name %q", doc.DisplayName)
		}
		seen[doc.DisplayName] = true
	}

	if docs[0].DisplayName != "Weekly_Update" {
		t.Errorf("first name = %q, want Weekly_Update", docs[0].DisplayName)
	}
	if !strings.Contains(docs[1].DisplayName, "bbb") {
		t.Errorf("collision suffix should come from the source id, got %q", docs[1].DisplayName)
	}
}

func TestMaterializeBodyContainsMetadataAndTranscript(t *testing.T) {
	records := []*models.VideoRecord{
		{
			ID:          "v1",
			Title:       "How to Build RAG",
			URL:         "https://youtube.com/watch?v=v1",
			Description: "A test video",
			Duration:    "10:30",
			ViewCount:   1000,
			Transcript:  "this is the transcript",
		},
	}

	docs, err := Materialize(records)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	body := docs[0].Body
	for _, want := range []string{
		"VIDEO: How to Build RAG",
		"URL: https://youtube.com/watch?v=v1",
		"Video ID: v1",
		"Duration: 10:30",
		"Views: 1000",
		"DESCRIPTION:\nA test video",
		"TRANSCRIPT:\nthis is the transcript",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{
			name:     "Spaces become underscores",
			title:    "Hello World Video",
			expected: "Hello_World_Video",
		},
		{
			name:     "Invalid characters removed",
			title:    `What? A "Test" <Video>: Part 1/2`,
			expected: "What_A_Test_Video_Part_12",
		},
		{
			name:     "Trailing dots and underscores trimmed",
			title:    "Trailing dots...",
			expected: "Trailing_dots",
		},
		{
			name:     "Empty falls back",
			title:    "???",
			expected: "video",
		},
		{
			name:     "Long titles truncated",
			title:    strings.Repeat("a", 150),
			expected: strings.Repeat("a", 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeTitle(tt.title); got != tt.expected {
				t.Errorf("sanitizeTitle(%q) = %q, want %q", tt.title, got, tt.expected)
			}
		})
	}
}
