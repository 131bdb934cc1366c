package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := &Client{
		actor:   "test~actor",
		baseURL: server.URL,
		http:    server.Client(),
	}
	return client, server
}

func itemsResponse(items []map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(items)
	}
}

func TestFetchChannelVideosOrderingAndCap(t *testing.T) {
	// Provider returns 4 items even though 10 were requested.
	items := []map[string]any{
		{"id": "v1", "title": "Newest", "subtitles": []any{"first words"}},
		{"id": "v2", "title": "Second"},
		{"id": "v3", "title": "Third"},
		{"id": "v4", "title": "Oldest"},
	}

	client, server := newTestClient(itemsResponse(items))
	defer server.Close()

	records, err := client.FetchChannelVideos(context.Background(), "https://www.youtube.com/@test", 10)
	if err != nil {
		t.Fatalf("FetchChannelVideos() error = %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	for i, record := range records {
		if record.RecencyRank != i {
			t.Errorf("record %d has rank %d, want %d", i, record.RecencyRank, i)
		}
	}
	if records[0].Title != "Newest" || records[3].Title != "Oldest" {
		t.Errorf("records not in provider order: first %q, last %q", records[0].Title, records[3].Title)
	}
}

func TestFetchChannelVideosTruncatesToCount(t *testing.T) {
	items := []map[string]any{
		{"id": "v1", "title": "A"},
		{"id": "v2", "title": "B"},
		{"id": "v3", "title": "C"},
	}

	client, server := newTestClient(itemsResponse(items))
	defer server.Close()

	records, err := client.FetchChannelVideos(context.Background(), "https://www.youtube.com/@test", 2)
	if err != nil {
		t.Fatalf("FetchChannelVideos() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1].Title != "B" {
		t.Errorf("truncation kept wrong records: last is %q", records[1].Title)
	}
}

func TestFetchChannelVideosNoVideos(t *testing.T) {
	client, server := newTestClient(itemsResponse(nil))
	defer server.Close()

	_, err := client.FetchChannelVideos(context.Background(), "https://www.youtube.com/@empty", 5)
	if !errors.Is(err, ErrNoVideosFound) {
		t.Errorf("error = %v, want ErrNoVideosFound", err)
	}
}

func TestFetchChannelVideosProviderError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"token-not-found","message":"API token not found"}}`))
	})
	defer server.Close()

	_, err := client.FetchChannelVideos(context.Background(), "https://www.youtube.com/@test", 5)

	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
	if providerErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", providerErr.StatusCode)
	}
	if providerErr.Message != "API token not found" {
		t.Errorf("Message = %q, want provider message", providerErr.Message)
	}
}

func TestFetchChannelVideosRejectsBadCount(t *testing.T) {
	client, server := newTestClient(itemsResponse(nil))
	defer server.Close()

	if _, err := client.FetchChannelVideos(context.Background(), "https://www.youtube.com/@test", 0); err == nil {
		t.Error("expected error for count 0")
	}
}

func TestFetchChannelVideosMissingCaptionsIsNotAnError(t *testing.T) {
	items := []map[string]any{
		{"id": "v1", "title": "Captioned", "subtitles": []any{"hello"}},
		{"id": "v2", "title": "Silent"},
	}

	client, server := newTestClient(itemsResponse(items))
	defer server.Close()

	records, err := client.FetchChannelVideos(context.Background(), "https://www.youtube.com/@test", 5)
	if err != nil {
		t.Fatalf("FetchChannelVideos() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1].HasTranscript() {
		t.Error("record without subtitles should have no transcript")
	}
}

func TestSubtitleEntryDecoding(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected string
	}{
		{
			name:     "String entries",
			payload:  `["hello", "world"]`,
			expected: "hello world",
		},
		{
			name:     "Object entries",
			payload:  `[{"text": "hello"}, {"text": "world"}]`,
			expected: "hello world",
		},
		{
			name:     "Mixed entries with empties",
			payload:  `["hello", {"text": ""}, {"text": "world"}, ""]`,
			expected: "hello world",
		},
		{
			name:     "Whitespace only",
			payload:  `["   "]`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var entries []subtitleEntry
			if err := json.Unmarshal([]byte(tt.payload), &entries); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}
			if got := joinSubtitles(entries); got != tt.expected {
				t.Errorf("joinSubtitles() = %q, want %q", got, tt.expected)
			}
		})
	}
}
