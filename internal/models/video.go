package models

import "strings"

// VideoRecord is one scraped video as returned by the scrape provider.
// RecencyRank is the record's position in the provider's newest-to-oldest
// ordering; downstream stages must preserve it and never re-sort.
type VideoRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	ViewCount   int64  `json:"view_count"`
	RecencyRank int    `json:"recency_rank"`
	Transcript  string `json:"transcript"`
}

// HasTranscript reports whether the record carries usable caption text.
func (v *VideoRecord) HasTranscript() bool {
	return strings.TrimSpace(v.Transcript) != ""
}

// TranscriptDocument is the normalized artifact built from a captioned
// video. DisplayName is unique within one materialization batch and Body is
// immutable once created.
type TranscriptDocument struct {
	SourceVideoID string `json:"source_video_id"`
	DisplayName   string `json:"display_name"`
	Body          string `json:"body"`
}

// FileState tracks a submitted document through the managed store.
type FileState string

const (
	FileStatePending FileState = "PENDING"
	FileStateActive  FileState = "ACTIVE"
	FileStateFailed  FileState = "FAILED"
)

// IndexedFile is one document submitted to the managed store.
// State moves PENDING -> ACTIVE or PENDING -> FAILED; both are terminal.
type IndexedFile struct {
	DisplayName string    `json:"display_name"`
	RemoteName  string    `json:"remote_name"`
	RemoteURI   string    `json:"remote_uri"`
	State       FileState `json:"state"`
}

// Terminal reports whether the file has finished remote processing.
func (f *IndexedFile) Terminal() bool {
	return f.State == FileStateActive || f.State == FileStateFailed
}
