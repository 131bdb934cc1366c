package transcripts

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"tuberag/internal/models"
)

// ErrNoTranscripts signals that every scraped video lacked captions. It is
// distinct from the scraper finding no videos at all, so the operator gets
// an accurate diagnosis.
var ErrNoTranscripts = errors.New("none of the scraped videos have transcripts")

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRuns       = regexp.MustCompile(`\s+`)
)

// Materialize builds one document per captioned record, preserving input
// order. Records without usable caption text are dropped, not failed.
// Display names are unique within the batch: a title collision gets a
// suffix derived from the source video ID.
func Materialize(records []*models.VideoRecord) ([]*models.TranscriptDocument, error) {
	var docs []*models.TranscriptDocument
	taken := make(map[string]bool)

	for _, record := range records {
		if !record.HasTranscript() {
			log.Printf("Skipping %q: no transcript", record.Title)
			continue
		}

		name := sanitizeTitle(record.Title)
		if taken[name] && record.ID != "" {
			name = name + "_" + record.ID
		}
		for i := 2; taken[name]; i++ {
			name = fmt.Sprintf("%s_%d", sanitizeTitle(record.Title), i)
		}
		taken[name] = true

		docs = append(docs, &models.TranscriptDocument{
			SourceVideoID: record.ID,
			DisplayName:   name,
			Body:          formatBody(record),
		})
	}

	if len(docs) == 0 {
		return nil, ErrNoTranscripts
	}
	return docs, nil
}

// sanitizeTitle converts a video title into a safe artifact name.
func sanitizeTitle(title string) string {
	name := invalidFilenameChars.ReplaceAllString(title, "")
	name = whitespaceRuns.ReplaceAllString(name, "_")
	if len(name) > 100 {
		name = name[:100]
	}
	name = strings.TrimRight(name, "._")
	if name == "" {
		return "video"
	}
	return name
}

func formatBody(record *models.VideoRecord) string {
	rule := strings.Repeat("=", 80)

	description := record.Description
	if description == "" {
		description = "No description available"
	}

	lines := []string{
		rule,
		"VIDEO: " + record.Title,
		rule,
		"URL: " + record.URL,
		"Video ID: " + record.ID,
		"Duration: " + valueOrNA(record.Duration),
		fmt.Sprintf("Views: %d", record.ViewCount),
		rule,
		"",
		"DESCRIPTION:",
		description,
		"",
		rule,
		"",
		"TRANSCRIPT:",
		record.Transcript,
		"",
		rule,
	}

	return strings.Join(lines, "\n")
}

func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
