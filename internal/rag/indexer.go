package rag

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tuberag/internal/config"
	"tuberag/internal/models"

	"google.golang.org/genai"
)

// ErrIndexingIncomplete signals that no submitted document became
// queryable. Partial success is not an error: the store still answers.
var ErrIndexingIncomplete = errors.New("no documents reached ACTIVE state")

// Indexer submits transcript artifacts to the managed store and waits for
// them to become queryable.
type Indexer struct {
	files        fileService
	pollInterval time.Duration
	timeout      time.Duration
}

func NewIndexer(files fileService, cfg *config.IndexingConfig) *Indexer {
	return &Indexer{
		files:        files,
		pollInterval: cfg.PollInterval(),
		timeout:      cfg.Timeout(),
	}
}

// Submit uploads each document independently; paths is index-aligned with
// docs. One upload failure never aborts the rest of the batch.
func (ix *Indexer) Submit(ctx context.Context, docs []*models.TranscriptDocument, paths []string) []*models.IndexedFile {
	files := make([]*models.IndexedFile, 0, len(docs))

	for i, doc := range docs {
		entry := &models.IndexedFile{
			DisplayName: doc.DisplayName,
			State:       models.FileStatePending,
		}
		files = append(files, entry)

		remote, err := ix.files.Upload(ctx, paths[i], doc.DisplayName)
		if err != nil {
			log.Printf("Upload failed for %s: %v", doc.DisplayName, err)
			entry.State = models.FileStateFailed
			continue
		}

		entry.RemoteName = remote.Name
		entry.RemoteURI = remote.URI
		entry.State = mapFileState(remote.State)
		log.Printf("Uploaded %s as %s", doc.DisplayName, remote.Name)
	}

	return files
}

// AwaitReady polls remote processing status until every file is terminal
// or the timeout elapses. Files still pending at timeout count as not
// indexed. The step fails only when zero files became ACTIVE.
func (ix *Indexer) AwaitReady(ctx context.Context, files []*models.IndexedFile) error {
	deadline := time.Now().Add(ix.timeout)

	for !allTerminal(files) {
		if time.Now().After(deadline) {
			log.Printf("Indexing timed out after %v with %d files still pending", ix.timeout, pendingCount(files))
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ix.pollInterval):
		}

		for _, file := range files {
			if file.Terminal() {
				continue
			}

			remote, err := ix.files.Get(ctx, file.RemoteName)
			if err != nil {
				// Transient until proven otherwise; the deadline bounds it.
				log.Printf("Status check failed for %s: %v", file.DisplayName, err)
				continue
			}
			file.State = mapFileState(remote.State)
		}
	}

	active, failed := CountStates(files)
	log.Printf("Indexing finished: %d of %d documents active (%d failed, %d pending)",
		active, len(files), failed, pendingCount(files))

	if active == 0 {
		return fmt.Errorf("%w: %d submitted, %d failed", ErrIndexingIncomplete, len(files), failed)
	}
	return nil
}

// Cleanup deletes the uploaded files from the managed store.
func (ix *Indexer) Cleanup(ctx context.Context, files []*models.IndexedFile) {
	for _, file := range files {
		if file.RemoteName == "" {
			continue
		}
		if err := ix.files.Delete(ctx, file.RemoteName); err != nil {
			log.Printf("Failed to delete remote file %s: %v", file.DisplayName, err)
			continue
		}
		log.Printf("Deleted remote file %s", file.DisplayName)
	}
}

// CountStates returns how many files are ACTIVE and FAILED.
func CountStates(files []*models.IndexedFile) (active, failed int) {
	for _, file := range files {
		switch file.State {
		case models.FileStateActive:
			active++
		case models.FileStateFailed:
			failed++
		}
	}
	return active, failed
}

func allTerminal(files []*models.IndexedFile) bool {
	for _, file := range files {
		if !file.Terminal() {
			return false
		}
	}
	return true
}

func pendingCount(files []*models.IndexedFile) int {
	count := 0
	for _, file := range files {
		if !file.Terminal() {
			count++
		}
	}
	return count
}

func mapFileState(state genai.FileState) models.FileState {
	switch state {
	case genai.FileStateActive:
		return models.FileStateActive
	case genai.FileStateFailed:
		return models.FileStateFailed
	default:
		return models.FileStatePending
	}
}
