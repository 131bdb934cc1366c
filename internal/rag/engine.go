package rag

import (
	"context"
	"errors"
	"fmt"

	"tuberag/internal/models"

	"google.golang.org/genai"
)

// ErrAnswerUnavailable signals that one chat turn's retrieval or
// generation failed. The session stays usable for subsequent turns.
var ErrAnswerUnavailable = errors.New("answer unavailable")

// Engine answers questions against the indexed transcripts and maps the
// provider's grounding references back to source documents.
type Engine struct {
	gen         generator
	model       string
	temperature float32
}

func NewEngine(client *Client) *Engine {
	return &Engine{gen: client, model: client.model, temperature: client.temperature}
}

// Ask records the user turn, queries the provider with the conversation so
// far plus the session's active files, and records and returns the
// assistant turn. On failure the assistant turn carries a Failed marker
// and ErrAnswerUnavailable is returned; history is never truncated here.
func (e *Engine) Ask(ctx context.Context, session *models.ConversationSession, question string) (*models.ConversationTurn, error) {
	session.Append(models.ConversationTurn{Role: models.RoleUser, Text: question})

	active := session.ActiveFiles()
	contents := buildContents(session.Turns[:len(session.Turns)-1], question, active)

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(e.temperature),
	}

	resp, err := e.gen.GenerateContent(ctx, e.model, contents, cfg)
	if err != nil {
		turn := session.Append(models.ConversationTurn{Role: models.RoleAssistant, Failed: true})
		return turn, fmt.Errorf("%w: %v", ErrAnswerUnavailable, err)
	}

	answer := resp.Text()
	if answer == "" {
		turn := session.Append(models.ConversationTurn{Role: models.RoleAssistant, Failed: true})
		return turn, fmt.Errorf("%w: provider returned no content", ErrAnswerUnavailable)
	}

	turn := session.Append(models.ConversationTurn{
		Role:      models.RoleAssistant,
		Text:      answer,
		Citations: extractCitations(resp, active),
	})
	return turn, nil
}

// buildContents maps the conversation history plus the new question into
// provider contents. The active transcript files ride along with the
// question so retrieval always sees the full store.
func buildContents(history []models.ConversationTurn, question string, active []*models.IndexedFile) []*genai.Content {
	var contents []*genai.Content

	for _, turn := range history {
		if turn.Failed {
			continue
		}
		var role genai.Role = genai.RoleUser
		if turn.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}

	parts := []*genai.Part{genai.NewPartFromText(question)}
	for _, file := range active {
		parts = append(parts, genai.NewPartFromURI(file.RemoteURI, "text/plain"))
	}
	contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))

	return contents
}

// extractCitations converts grounding chunks into citations. A chunk whose
// reference maps to no known document is dropped rather than surfaced
// malformed.
func extractCitations(resp *genai.GenerateContentResponse, active []*models.IndexedFile) []models.Citation {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	byURI := make(map[string]string, len(active))
	byName := make(map[string]string, len(active))
	for _, file := range active {
		byURI[file.RemoteURI] = file.DisplayName
		byName[file.RemoteName] = file.DisplayName
		byName[file.DisplayName] = file.DisplayName
	}

	var citations []models.Citation
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		rc := chunk.RetrievedContext
		if rc == nil {
			continue
		}

		displayName, ok := byURI[rc.URI]
		if !ok {
			displayName, ok = byName[rc.Title]
		}
		if !ok {
			continue
		}

		citations = append(citations, models.Citation{
			DocumentDisplayName: displayName,
			Snippet:             rc.Text,
		})
	}

	return citations
}
