package rag

import (
	"context"
	"fmt"

	"tuberag/internal/config"

	"google.golang.org/genai"
)

// fileService is the slice of the managed store used for indexing.
type fileService interface {
	Upload(ctx context.Context, path, displayName string) (*genai.File, error)
	Get(ctx context.Context, name string) (*genai.File, error)
	Delete(ctx context.Context, name string) error
}

// generator is the slice of the provider used for answering.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client wraps the Gemini API for both the file store and answer
// generation.
type Client struct {
	genai       *genai.Client
	model       string
	temperature float32
}

var (
	_ fileService = (*Client)(nil)
	_ generator   = (*Client)(nil)
)

func NewClient(ctx context.Context, cfg *config.GeminiConfig) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		genai:       client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

func (c *Client) Upload(ctx context.Context, path, displayName string) (*genai.File, error) {
	return c.genai.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		DisplayName: displayName,
		MIMEType:    "text/plain",
	})
}

func (c *Client) Get(ctx context.Context, name string) (*genai.File, error) {
	return c.genai.Files.Get(ctx, name, nil)
}

func (c *Client) Delete(ctx context.Context, name string) error {
	_, err := c.genai.Files.Delete(ctx, name, nil)
	return err
}

func (c *Client) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return c.genai.Models.GenerateContent(ctx, model, contents, cfg)
}
