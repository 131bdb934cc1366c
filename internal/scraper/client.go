package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"tuberag/internal/config"
	"tuberag/internal/models"

	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://api.apify.com"

// ErrNoVideosFound signals that the channel scrape returned zero items.
var ErrNoVideosFound = errors.New("no videos found for channel")

// ProviderError reports a transport, auth, or quota failure from the
// scrape provider.
type ProviderError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scrape provider error: %v", e.Err)
	}
	return fmt.Sprintf("scrape provider error: status %d: %s", e.StatusCode, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Client runs the managed scraping actor for a channel and decodes its
// dataset into video records.
type Client struct {
	actor   string
	baseURL string
	http    *http.Client
}

func NewClient(cfg *config.ScraperConfig) *Client {
	// Bearer auth via a static token source, same construction as an
	// OAuth-backed Google client.
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: cfg.Token},
	))

	return &Client{
		actor:   cfg.Actor,
		baseURL: defaultBaseURL,
		http:    httpClient,
	}
}

type runInput struct {
	StartURLs        []startURL `json:"startUrls"`
	MaxResults       int        `json:"maxResults"`
	SearchType       string     `json:"searchType"`
	IncludeSubtitles bool       `json:"includeSubtitles"`
}

type startURL struct {
	URL string `json:"url"`
}

type datasetItem struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	URL         string          `json:"url"`
	Description string          `json:"description"`
	Duration    string          `json:"duration"`
	ViewCount   int64           `json:"viewCount"`
	Subtitles   []subtitleEntry `json:"subtitles"`
}

// subtitleEntry decodes the provider's subtitle payload, which may be a
// plain string or an object carrying a text field.
type subtitleEntry struct {
	Text string
}

func (s *subtitleEntry) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		s.Text = asString
		return nil
	}

	var asObject struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &asObject); err != nil {
		return err
	}
	s.Text = asObject.Text
	return nil
}

type providerErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// FetchChannelVideos runs the actor against channelURL and returns at most
// count records, newest first. Records without captions are included; a
// missing transcript is a per-record condition, not a request failure.
func (c *Client) FetchChannelVideos(ctx context.Context, channelURL string, count int) ([]*models.VideoRecord, error) {
	if count < 1 {
		return nil, fmt.Errorf("video count must be at least 1, got %d", count)
	}

	input := runInput{
		StartURLs:        []startURL{{URL: channelURL}},
		MaxResults:       count,
		SearchType:       "channel",
		IncludeSubtitles: true,
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items", c.baseURL, c.actor)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build actor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.Printf("Running scrape actor %s for %s (up to %d videos)", c.actor, channelURL, count)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: readProviderMessage(resp.Body)}
	}

	var items []datasetItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, &ProviderError{Err: fmt.Errorf("failed to decode dataset items: %w", err)}
	}

	if len(items) == 0 {
		return nil, ErrNoVideosFound
	}

	// Dataset order is newest first; keep it and cap at the requested count.
	if len(items) > count {
		items = items[:count]
	}

	records := make([]*models.VideoRecord, 0, len(items))
	for i, item := range items {
		title := item.Title
		if title == "" {
			title = "Untitled"
		}
		records = append(records, &models.VideoRecord{
			ID:          item.ID,
			Title:       title,
			URL:         item.URL,
			Description: item.Description,
			Duration:    item.Duration,
			ViewCount:   item.ViewCount,
			RecencyRank: i,
			Transcript:  joinSubtitles(item.Subtitles),
		})
	}

	log.Printf("Scraped %d videos from channel", len(records))
	return records, nil
}

func joinSubtitles(entries []subtitleEntry) string {
	var parts []string
	for _, entry := range entries {
		if entry.Text != "" {
			parts = append(parts, entry.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func readProviderMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return "unreadable provider response"
	}

	var parsed providerErrorBody
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return strings.TrimSpace(string(data))
}
