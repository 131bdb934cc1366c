package channel

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ErrChannelNotFound signals that the Data API knows no channel for the
// given identifier.
var ErrChannelNotFound = errors.New("channel not found")

// Resolver looks up a channel's display title through the YouTube Data API
// before the scrape actor is paid to run against it.
type Resolver struct {
	service *youtube.Service
}

func NewResolver(ctx context.Context, apiKey string) (*Resolver, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Resolver{service: service}, nil
}

// Resolve returns the channel's title. Legacy /c/ custom URLs have no Data
// API lookup; those fall back to the name derived from the URL.
func (r *Resolver) Resolve(ctx context.Context, ref *Ref) (string, error) {
	if !ref.Addressable() {
		log.Printf("Channel %q has no API-addressable identifier, skipping preflight", ref.DisplayName())
		return ref.DisplayName(), nil
	}

	call := r.service.Channels.List([]string{"snippet"}).Context(ctx).MaxResults(1)
	switch {
	case ref.Handle != "":
		call = call.ForHandle(ref.Handle)
	case ref.ID != "":
		call = call.Id(ref.ID)
	case ref.Username != "":
		call = call.ForUsername(ref.Username)
	}

	resp, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("channel lookup failed: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("%w: %s", ErrChannelNotFound, ref.DisplayName())
	}

	title := resp.Items[0].Snippet.Title
	log.Printf("Resolved channel %q (id %s)", title, resp.Items[0].Id)
	return title, nil
}
