package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"tuberag/internal/channel"
	"tuberag/internal/models"
	"tuberag/internal/rag"
	"tuberag/internal/transcripts"
)

// State is the controller's position in the session lifecycle.
type State string

const (
	StateCollectingInput State = "COLLECTING_INPUT"
	StateScraping        State = "SCRAPING"
	StateMaterializing   State = "MATERIALIZING"
	StateIndexing        State = "INDEXING"
	StateChatting        State = "CHATTING"
	StateTerminated      State = "TERMINATED"
	StateAborted         State = "ABORTED"
)

const defaultVideoCount = 10

// VideoFetcher scrapes a channel's newest videos.
type VideoFetcher interface {
	FetchChannelVideos(ctx context.Context, channelURL string, count int) ([]*models.VideoRecord, error)
}

// DocumentStore persists transcript artifacts for the session.
type DocumentStore interface {
	WriteAll(docs []*models.TranscriptDocument) ([]string, error)
	Clear() error
}

// Indexer moves documents into the managed store and reports readiness.
type Indexer interface {
	Submit(ctx context.Context, docs []*models.TranscriptDocument, paths []string) []*models.IndexedFile
	AwaitReady(ctx context.Context, files []*models.IndexedFile) error
	Cleanup(ctx context.Context, files []*models.IndexedFile)
}

// ChatRunner owns the interactive loop once the store is queryable.
type ChatRunner interface {
	Run(ctx context.Context, session *models.ConversationSession) error
}

// ChannelResolver verifies a channel exists before the scrape runs.
type ChannelResolver interface {
	Resolve(ctx context.Context, ref *channel.Ref) (string, error)
}

// Deps are the controller's collaborators. Resolver may be nil when no
// Data API key is configured.
type Deps struct {
	Scraper  VideoFetcher
	Docs     DocumentStore
	Indexer  Indexer
	Chat     ChatRunner
	Resolver ChannelResolver
	In       io.Reader
	Out      io.Writer
}

// Controller sequences scrape, materialize, index, and chat for one
// session. It is the sole owner of the ConversationSession and the only
// writer of its store reference.
type Controller struct {
	scraper  VideoFetcher
	docs     DocumentStore
	indexer  Indexer
	chat     ChatRunner
	resolver ChannelResolver
	in       *bufio.Reader
	out      io.Writer

	state   State
	session *models.ConversationSession
}

func New(deps Deps) *Controller {
	return &Controller{
		scraper:  deps.Scraper,
		docs:     deps.Docs,
		indexer:  deps.Indexer,
		chat:     deps.Chat,
		resolver: deps.Resolver,
		in:       bufio.NewReader(deps.In),
		out:      deps.Out,
		state:    StateCollectingInput,
	}
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State { return c.state }

// Session returns the conversation session, nil before chatting starts.
func (c *Controller) Session() *models.ConversationSession { return c.session }

// Run drives one full session. The returned error carries the failing
// stage and cause when the run aborts.
func (c *Controller) Run(ctx context.Context) error {
	ref, count, err := c.collectInput()
	if err != nil {
		return c.abort(StateCollectingInput, err)
	}

	channelName := ref.DisplayName()
	if c.resolver != nil {
		name, err := c.resolver.Resolve(ctx, ref)
		if err != nil {
			return c.abort(StateCollectingInput, err)
		}
		channelName = name
	}

	c.setState(StateScraping)
	fmt.Fprintf(c.out, "\nScraping channel %s (up to %d videos)...\n", channelName, count)
	records, err := c.scraper.FetchChannelVideos(ctx, ref.URL(), count)
	if err != nil {
		return c.abort(StateScraping, err)
	}
	fmt.Fprintf(c.out, "Found %d videos\n", len(records))

	c.setState(StateMaterializing)
	docs, err := transcripts.Materialize(records)
	if err != nil {
		return c.abort(StateMaterializing, err)
	}
	paths, err := c.docs.WriteAll(docs)
	if err != nil {
		return c.abort(StateMaterializing, err)
	}
	fmt.Fprintf(c.out, "Created %d transcript files\n", len(paths))

	c.setState(StateIndexing)
	fmt.Fprintln(c.out, "Uploading transcripts to the knowledge store...")
	files := c.indexer.Submit(ctx, docs, paths)
	if err := c.indexer.AwaitReady(ctx, files); err != nil {
		return c.abort(StateIndexing, err)
	}

	active, failed := rag.CountStates(files)
	if failed > 0 {
		fmt.Fprintf(c.out, "Indexed %d of %d videos (%d failed remotely)\n", active, len(files), failed)
	} else {
		fmt.Fprintf(c.out, "Indexed %d videos\n", active)
	}

	c.session = models.NewConversationSession(channelName, files)

	c.setState(StateChatting)
	if err := c.chat.Run(ctx, c.session); err != nil {
		return c.abort(StateChatting, err)
	}

	c.setState(StateTerminated)
	c.offerCleanup(ctx, files)
	return nil
}

// collectInput prompts for the channel URL and video count, re-prompting
// on invalid input until the operator provides a usable pair or input ends.
func (c *Controller) collectInput() (*channel.Ref, int, error) {
	var ref *channel.Ref
	for {
		fmt.Fprint(c.out, "\nEnter YouTube channel URL: ")
		line, err := c.readLine()
		if err != nil {
			return nil, 0, err
		}

		ref, err = channel.Parse(line)
		if err != nil {
			fmt.Fprintf(c.out, "Invalid channel URL: %v\n", err)
			continue
		}
		break
	}

	count := defaultVideoCount
	for {
		fmt.Fprintf(c.out, "How many videos to process (default %d): ", defaultVideoCount)
		line, err := c.readLine()
		if err != nil {
			return nil, 0, err
		}

		if line == "" {
			count = defaultVideoCount
			break
		}

		n, err := strconv.Atoi(line)
		if err != nil || n < 1 {
			fmt.Fprintln(c.out, "Please enter a positive number.")
			continue
		}
		if n > 50 {
			log.Printf("Processing %d videos may take a while and incur API costs", n)
		}
		count = n
		break
	}

	return ref, count, nil
}

// offerCleanup runs after a normal exit: remote files and local artifacts
// are deleted only on explicit confirmation.
func (c *Controller) offerCleanup(ctx context.Context, files []*models.IndexedFile) {
	fmt.Fprint(c.out, "\nDelete uploaded files from the knowledge store? (y/n): ")
	if c.confirmed() {
		c.indexer.Cleanup(ctx, files)
	}

	fmt.Fprint(c.out, "Delete local transcript files? (y/n): ")
	if c.confirmed() {
		if err := c.docs.Clear(); err != nil {
			log.Printf("Failed to clear transcript files: %v", err)
		}
	}
}

func (c *Controller) confirmed() bool {
	line, err := c.readLine()
	if err != nil {
		return false
	}
	return strings.EqualFold(line, "y") || strings.EqualFold(line, "yes")
}

func (c *Controller) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("input closed: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (c *Controller) setState(state State) {
	log.Printf("Stage: %s -> %s", c.state, state)
	c.state = state
}

func (c *Controller) abort(stage State, err error) error {
	c.state = StateAborted
	return fmt.Errorf("aborted during %s: %w", strings.ToLower(string(stage)), err)
}
