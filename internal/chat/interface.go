package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tuberag/internal/models"
	"tuberag/internal/rag"
)

// Asker answers one question against a session's indexed store.
type Asker interface {
	Ask(ctx context.Context, session *models.ConversationSession, question string) (*models.ConversationTurn, error)
}

const rule = "================================================================================"

// Interface runs the read-answer loop for one session. Reserved commands
// are matched case-insensitively; anything else is a question.
type Interface struct {
	asker Asker
	in    *bufio.Reader
	out   io.Writer
}

func New(asker Asker, in io.Reader, out io.Writer) *Interface {
	return &Interface{asker: asker, in: bufio.NewReader(in), out: out}
}

// Run loops until an exit command or end of input. Failed turns are
// reported and the loop continues; only the operator ends the session.
func (c *Interface) Run(ctx context.Context, session *models.ConversationSession) error {
	c.printWelcome(session.Channel)

	for {
		fmt.Fprint(c.out, "\nYou: ")

		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				c.printGoodbye()
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}

		switch strings.ToLower(question) {
		case "exit", "quit", "q", "bye":
			c.printGoodbye()
			return nil
		case "help":
			c.printHelp()
			continue
		case "history":
			c.printHistory(session)
			continue
		case "clear":
			session.Clear()
			fmt.Fprintln(c.out, "History cleared")
			continue
		}

		turn, err := c.asker.Ask(ctx, session, question)
		if err != nil {
			if errors.Is(err, rag.ErrAnswerUnavailable) {
				fmt.Fprintf(c.out, "\nNo answer this time: %v\nTry rephrasing or ask something else.\n", err)
				continue
			}
			return err
		}

		c.printAnswer(turn)
	}
}

func (c *Interface) printWelcome(channel string) {
	fmt.Fprintf(c.out, "\n%s\n", rule)
	fmt.Fprintf(c.out, "Channel chat - %s\n", channel)
	fmt.Fprintf(c.out, "%s\n", rule)
	fmt.Fprintln(c.out, "\nAsk anything about the videos from this channel.")
	fmt.Fprintln(c.out, "Commands: help, history, clear, exit/quit")
}

func (c *Interface) printGoodbye() {
	fmt.Fprintf(c.out, "\n%s\nThanks for chatting. Goodbye!\n%s\n", rule, rule)
}

func (c *Interface) printHelp() {
	fmt.Fprintf(c.out, "\n%s\nHELP\n%s\n", rule, rule)
	fmt.Fprintln(c.out, "\nAnswers are grounded in the channel's video transcripts.")
	fmt.Fprintln(c.out, "Tips:")
	fmt.Fprintln(c.out, "  - Ask specific questions about topics covered in the videos")
	fmt.Fprintln(c.out, "  - Request summaries or comparisons between videos")
	fmt.Fprintln(c.out, "  - Sources list which transcripts supported the answer")
	fmt.Fprintln(c.out, "\nCommands:")
	fmt.Fprintln(c.out, "  help      show this message")
	fmt.Fprintln(c.out, "  history   show the conversation so far")
	fmt.Fprintln(c.out, "  clear     clear the conversation history")
	fmt.Fprintln(c.out, "  exit/quit end the chat")
}

func (c *Interface) printHistory(session *models.ConversationSession) {
	if len(session.Turns) == 0 {
		fmt.Fprintln(c.out, "\nNo conversation history yet.")
		return
	}

	fmt.Fprintf(c.out, "\n%s\nCONVERSATION HISTORY\n%s\n", rule, rule)
	for _, turn := range session.Turns {
		speaker := "You"
		if turn.Role == models.RoleAssistant {
			speaker = "Bot"
		}
		text := turn.Text
		if turn.Failed {
			text = "(no answer available)"
		}
		fmt.Fprintf(c.out, "\n%s: %s\n", speaker, truncate(text, 200))
	}
}

func (c *Interface) printAnswer(turn *models.ConversationTurn) {
	fmt.Fprintf(c.out, "\nAssistant:\n\n%s\n", turn.Text)

	if len(turn.Citations) > 0 {
		fmt.Fprintf(c.out, "\nSources (%d citations):\n", len(turn.Citations))
		for i, citation := range turn.Citations {
			if citation.Snippet != "" {
				fmt.Fprintf(c.out, "  [%d] %s: %s\n", i+1, citation.DocumentDisplayName, truncate(citation.Snippet, 100))
			} else {
				fmt.Fprintf(c.out, "  [%d] %s\n", i+1, citation.DocumentDisplayName)
			}
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
