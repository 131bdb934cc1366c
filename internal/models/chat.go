package models

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Citation points from a generated answer back to the source document that
// supports it. It always names a document that was ACTIVE at query time.
type Citation struct {
	DocumentDisplayName string `json:"document_display_name"`
	Snippet             string `json:"snippet"`
}

// ConversationTurn is one entry in a session's history. Citations appear
// only on assistant turns. Failed marks an assistant turn whose answer
// could not be generated.
type ConversationTurn struct {
	Role      Role       `json:"role"`
	Text      string     `json:"text"`
	Citations []Citation `json:"citations,omitempty"`
	Failed    bool       `json:"failed,omitempty"`
}

// ConversationSession holds the history and store reference for one
// channel's chat. Turns is append-only; Clear is the only operation that
// empties it, and it leaves the store reference untouched.
type ConversationSession struct {
	Channel string
	Turns   []ConversationTurn
	Store   []*IndexedFile
}

func NewConversationSession(channel string, store []*IndexedFile) *ConversationSession {
	return &ConversationSession{Channel: channel, Store: store}
}

// Append adds a turn to the history and returns it.
func (s *ConversationSession) Append(turn ConversationTurn) *ConversationTurn {
	s.Turns = append(s.Turns, turn)
	return &s.Turns[len(s.Turns)-1]
}

// Clear empties the turn history. The indexed store stays attached so the
// session remains queryable.
func (s *ConversationSession) Clear() {
	s.Turns = nil
}

// ActiveFiles returns the store entries that finished indexing successfully.
func (s *ConversationSession) ActiveFiles() []*IndexedFile {
	var active []*IndexedFile
	for _, f := range s.Store {
		if f.State == FileStateActive {
			active = append(active, f)
		}
	}
	return active
}
