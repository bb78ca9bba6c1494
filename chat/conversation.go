package chat

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single utterance in a conversation.
type Turn struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// Conversation is an ordered history of turns. The zero value is usable.
type Conversation struct {
	turns []Turn
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{}
}

// Add appends a turn with the current time.
func (c *Conversation) Add(role Role, content string) {
	c.turns = append(c.turns, Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// History returns a copy of the turns so far.
func (c *Conversation) History() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// Reset discards the history.
func (c *Conversation) Reset() {
	c.turns = nil
}

// Export renders the conversation as a plain text transcript.
func (c *Conversation) Export() string {
	var sb strings.Builder
	for _, turn := range c.turns {
		fmt.Fprintf(&sb, "[%s] %s: %s\n",
			turn.Timestamp.Format(time.RFC3339), turn.Role, turn.Content)
	}
	return sb.String()
}
