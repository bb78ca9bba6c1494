package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/docsieve/docsieve/ai"
	"github.com/docsieve/docsieve/search"
)

// DefaultMaxPassages is how many retrieved passages feed the prompt.
const DefaultMaxPassages = 5

var (
	// ErrRetrieverRequired is returned when a retriever is not provided.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrAnalystRequired is returned when an analyst is not provided.
	ErrAnalystRequired = errors.New("analyst required")

	// ErrEmptyQuestion is returned when Ask is called with a blank question.
	ErrEmptyQuestion = errors.New("question is empty")
)

// Retriever is the slice of the searcher the assistant needs.
type Retriever interface {
	HybridSearch(ctx context.Context, query string, maxHits int) (*search.HybridResult, error)
}

// Assistant answers questions grounded in the indexed documents.
type Assistant struct {
	retriever    Retriever
	analyst      ai.Analyst
	conversation *Conversation
	maxPassages  int
	logger       *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*Assistant) error

// WithMaxPassages sets how many retrieved passages go into each prompt.
func WithMaxPassages(n int) AssistantOption {
	return func(a *Assistant) error {
		if n < 1 {
			return fmt.Errorf("max passages must be positive, got %d", n)
		}
		a.maxPassages = n
		return nil
	}
}

// WithConversation starts the assistant with an existing conversation.
func WithConversation(conversation *Conversation) AssistantOption {
	return func(a *Assistant) error {
		if conversation != nil {
			a.conversation = conversation
		}
		return nil
	}
}

// WithAssistantLogger sets the logger for the assistant.
func WithAssistantLogger(logger *slog.Logger) AssistantOption {
	return func(a *Assistant) error {
		if logger != nil {
			a.logger = logger
		}
		return nil
	}
}

// NewAssistant creates an assistant over the given retriever and analyst.
func NewAssistant(retriever Retriever, analyst ai.Analyst, opts ...AssistantOption) (*Assistant, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if analyst == nil {
		return nil, ErrAnalystRequired
	}

	a := &Assistant{
		retriever:    retriever,
		analyst:      analyst,
		conversation: NewConversation(),
		maxPassages:  DefaultMaxPassages,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	a.logger = a.logger.With("component", "assistant")
	return a, nil
}

// Conversation exposes the assistant's history for inspection and export.
func (a *Assistant) Conversation() *Conversation {
	return a.conversation
}

// Reset discards the conversation history.
func (a *Assistant) Reset() {
	a.conversation.Reset()
}

// Ask retrieves passages relevant to the question, builds a prompt with the
// conversation so far, and asks the analyst. Both the question and the answer
// are recorded in the conversation. History is recorded only on success.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	if question == "" {
		return "", ErrEmptyQuestion
	}

	result, err := a.retriever.HybridSearch(ctx, question, a.maxPassages)
	if err != nil {
		return "", fmt.Errorf("retrieving passages: %w", err)
	}

	passages := a.collectPassages(result)
	a.logger.Debug("asking analyst",
		"question", question,
		"passages", len(passages),
		"history", a.conversation.Len())

	prompt := BuildPrompt(passages, a.conversation.History(), question)

	answer, err := a.analyst.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}

	a.conversation.Add(RoleUser, question)
	a.conversation.Add(RoleAssistant, answer)

	return answer, nil
}

// collectPassages merges the two retrieval paths, semantic hits first,
// deduplicated by content, capped at maxPassages.
func (a *Assistant) collectPassages(result *search.HybridResult) []string {
	seen := make(map[string]bool)
	var passages []string

	add := func(content string) {
		if len(passages) >= a.maxPassages || seen[content] {
			return
		}
		seen[content] = true
		passages = append(passages, content)
	}

	for _, r := range result.Semantic {
		add(r.Record.Content)
	}
	for _, m := range result.Keyword {
		add(m.Content)
	}

	return passages
}
