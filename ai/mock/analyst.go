package mock

import (
	"context"
	"strings"

	"github.com/docsieve/docsieve/ai"
)

// MockAnalyst is a test double for ai.Analyst.
// It allows custom behavior injection via function fields.
type MockAnalyst struct {
	// CompleteFunc is called by Complete if set.
	// If nil, uses default canned behavior.
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	// ClassifyFunc is called by Classify if set.
	// If nil, uses default keyword-based behavior.
	ClassifyFunc func(ctx context.Context, filename, excerpt string, categories []string) (*ai.Classification, error)

	callCount int
}

// NewMockAnalyst creates a mock analyst with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockAnalyst().
func NewMockAnalyst() *MockAnalyst {
	return &MockAnalyst{}
}

// Complete returns a short canned summary of the prompt.
func (m *MockAnalyst) Complete(ctx context.Context, prompt string) (string, error) {
	m.callCount++

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}

	// Default: echo the first few words back as a stand-in response
	words := strings.Fields(prompt)
	if len(words) > 8 {
		words = words[:8]
	}
	return "mock response: " + strings.Join(words, " "), nil
}

// Classify assigns a simple mock classification.
// Default behavior: picks the first category whose name appears in the
// excerpt, falling back to the first category in the list.
func (m *MockAnalyst) Classify(ctx context.Context, filename, excerpt string, categories []string) (*ai.Classification, error) {
	m.callCount++

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, filename, excerpt, categories)
	}

	if len(categories) == 0 {
		categories = ai.DefaultCategories
	}

	lower := strings.ToLower(excerpt)
	category := categories[0]
	confidence := 20
	for _, c := range categories {
		if strings.Contains(lower, strings.ToLower(c)) {
			category = c
			confidence = 80
			break
		}
	}

	// Keywords: first few words of the excerpt
	words := strings.Fields(lower)
	if len(words) > 5 {
		words = words[:5]
	}

	return &ai.Classification{
		Category:   category,
		Confidence: confidence,
		Keywords:   words,
	}, nil
}

// CallCount returns the number of times any method was called.
func (m *MockAnalyst) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockAnalyst) Reset() {
	m.callCount = 0
	m.CompleteFunc = nil
	m.ClassifyFunc = nil
}
