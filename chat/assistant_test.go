package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsieve/docsieve/ai/mock"
	"github.com/docsieve/docsieve/core"
	"github.com/docsieve/docsieve/search"
)

// fakeRetriever implements Retriever with canned results.
type fakeRetriever struct {
	result *search.HybridResult
	err    error
	calls  int
}

func (f *fakeRetriever) HybridSearch(ctx context.Context, query string, maxHits int) (*search.HybridResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func hybridResult(semantic []string, keyword []string) *search.HybridResult {
	result := &search.HybridResult{}
	for _, content := range semantic {
		result.Semantic = append(result.Semantic, &core.SearchResult{
			Record: &core.ChunkRecord{Content: content, Source: "doc.txt"},
			Score:  0.9,
		})
	}
	for _, content := range keyword {
		result.Keyword = append(result.Keyword, &core.KeywordMatch{
			Content: content, Source: "doc.txt", Score: 0.5,
		})
	}
	return result
}

func TestNewAssistant(t *testing.T) {
	retriever := &fakeRetriever{result: hybridResult(nil, nil)}
	analyst := mock.NewMockAnalyst()

	t.Run("valid", func(t *testing.T) {
		assistant, err := NewAssistant(retriever, analyst)
		require.NoError(t, err)
		assert.NotNil(t, assistant)
		assert.NotNil(t, assistant.Conversation())
	})

	t.Run("nil retriever", func(t *testing.T) {
		_, err := NewAssistant(nil, analyst)
		assert.Equal(t, ErrRetrieverRequired, err)
	})

	t.Run("nil analyst", func(t *testing.T) {
		_, err := NewAssistant(retriever, nil)
		assert.Equal(t, ErrAnalystRequired, err)
	})

	t.Run("invalid max passages", func(t *testing.T) {
		_, err := NewAssistant(retriever, analyst, WithMaxPassages(0))
		require.Error(t, err)
	})

	t.Run("existing conversation", func(t *testing.T) {
		conversation := NewConversation()
		conversation.Add(RoleUser, "previo")

		assistant, err := NewAssistant(retriever, analyst, WithConversation(conversation))
		require.NoError(t, err)
		assert.Equal(t, 1, assistant.Conversation().Len())
	})
}

func TestAssistant_Ask(t *testing.T) {
	ctx := context.Background()

	t.Run("passages and history reach the prompt", func(t *testing.T) {
		retriever := &fakeRetriever{result: hybridResult(
			[]string{"el plazo es de un año"},
			[]string{"la renta es de $1500"},
		)}

		analyst := mock.NewMockAnalyst()
		var captured string
		analyst.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
			captured = prompt
			return "un año, con renta de $1500", nil
		}

		assistant, err := NewAssistant(retriever, analyst)
		require.NoError(t, err)

		answer, err := assistant.Ask(ctx, "¿cuánto dura el contrato?")
		require.NoError(t, err)

		assert.Equal(t, "un año, con renta de $1500", answer)
		assert.Contains(t, captured, "el plazo es de un año")
		assert.Contains(t, captured, "la renta es de $1500")
		assert.Contains(t, captured, "¿cuánto dura el contrato?")

		// Both turns recorded.
		history := assistant.Conversation().History()
		require.Len(t, history, 2)
		assert.Equal(t, RoleUser, history[0].Role)
		assert.Equal(t, "¿cuánto dura el contrato?", history[0].Content)
		assert.Equal(t, RoleAssistant, history[1].Role)
	})

	t.Run("second question sees the first exchange", func(t *testing.T) {
		retriever := &fakeRetriever{result: hybridResult([]string{"pasaje"}, nil)}
		analyst := mock.NewMockAnalyst()
		var prompts []string
		analyst.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
			prompts = append(prompts, prompt)
			return "respuesta", nil
		}

		assistant, err := NewAssistant(retriever, analyst)
		require.NoError(t, err)

		_, err = assistant.Ask(ctx, "primera pregunta")
		require.NoError(t, err)
		_, err = assistant.Ask(ctx, "segunda pregunta")
		require.NoError(t, err)

		require.Len(t, prompts, 2)
		assert.NotContains(t, prompts[0], "Conversación previa")
		assert.Contains(t, prompts[1], "user: primera pregunta")
		assert.Contains(t, prompts[1], "assistant: respuesta")
	})

	t.Run("duplicate passages deduplicated and capped", func(t *testing.T) {
		retriever := &fakeRetriever{result: hybridResult(
			[]string{"a", "b", "a"},
			[]string{"b", "c", "d", "e", "f"},
		)}
		analyst := mock.NewMockAnalyst()
		var captured string
		analyst.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
			captured = prompt
			return "ok", nil
		}

		assistant, err := NewAssistant(retriever, analyst, WithMaxPassages(3))
		require.NoError(t, err)

		_, err = assistant.Ask(ctx, "pregunta")
		require.NoError(t, err)

		assert.Contains(t, captured, "[1] a")
		assert.Contains(t, captured, "[2] b")
		assert.Contains(t, captured, "[3] c")
		assert.NotContains(t, captured, "[4]")
	})

	t.Run("empty question", func(t *testing.T) {
		assistant, err := NewAssistant(&fakeRetriever{result: hybridResult(nil, nil)}, mock.NewMockAnalyst())
		require.NoError(t, err)

		_, err = assistant.Ask(ctx, "")
		assert.Equal(t, ErrEmptyQuestion, err)
	})

	t.Run("retriever failure", func(t *testing.T) {
		assistant, err := NewAssistant(&fakeRetriever{err: errors.New("index offline")}, mock.NewMockAnalyst())
		require.NoError(t, err)

		_, err = assistant.Ask(ctx, "pregunta")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "retrieving passages")
		assert.Equal(t, 0, assistant.Conversation().Len())
	})

	t.Run("analyst failure records nothing", func(t *testing.T) {
		retriever := &fakeRetriever{result: hybridResult([]string{"pasaje"}, nil)}
		analyst := mock.NewMockAnalyst()
		analyst.CompleteFunc = func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("model unavailable")
		}

		assistant, err := NewAssistant(retriever, analyst)
		require.NoError(t, err)

		_, err = assistant.Ask(ctx, "pregunta")
		require.Error(t, err)
		assert.Equal(t, 0, assistant.Conversation().Len())
	})

	t.Run("reset clears history", func(t *testing.T) {
		retriever := &fakeRetriever{result: hybridResult(nil, nil)}
		assistant, err := NewAssistant(retriever, mock.NewMockAnalyst())
		require.NoError(t, err)

		_, err = assistant.Ask(ctx, "pregunta")
		require.NoError(t, err)
		require.Equal(t, 2, assistant.Conversation().Len())

		assistant.Reset()
		assert.Equal(t, 0, assistant.Conversation().Len())
	})
}
