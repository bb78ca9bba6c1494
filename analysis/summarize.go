package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docsieve/docsieve/ai"
	"github.com/docsieve/docsieve/core"
)

const summarizePromptTemplate = `Eres un analista de documentos. Resume el siguiente documento en un párrafo claro y conciso, en el idioma del documento.

Documento (%s):
%s`

const comparePromptTemplate = `Eres un analista de documentos. Compara los dos documentos siguientes: señala sus similitudes, sus diferencias y cualquier contradicción. Responde en el idioma de los documentos.

Documento A (%s):
%s

Documento B (%s):
%s`

// Summarizer produces LLM-backed summaries and comparisons of documents.
type Summarizer struct {
	analyst    ai.Analyst
	maxExcerpt int
	logger     *slog.Logger
}

// NewSummarizer creates a summarizer backed by the given analyst.
func NewSummarizer(analyst ai.Analyst) (*Summarizer, error) {
	if analyst == nil {
		return nil, ErrAnalystRequired
	}
	return &Summarizer{
		analyst:    analyst,
		maxExcerpt: 8000,
		logger:     slog.Default().With("component", "summarizer"),
	}, nil
}

// Summarize returns a one-paragraph summary of the document.
func (s *Summarizer) Summarize(ctx context.Context, doc *core.Document) (string, error) {
	if doc == nil {
		return "", ErrDocumentRequired
	}

	prompt := fmt.Sprintf(summarizePromptTemplate, doc.Filename, s.excerpt(doc.Text))
	s.logger.Debug("summarizing document", "filename", doc.Filename, "chars", len(doc.Text))

	return s.analyst.Complete(ctx, prompt)
}

// Compare contrasts two documents: similarities, differences, contradictions.
func (s *Summarizer) Compare(ctx context.Context, a, b *core.Document) (string, error) {
	if a == nil || b == nil {
		return "", ErrDocumentRequired
	}

	prompt := fmt.Sprintf(comparePromptTemplate,
		a.Filename, s.excerpt(a.Text),
		b.Filename, s.excerpt(b.Text))
	s.logger.Debug("comparing documents", "a", a.Filename, "b", b.Filename)

	return s.analyst.Complete(ctx, prompt)
}

// excerpt caps prompt size; both halves of a comparison get the same cap.
func (s *Summarizer) excerpt(text string) string {
	if len(text) > s.maxExcerpt {
		return text[:s.maxExcerpt]
	}
	return text
}
