package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsieve/docsieve/ai"
	"github.com/docsieve/docsieve/ai/mock"
	"github.com/docsieve/docsieve/core"
)

func doc(filename, text string) *core.Document {
	return core.NewDocument(filename, []byte(text), text)
}

func TestClassifier_KeywordOnly(t *testing.T) {
	classifier, err := NewClassifier()
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("legal document", func(t *testing.T) {
		text := "El presente contrato de arrendamiento establece en su cláusula tercera que el firmante acepta la legislación vigente."
		result, err := classifier.Classify(ctx, doc("contrato.txt", text))
		require.NoError(t, err)

		assert.Equal(t, "Legal", result.Category)
		assert.Greater(t, result.Confidence, float32(0))
		assert.Contains(t, result.MatchedKeywords, "contrato")
		assert.False(t, result.Refined)
	})

	t.Run("financial document", func(t *testing.T) {
		text := "La factura incluye el iva correspondiente al trimestre, con un balance de ingresos y gastos."
		result, err := classifier.Classify(ctx, doc("factura.txt", text))
		require.NoError(t, err)

		assert.Equal(t, "Financiero", result.Category)
	})

	t.Run("no category matches", func(t *testing.T) {
		result, err := classifier.Classify(ctx, doc("poema.txt", "las nubes pasan lentas sobre un cielo sin nombre"))
		require.NoError(t, err)

		assert.Equal(t, FallbackCategory, result.Category)
		assert.Zero(t, result.Confidence)
		assert.Empty(t, result.MatchedKeywords)
	})

	t.Run("nil document", func(t *testing.T) {
		_, err := classifier.Classify(ctx, nil)
		assert.Equal(t, ErrDocumentRequired, err)
	})

	t.Run("confidence is hit ratio", func(t *testing.T) {
		// Exactly 2 of the 10 legal keywords appear.
		text := "un contrato ante notario"
		result, err := classifier.Classify(ctx, doc("x.txt", text))
		require.NoError(t, err)

		assert.Equal(t, "Legal", result.Category)
		assert.InDelta(t, 0.2, result.Confidence, 0.001)
	})
}

func TestClassifier_Tags(t *testing.T) {
	classifier, err := NewClassifier()
	require.NoError(t, err)

	t.Run("tags extracted", func(t *testing.T) {
		text := "Contrato EXP2041 firmado el 12/03/2024 por un importe de $1500."
		result, err := classifier.Classify(context.Background(), doc("c.txt", text))
		require.NoError(t, err)

		assert.Contains(t, result.Tags, "exp2041")
		assert.Contains(t, result.Tags, "12/03/2024")
		assert.Contains(t, result.Tags, "$1500")
	})

	t.Run("tags capped", func(t *testing.T) {
		var sb strings.Builder
		for i := 0; i < 30; i++ {
			fmt.Fprintf(&sb, "EXP%04d ", i)
		}
		result, err := classifier.Classify(context.Background(), doc("codes.txt", sb.String()))
		require.NoError(t, err)

		assert.LessOrEqual(t, len(result.Tags), MaxTags)
	})
}

func TestClassifier_Refinement(t *testing.T) {
	ctx := context.Background()
	legalText := "El contrato de arrendamiento y su cláusula de demanda ante notario."

	t.Run("analyst refines confident keyword result", func(t *testing.T) {
		analyst := mock.NewMockAnalyst()
		analyst.ClassifyFunc = func(ctx context.Context, filename, excerpt string, categories []string) (*ai.Classification, error) {
			return &ai.Classification{
				Category:    "Legal",
				Subcategory: "Arrendamiento",
				Confidence:  92,
			}, nil
		}

		classifier, err := NewClassifier(WithAnalyst(analyst))
		require.NoError(t, err)

		result, err := classifier.Classify(ctx, doc("contrato.txt", legalText))
		require.NoError(t, err)

		assert.True(t, result.Refined)
		assert.Equal(t, "Legal", result.Category)
		assert.Equal(t, "Arrendamiento", result.Subcategory)
		assert.InDelta(t, 0.92, result.Confidence, 0.001)
		assert.Equal(t, 1, analyst.CallCount())
	})

	t.Run("analyst failure keeps keyword result", func(t *testing.T) {
		analyst := mock.NewMockAnalyst()
		analyst.ClassifyFunc = func(ctx context.Context, filename, excerpt string, categories []string) (*ai.Classification, error) {
			return nil, errors.New("model unavailable")
		}

		classifier, err := NewClassifier(WithAnalyst(analyst))
		require.NoError(t, err)

		result, err := classifier.Classify(ctx, doc("contrato.txt", legalText))
		require.NoError(t, err)

		assert.False(t, result.Refined)
		assert.Equal(t, "Legal", result.Category)
	})

	t.Run("low confidence skips the analyst", func(t *testing.T) {
		analyst := mock.NewMockAnalyst()
		classifier, err := NewClassifier(WithAnalyst(analyst))
		require.NoError(t, err)

		// One legal keyword out of ten: confidence 0.1, at the threshold.
		result, err := classifier.Classify(ctx, doc("x.txt", "solo un contrato aquí"))
		require.NoError(t, err)

		assert.False(t, result.Refined)
		assert.Equal(t, 0, analyst.CallCount())
	})
}

func TestClassifier_CustomCategories(t *testing.T) {
	categories := map[string][]string{
		"Recetas": {"ingredientes", "horno", "cucharada"},
	}

	classifier, err := NewClassifier(WithCategories(categories))
	require.NoError(t, err)

	result, err := classifier.Classify(context.Background(),
		doc("tarta.txt", "mezclar los ingredientes y llevar al horno una hora"))
	require.NoError(t, err)

	assert.Equal(t, "Recetas", result.Category)
	assert.InDelta(t, 2.0/3.0, result.Confidence, 0.001)
}
