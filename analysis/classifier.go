package analysis

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/docsieve/docsieve/ai"
	"github.com/docsieve/docsieve/core"
	"github.com/docsieve/docsieve/search"
)

// FallbackCategory is assigned when no category's keywords match.
const FallbackCategory = "General"

// MaxTags caps the automatic tags attached to a classification.
const MaxTags = 10

// refinementThreshold is the minimum keyword confidence at which the LLM is
// consulted. Below it the keyword signal is noise and the fallback stands.
const refinementThreshold = 0.1

// DefaultCategoryKeywords maps each category to the terms that signal it.
// The lists are Spanish-leaning because that is what the corpus mostly is.
var DefaultCategoryKeywords = map[string][]string{
	"Legal": {
		"contrato", "cláusula", "arrendamiento", "demanda", "sentencia",
		"notario", "jurídico", "legislación", "artículo", "firmante",
	},
	"Financiero": {
		"factura", "balance", "presupuesto", "ingresos", "gastos",
		"impuesto", "iva", "contabilidad", "trimestre", "beneficio",
	},
	"Técnico": {
		"sistema", "servidor", "software", "configuración", "api",
		"base de datos", "código", "versión", "despliegue", "arquitectura",
	},
	"Académico": {
		"investigación", "hipótesis", "universidad", "metodología", "tesis",
		"bibliografía", "resumen", "conclusiones", "estudio", "análisis",
	},
	"Médico": {
		"paciente", "diagnóstico", "tratamiento", "síntomas", "historia clínica",
		"medicación", "dosis", "consulta", "hospital", "análisis de sangre",
	},
	"Corporativo": {
		"reunión", "acta", "junta", "directiva", "empleado",
		"recursos humanos", "política", "memorando", "departamento", "plantilla",
	},
}

// Classification is the outcome of classifying one document.
type Classification struct {
	Category        string
	Subcategory     string
	Confidence      float32 // 0..1
	MatchedKeywords []string
	Tags            []string
	Refined         bool // true when the LLM adjusted the keyword result
}

// Classifier assigns a category to a document by keyword scoring, optionally
// refined by an LLM.
type Classifier struct {
	analyst    ai.Analyst
	categories map[string][]string
	extractor  *search.KeywordExtractor
	maxExcerpt int
	logger     *slog.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier) error

// WithAnalyst enables LLM refinement of keyword classifications.
func WithAnalyst(analyst ai.Analyst) ClassifierOption {
	return func(c *Classifier) error {
		c.analyst = analyst
		return nil
	}
}

// WithCategories replaces the default category keyword map.
func WithCategories(categories map[string][]string) ClassifierOption {
	return func(c *Classifier) error {
		if len(categories) > 0 {
			c.categories = categories
		}
		return nil
	}
}

// WithClassifierLogger sets the logger for the classifier.
func WithClassifierLogger(logger *slog.Logger) ClassifierOption {
	return func(c *Classifier) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// NewClassifier creates a classifier with the default Spanish category map.
func NewClassifier(opts ...ClassifierOption) (*Classifier, error) {
	extractor, err := search.NewKeywordExtractor()
	if err != nil {
		return nil, err
	}

	c := &Classifier{
		categories: DefaultCategoryKeywords,
		extractor:  extractor,
		maxExcerpt: 2000,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.logger = c.logger.With("component", "classifier")
	return c, nil
}

// Classify scores the document's text against each category's keyword list
// (score = hits / list length) and picks the best. When an analyst is
// configured and the keyword confidence clears the refinement threshold, the
// LLM gets the final word; an LLM failure keeps the keyword result.
func (c *Classifier) Classify(ctx context.Context, doc *core.Document) (*Classification, error) {
	if doc == nil {
		return nil, ErrDocumentRequired
	}

	result := c.classifyByKeywords(doc.Text)
	result.Tags = c.extractTags(doc.Text)

	if c.analyst == nil || result.Confidence <= refinementThreshold {
		return result, nil
	}

	refined, err := c.analyst.Classify(ctx, doc.Filename, c.excerpt(doc.Text), c.categoryNames())
	if err != nil {
		c.logger.Warn("classification refinement failed, keeping keyword result",
			"filename", doc.Filename, "err", err)
		return result, nil
	}

	result.Category = refined.Category
	result.Subcategory = refined.Subcategory
	result.Confidence = float32(refined.Confidence) / 100.0
	result.Refined = true
	c.logger.Debug("classification refined",
		"filename", doc.Filename,
		"category", result.Category,
		"confidence", result.Confidence)

	return result, nil
}

// classifyByKeywords picks the category with the highest keyword hit ratio.
func (c *Classifier) classifyByKeywords(text string) *Classification {
	lower := strings.ToLower(text)

	// Sorted iteration keeps ties deterministic.
	names := make([]string, 0, len(c.categories))
	for category := range c.categories {
		names = append(names, category)
	}
	sort.Strings(names)

	best := &Classification{Category: FallbackCategory}
	for _, category := range names {
		keywords := c.categories[category]
		var matched []string
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
			}
		}

		score := float32(len(matched)) / float32(len(keywords))
		if score > best.Confidence {
			best = &Classification{
				Category:        category,
				Confidence:      score,
				MatchedKeywords: matched,
			}
		}
	}

	return best
}

// extractTags pulls proper names, dates, amounts, and codes from the text.
func (c *Classifier) extractTags(text string) []string {
	tags := c.extractor.Extract(text)
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}
	return tags
}

func (c *Classifier) excerpt(text string) string {
	if len(text) > c.maxExcerpt {
		return text[:c.maxExcerpt]
	}
	return text
}

func (c *Classifier) categoryNames() []string {
	names := make([]string, 0, len(c.categories)+1)
	for category := range c.categories {
		names = append(names, category)
	}
	names = append(names, FallbackCategory)
	return names
}
