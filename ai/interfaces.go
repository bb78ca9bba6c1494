package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Analyst performs language-model analysis over document text.
// Implementations must be thread-safe for concurrent use.
type Analyst interface {
	// Complete sends a prompt to the model and returns its raw text response.
	Complete(ctx context.Context, prompt string) (string, error)

	// Classify assigns a document excerpt to one of the given categories,
	// returning the refined classification. Returns an error if the model
	// call or response parsing fails.
	Classify(ctx context.Context, filename, excerpt string, categories []string) (*Classification, error)
}

// Classification is the analyst's judgment of a document's type.
type Classification struct {
	// Category is the primary document category.
	// Example: "Legal", "Financiero"
	Category string

	// Subcategory is an optional finer-grained label chosen by the model.
	Subcategory string

	// Confidence is a score from 0-100 indicating how certain the model is.
	Confidence int

	// Keywords are salient terms the model identified in the excerpt.
	Keywords []string
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Analyst instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Analyst returns the document analysis service.
	// The returned Analyst is safe for concurrent use.
	Analyst() Analyst

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
