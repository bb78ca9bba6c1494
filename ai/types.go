package ai

// DefaultCategories defines the document categories used for classification
// when the caller does not supply its own set.
var DefaultCategories = []string{
	"Legal",
	"Financiero",
	"Técnico",
	"Académico",
	"Médico",
	"Corporativo",
	"General",
}
