package openai

import (
	"fmt"
	"strings"
)

const classificationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "category": {
      "type": "string"
    },
    "subcategory": {
      "type": "string"
    },
    "confidence": {
      "type": "integer",
      "minimum": 0,
      "maximum": 100
    },
    "keywords": {
      "type": "array",
      "items": {
        "type": "string"
      }
    }
  },
  "required": ["category", "confidence"],
  "additionalProperties": false
}`

const classificationPromptTemplate = `Classify the given document excerpt into exactly one category and return the result as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The category field must match exactly one of the listed values: %s.
- The subcategory is a short free-form label refining the category, or an empty string if none applies.
- Confidence is an integer from 0 (pure guess) to 100 (certain). Rate based on how clearly the excerpt fits the category.
- Keywords are up to 10 salient terms taken verbatim from the excerpt. Do not invent terms that do not appear.
- If the excerpt fits no listed category, use "General" with low confidence.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input (contrato_arrendamiento.txt): "CONTRATO DE ARRENDAMIENTO. Entre las partes, el arrendador..."
Output:
{
  "category": "Legal",
  "subcategory": "Contrato",
  "confidence": 90,
  "keywords": ["contrato", "arrendamiento", "arrendador"]
}

Example:
Input (reporte_q3.txt): "Balance general del tercer trimestre. Ingresos totales: $45,000..."
Output:
{
  "category": "Financiero",
  "subcategory": "Reporte trimestral",
  "confidence": 85,
  "keywords": ["balance", "trimestre", "ingresos"]
}`

// buildClassificationPrompt creates the system prompt with the allowed
// categories embedded.
func buildClassificationPrompt(categories []string) string {
	return fmt.Sprintf(classificationPromptTemplate,
		classificationResponseSchema,
		strings.Join(categories, ", "))
}
