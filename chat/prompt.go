package chat

import (
	"fmt"
	"strings"
)

const promptHeader = `Eres un asistente que responde preguntas sobre los documentos del usuario. Responde únicamente con la información de los pasajes proporcionados; si la respuesta no está en ellos, dilo claramente. Responde en el idioma de la pregunta.`

// BuildPrompt renders retrieved passages, prior conversation turns, and the
// current question into a single prompt. Pure function: same inputs, same
// prompt.
func BuildPrompt(passages []string, history []Turn, question string) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)
	sb.WriteString("\n\n")

	if len(passages) > 0 {
		sb.WriteString("Pasajes relevantes:\n")
		for i, passage := range passages {
			fmt.Fprintf(&sb, "[%d] %s\n", i+1, passage)
		}
		sb.WriteString("\n")
	}

	if len(history) > 0 {
		sb.WriteString("Conversación previa:\n")
		for _, turn := range history {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Pregunta: %s", question)
	return sb.String()
}
