// Package prompts builds the prompts sent to the text-generation model.
package prompts

import (
	"fmt"
	"strings"
)

// OutlineSystemMessage frames the model as a document-structure assistant.
const OutlineSystemMessage = "You are an assistant that designs document and slide-deck structures. You respond with strictly valid JSON and nothing else."

// BuildOutlinePrompt creates the prompt for generating an ordered outline.
// The model must return only a JSON array of strings: section headers for
// docx, slide titles for pptx. numItems <= 0 leaves the count to the model.
func BuildOutlinePrompt(docType, topic string, numItems int) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf(
		"Generate a structured outline for a %s document about '%s'. ", docType, topic))
	prompt.WriteString("Return ONLY a JSON array of strings, where each string is a section header (for docx) or slide title (for pptx). ")
	prompt.WriteString("Do not include any markdown formatting.")

	if numItems > 0 {
		prompt.WriteString(fmt.Sprintf(" Generate exactly %d items.", numItems))
	}

	return prompt.String()
}
