package prompts

import (
	"fmt"
	"strings"
)

// RefineSystemMessage frames the model as a text editor.
const RefineSystemMessage = "You are an editor that rewrites text exactly as instructed."

// BuildRefinePrompt creates the prompt for rewriting existing content
// according to a user instruction. The response must be the refined
// text only.
func BuildRefinePrompt(originalText, instruction string) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Original text: %s\n\n", originalText))
	prompt.WriteString(fmt.Sprintf("Refinement instruction: %s\n\n", instruction))
	prompt.WriteString("Rewrite the text based on the instruction. ")
	prompt.WriteString("IMPORTANT: Return ONLY the refined text. Do not include any conversational filler.")

	return prompt.String()
}
