package prompts

import (
	"fmt"
	"strings"
)

// SectionSystemMessage frames the model as a professional document writer.
const SectionSystemMessage = "You are a professional writer producing polished document and presentation content."

// BuildSectionPrompt creates the prompt for filling in one section's body.
// The response must be the content text only, with no conversational wrapper.
func BuildSectionPrompt(sectionTitle, projectTitle, docType string) string {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf(
		"Write the content for the section '%s' of a %s document about '%s'. ",
		sectionTitle, docType, projectTitle))
	prompt.WriteString("The content should be specific to this section and fit well within the overall document flow. ")
	prompt.WriteString("Keep it professional and concise. ")
	prompt.WriteString("IMPORTANT: Return ONLY the content text. Do not include any conversational filler, introductory phrases, or concluding remarks. ")
	prompt.WriteString("Do not say 'Here is the content' or 'Sure'. Just the content. ")
	prompt.WriteString("Do not include the slide title or 'Slide X' in the output.")

	return prompt.String()
}
