package llm

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/Veraticus/muster/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var systemPromptTemplate = template.Must(
	template.New("system_prompt.tmpl").ParseFS(templateFS, "templates/system_prompt.tmpl"),
)

// Prompt is a single extraction request in provider-neutral form.
type Prompt struct {
	System string
	User   string
	Images []model.Image
}

// BuildPrompt renders the extraction prompt. Rules are listed in the order given.
// includeShape spells the response shape out in the system prompt for
// providers that cannot enforce a response schema.
func BuildPrompt(text string, images []model.Image, rules []model.LearningRule, includeShape bool) (Prompt, error) {
	data := struct {
		Rules        []model.LearningRule
		IncludeShape bool
	}{
		Rules:        rules,
		IncludeShape: includeShape,
	}

	var buf bytes.Buffer
	if err := systemPromptTemplate.Execute(&buf, data); err != nil {
		return Prompt{}, fmt.Errorf("failed to execute system_prompt template: %w", err)
	}

	return Prompt{
		System: buf.String(),
		User:   "Process the following content:\n\nTEXT:\n" + text,
		Images: images,
	}, nil
}
