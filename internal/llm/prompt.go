package llm

import (
	"bytes"
	"fmt"
	"text/template"

	"expensewise/internal/core"
)

const systemPrompt = `You are a personal finance advisor. Respond only with a JSON object of the form {"summary": string, "recommendations": [string]}. No markdown.`

var userPrompt = template.Must(template.New("advice").Parse(`Analyze the following spending patterns and provide personalized recommendations for saving money.

Expenses:
{{- range .Expenses}}
- Date: {{.Date}}, Category: {{.Category}}, Amount: {{printf "%.2f" .Amount}}
{{- else}}
- none recorded
{{- end}}

Monthly Income: {{printf "%.2f" .Income}}

Based on this spending data, provide a summary of the spending habits and a list of specific, actionable and practical recommendations for the user to save money. The recommendations should be tailored to the user's spending patterns. The summary should indicate where the user is spending the most money and where they can cut back. If expenses exceed income, recommend the user reduce expenses across all categories.
`))

// renderPrompt fills the user message for req.
func renderPrompt(req core.AdviceRequest) (string, error) {
	var buf bytes.Buffer
	if err := userPrompt.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("render advice prompt: %w", err)
	}
	return buf.String(), nil
}
