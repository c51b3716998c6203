package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Tomas-vilte/MateTicket/internal/models"
)

// PromptData holds the parameters for template rendering
type PromptData struct {
	IssueTitle         string
	IssueContent       string
	StoryPoints        string
	BreakdownThreshold int
}

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

const (
	analysisSystemPromptTemplate = `You are a helpful JIRA project management assistant that helps analyze tickets. Your response should be in JSON format.
The description should be rich enough to understand the issue and in Markdown format.
The estimated_effort should be in story points ({{.StoryPoints}}).
The breakdown_required should be true if the estimated_effort is above {{.BreakdownThreshold}} points.
{
  "description": string,
  "estimated_effort": number,
  "breakdown_required": boolean
}`

	subTicketsSystemPromptTemplate = `You are a helpful JIRA project management assistant that breaks large tickets into smaller ones. Your response should be in JSON format.
Split the ticket into independent sub-tickets that can each be delivered on their own.
Every sub-ticket needs a short, actionable title and an estimated_effort in story points ({{.StoryPoints}}).
No sub-ticket should be above {{.BreakdownThreshold}} points.
{
  "sub_tickets": [
    { "title": string, "estimated_effort": number }
  ]
}`

	analyzeUserTemplate = `Analyze this ticket and provide:
Issue Title: {{.IssueTitle}}
Issue Content: {{.IssueContent}}`

	subTicketsUserTemplate = `Break down this ticket into sub-tickets:
Issue Title: {{.IssueTitle}}
Issue Content: {{.IssueContent}}`
)

func newPromptData(title, content string) PromptData {
	points := make([]string, len(models.StoryPoints))
	for i, p := range models.StoryPoints {
		points[i] = fmt.Sprint(p)
	}
	return PromptData{
		IssueTitle:         title,
		IssueContent:       content,
		StoryPoints:        strings.Join(points, ","),
		BreakdownThreshold: models.BreakdownThreshold,
	}
}

// buildPrompts returns the system instruction and user message for one call.
func buildPrompts(kind, systemTmpl, userTmpl, title, content string) (string, string, error) {
	data := newPromptData(title, content)

	system, err := RenderPrompt(kind+"_system", systemTmpl, data)
	if err != nil {
		return "", "", err
	}
	user, err := RenderPrompt(kind+"_user", userTmpl, data)
	if err != nil {
		return "", "", err
	}
	return system, user, nil
}
