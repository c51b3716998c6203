package regex

import "regexp"

var (
	// Issue patterns
	JiraIssueKey = regexp.MustCompile(`\b([A-Za-z][A-Za-z0-9_]*-\d+)\b`)
	JiraBrowse   = regexp.MustCompile(`/browse/([A-Za-z][A-Za-z0-9_]*-\d+)`)
	JiraSelected = regexp.MustCompile(`[?&]selectedIssue=([A-Za-z][A-Za-z0-9_]*-\d+)`)

	// AI and JSON parsing
	MarkdownJSONBlock = regexp.MustCompile("(?s)^\\s*```(?:json)?\\s*\n?(.*?)```\\s*$")
)
