package models

// Analysis is the structured result of a single-issue analysis call.
type Analysis struct {
	Description       string `json:"description"`
	EstimatedEffort   int    `json:"estimated_effort"`
	BreakdownRequired bool   `json:"breakdown_required"`
}

// SubTicket is one decomposed unit of work suggested for a larger issue.
type SubTicket struct {
	Title           string `json:"title"`
	EstimatedEffort int    `json:"estimated_effort"`
	Copied          bool   `json:"copied"`
}

// IssueInfo is what the extractor reads from the active issue. Absent fields
// are empty strings.
type IssueInfo struct {
	IssueKey    string `json:"issueKey"`
	IssueTitle  string `json:"issueTitle"`
	Description string `json:"description"`
}

// StoryPoints are the effort values the model is asked to pick from.
var StoryPoints = []int{1, 2, 3, 5, 8, 13}

// BreakdownThreshold is the effort above which an issue should be split.
const BreakdownThreshold = 8
