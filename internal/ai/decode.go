package ai

import (
	"strings"

	"github.com/tidwall/gjson"

	domainErrors "github.com/Tomas-vilte/MateTicket/internal/errors"
	"github.com/Tomas-vilte/MateTicket/internal/models"
	"github.com/Tomas-vilte/MateTicket/internal/regex"
)

// DecodeAnalysis reads an analysis response. It succeeds only for a JSON
// object with a string "description"; otherwise the caller keeps the raw text.
func DecodeAnalysis(raw string) (models.Analysis, bool) {
	doc, ok := parseObject(raw)
	if !ok {
		return models.Analysis{}, false
	}

	description := doc.Get("description")
	if description.Type != gjson.String {
		return models.Analysis{}, false
	}

	analysis := models.Analysis{Description: description.String()}
	if effort := doc.Get("estimated_effort"); effort.Type == gjson.Number {
		analysis.EstimatedEffort = int(effort.Int())
	}
	if breakdown := doc.Get("breakdown_required"); breakdown.IsBool() {
		analysis.BreakdownRequired = breakdown.Bool()
	}
	return analysis, true
}

// DecodeSubTickets reads the "sub_tickets" array of a decomposition response.
// Every entry must be an object with a string title.
func DecodeSubTickets(raw string) ([]models.SubTicket, error) {
	doc, ok := parseObject(raw)
	if !ok {
		return nil, domainErrors.ErrParse.WithContext("reason", "response is not a JSON object")
	}

	list := doc.Get("sub_tickets")
	if !list.Exists() {
		return nil, domainErrors.ErrParse.WithContext("reason", "sub_tickets is missing")
	}
	if !list.IsArray() {
		return nil, domainErrors.ErrParse.WithContext("reason", "sub_tickets is not an array")
	}

	entries := list.Array()
	tickets := make([]models.SubTicket, 0, len(entries))
	for i, entry := range entries {
		if !entry.IsObject() {
			return nil, domainErrors.ErrParse.WithContext("reason", "sub-ticket is not an object").WithContext("index", i)
		}
		title := entry.Get("title")
		if title.Type != gjson.String {
			return nil, domainErrors.ErrParse.WithContext("reason", "sub-ticket title is not a string").WithContext("index", i)
		}
		ticket := models.SubTicket{Title: title.String()}
		if effort := entry.Get("estimated_effort"); effort.Exists() {
			if effort.Type != gjson.Number {
				return nil, domainErrors.ErrParse.WithContext("reason", "sub-ticket effort is not a number").WithContext("index", i)
			}
			ticket.EstimatedEffort = int(effort.Int())
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

// parseObject accepts a JSON object, optionally wrapped in a Markdown code
// fence.
func parseObject(raw string) (gjson.Result, bool) {
	text := strings.TrimSpace(raw)
	if m := regex.MarkdownJSONBlock.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if text == "" || !gjson.Valid(text) {
		return gjson.Result{}, false
	}
	doc := gjson.Parse(text)
	if !doc.IsObject() {
		return gjson.Result{}, false
	}
	return doc, true
}
