package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/Tomas-vilte/MateTicket/internal/i18n"
	"github.com/Tomas-vilte/MateTicket/internal/logger"
	"github.com/Tomas-vilte/MateTicket/internal/session"
	"github.com/Tomas-vilte/MateTicket/internal/settings"
)

// RenderBanners prints the error and success banners, if any.
func RenderBanners(w io.Writer, view session.View) {
	if view.Error != "" {
		PrintError(w, view.Error)
	}
	if view.Success != "" {
		PrintSuccess(w, view.Success)
	}
}

// RenderMainView prints the issue fields, the generated output and the
// sub-ticket list.
func RenderMainView(w io.Writer, view session.View, t *i18n.Translations) {
	PrintSectionBanner(w, t.GetMessage("view_main_title", 0, nil))
	RenderBanners(w, view)

	PrintKeyValue(w, t.GetMessage("label_issue_key", 0, nil), orEmpty(view.IssueKey, t))
	PrintKeyValue(w, t.GetMessage("label_issue_title", 0, nil), orEmpty(view.IssueTitle, t))

	_, _ = fmt.Fprintf(w, "\n%s\n", Info.Sprint(t.GetMessage("label_issue_content", 0, nil)))
	_, _ = fmt.Fprintln(w, indent(orEmpty(view.IssueContent, t)))

	if inProgress := loadingLabels(view.Loading, t); len(inProgress) > 0 {
		_, _ = fmt.Fprintln(w)
		PrintKeyValue(w, t.GetMessage("label_in_progress", 0, nil), strings.Join(inProgress, ", "))
	}

	if view.GeneratedDescription != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", Info.Sprint(t.GetMessage("label_generated_description", 0, nil)))
		_, _ = fmt.Fprintln(w, RenderMarkdown(view.GeneratedDescription, defaultMarkdownWidth))
	}

	if view.Analysis != nil {
		_, _ = fmt.Fprintln(w)
		PrintKeyValue(w, t.GetMessage("label_estimated_effort", 0, nil), points(view.Analysis.EstimatedEffort, t))
		PrintKeyValue(w, t.GetMessage("label_breakdown_required", 0, nil), yesNo(view.Analysis.BreakdownRequired, t))
	}

	if view.SubTickets != nil {
		_, _ = fmt.Fprintf(w, "\n%s\n", Info.Sprint(t.GetMessage("label_sub_issues", 0, nil)))
		for i, ticket := range view.SubTickets {
			mark := "[ ]"
			if ticket.Copied {
				mark = Success.Sprint("[x]")
			}
			_, _ = fmt.Fprintf(w, "   %d. %s %s %s\n", i+1, mark, ticket.Title,
				Dim.Sprintf("(%s)", points(ticket.EstimatedEffort, t)))
		}
	}
	_, _ = fmt.Fprintln(w)
}

// RenderSettingsView prints the provider settings with masked credentials.
// Azure fields are shown only when Azure is the active provider.
func RenderSettingsView(w io.Writer, view session.View, t *i18n.Translations) {
	s := view.Settings
	PrintSectionBanner(w, t.GetMessage("view_settings_title", 0, nil))
	RenderBanners(w, view)

	PrintKeyValue(w, t.GetMessage("label_model_provider", 0, nil), string(s.ModelProvider))
	PrintKeyValue(w, t.GetMessage("label_model", 0, nil), string(s.EffectiveModel()))

	if s.ModelProvider == settings.ProviderAzure {
		PrintKeyValue(w, t.GetMessage("label_azure_key", 0, nil), logger.Mask(s.AzureAPIKey))
		PrintKeyValue(w, t.GetMessage("label_azure_api_version", 0, nil), orEmpty(s.AzureAPIVersion, t))
		PrintKeyValue(w, t.GetMessage("label_azure_endpoint", 0, nil), orEmpty(s.AzureEndpoint, t))
		PrintKeyValue(w, t.GetMessage("label_azure_deployment", 0, nil), orEmpty(s.AzureDeployment, t))
	} else {
		PrintKeyValue(w, t.GetMessage("label_openai_key", 0, nil), logger.Mask(s.OpenAIAPIKey))
	}
	_, _ = fmt.Fprintln(w)
}

func loadingLabels(flags session.LoadingFlags, t *i18n.Translations) []string {
	var labels []string
	if flags.LoadFromSource {
		labels = append(labels, t.GetMessage("loading_source", 0, nil))
	}
	if flags.Analyze || flags.SubIssues {
		labels = append(labels, t.GetMessage("loading_analyze", 0, nil))
	}
	if flags.Apply {
		labels = append(labels, t.GetMessage("loading_apply", 0, nil))
	}
	return labels
}

func points(n int, t *i18n.Translations) string {
	return t.GetMessage("label_points", n, map[string]interface{}{"Count": n})
}

func yesNo(b bool, t *i18n.Translations) string {
	if b {
		return t.GetMessage("label_yes", 0, nil)
	}
	return t.GetMessage("label_no", 0, nil)
}

func orEmpty(s string, t *i18n.Translations) string {
	if strings.TrimSpace(s) == "" {
		return Dim.Sprint(t.GetMessage("label_empty", 0, nil))
	}
	return s
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "   " + line
	}
	return strings.Join(lines, "\n")
}
