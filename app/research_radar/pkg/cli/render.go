package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/pipeline"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/storage"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/tools"
)

var (
	accent      = lipgloss.Color("#8BC34A")
	info        = lipgloss.Color("#2196F3")
	destructive = lipgloss.Color("#e53935")
	muted       = lipgloss.Color("#9e9e9e")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle = lipgloss.NewStyle().Foreground(muted)
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(destructive)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(info).
			Padding(0, 1)
)

func renderBanner(framework, mode, now string) string {
	return titleStyle.Render("research_radar") + " " +
		labelStyle.Render(fmt.Sprintf("framework=%s mode=%s started=%s", framework, mode, now))
}

func renderResult(res *pipeline.Result) string {
	rec := res.Record
	if res.State != pipeline.Done {
		var sb strings.Builder
		sb.WriteString(failStyle.Render("Research failed") + "\n")
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("state:"), joinStates(res.Transitions))
		for _, s := range rec.Steps {
			fmt.Fprintf(&sb, "  %s\n", s)
		}
		return boxStyle.BorderForeground(destructive).Render(strings.TrimRight(sb.String(), "\n"))
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(rec.Report.Title) + "\n\n")
	fmt.Fprintf(&sb, "%s %s  %s %s\n", labelStyle.Render("framework:"), rec.Framework, labelStyle.Render("mode:"), rec.Mode)
	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("sources:"), sourceSummary(rec.SearchResult))
	fmt.Fprintf(&sb, "%s %s (%.2f)\n\n", labelStyle.Render("sentiment:"), rec.Analysis.SentimentLabel, rec.Analysis.SentimentScore)
	sb.WriteString(strings.TrimSpace(rec.Report.Text) + "\n\n")
	fmt.Fprintf(&sb, "%s %s", labelStyle.Render("saved:"), res.Path)
	return boxStyle.Render(sb.String())
}

func sourceSummary(r *model.SearchResult) string {
	if r.Live {
		return fmt.Sprintf("%d from %s", len(r.Items), r.Provider)
	}
	return fmt.Sprintf("%d demo results", len(r.Items))
}

func joinStates(states []pipeline.State) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = s.String()
	}
	return strings.Join(parts, " -> ")
}

func renderHistory(records []tools.RecordInfo) string {
	if len(records) == 0 {
		return labelStyle.Render("no records yet")
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%d records", len(records))) + "\n")
	for _, r := range records {
		fmt.Fprintf(&sb, "%s  %-6s %-5s %-9s %s  %s\n",
			r.Timestamp.Local().Format(tools.TimeLayout), r.Framework, r.Mode, r.Sentiment, r.Topic,
			labelStyle.Render(r.Name))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func renderRuns(runs []storage.RunSummary) string {
	if len(runs) == 0 {
		return labelStyle.Render("no archived runs")
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%d archived runs", len(runs))) + "\n")
	for _, r := range runs {
		fmt.Fprintf(&sb, "%s  %-6s %-9s %s  %s\n",
			r.CreatedAt.Local().Format(tools.TimeLayout), r.Framework, r.Sentiment, r.Topic,
			labelStyle.Render(r.RunID))
	}
	return strings.TrimRight(sb.String(), "\n")
}
