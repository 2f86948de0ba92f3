package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/llm"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/logger"
	dm "github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
)

// StepReport 报告步骤名称
const StepReport = "report"

const reporterSystemPrompt = `You are a professional technical writer.
Write an executive summary and recommendations based on the research and analysis you are given.
Always mention the research topic verbatim in the first sentence. Answer in plain text or Markdown.`

// ReportTool 生成报告：有模型时调用模型，失败或无模型时使用确定性模板
type ReportTool struct {
	chatModel model.BaseChatModel
	limiter   *rate.Limiter
}

// NewReportTool chatModel 为 nil 表示演示模式
func NewReportTool(chatModel model.BaseChatModel, limiter *rate.Limiter) *ReportTool {
	return &ReportTool{chatModel: chatModel, limiter: limiter}
}

// Live 是否配置了模型
func (t *ReportTool) Live() bool { return t.chatModel != nil }

// Generate 生成报告
func (t *ReportTool) Generate(ctx context.Context, topic string, result *dm.SearchResult, analysis *dm.Analysis) (*dm.Report, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, &InputError{Tool: StepReport, Reason: "topic is empty"}
	}
	if result == nil || analysis == nil {
		return nil, &InputError{Tool: StepReport, Reason: "search result and analysis are required"}
	}

	if t.chatModel == nil {
		degrade(StepReport, reasonNoCredentials, nil)
		return TemplateReport(topic, result, analysis), nil
	}

	text, err := llm.Complete(ctx, t.chatModel, t.limiter, reporterSystemPrompt, BuildPrompt(topic, result, analysis))
	if err != nil {
		degrade(StepReport, reasonError, err)
		return TemplateReport(topic, result, analysis), nil
	}

	logger.Log.Infof("报告生成完成 [%s]: %d 字符", topic, len(text))
	return &dm.Report{
		Title:       reportTitle(topic),
		Text:        text,
		GeneratedBy: dm.GeneratedByModel,
	}, nil
}

// BuildPrompt 把话题、搜索结果与分析嵌入同一条用户消息
func BuildPrompt(topic string, result *dm.SearchResult, analysis *dm.Analysis) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\n\n", topic)
	sb.WriteString("Research findings:\n")
	writeFindings(&sb, result)
	sb.WriteString("\nAnalysis:\n")
	writeAnalysis(&sb, analysis)
	sb.WriteString("\nWrite: a 2-3 sentence summary, 3-5 key findings, 2-3 recommendations.")
	return sb.String()
}

// TemplateReport 演示模式的确定性报告，不含时间与随机内容
func TemplateReport(topic string, result *dm.SearchResult, analysis *dm.Analysis) *dm.Report {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", reportTitle(topic))

	sb.WriteString("## Findings\n\n")
	writeFindings(&sb, result)

	sb.WriteString("\n## Analysis\n\n")
	writeAnalysis(&sb, analysis)

	sb.WriteString("\n## Summary\n\n")
	fmt.Fprintf(&sb, "Research on %q collected %d sources. The overall tone is %s",
		topic, len(result.Items), analysis.SentimentLabel)
	if top := topCategory(analysis.KeywordCounts); top != "" {
		fmt.Fprintf(&sb, " and the dominant theme is %s", top)
	}
	sb.WriteString(".\n")

	sb.WriteString("\n## Recommendations\n\n")
	switch analysis.SentimentLabel {
	case dm.Positive:
		fmt.Fprintf(&sb, "1. Start small pilots of %s and measure the outcomes.\n", topic)
		sb.WriteString("2. Invest in training for the people who will run them.\n")
		sb.WriteString("3. Keep reviewing the risks the sources mention.\n")
	case dm.Negative:
		fmt.Fprintf(&sb, "1. Address the open problems of %s before scaling up.\n", topic)
		sb.WriteString("2. Define clear ethical and privacy standards.\n")
		sb.WriteString("3. Re-run the research once mitigations are in place.\n")
	default:
		fmt.Fprintf(&sb, "1. Collect more sources on %s before deciding.\n", topic)
		sb.WriteString("2. Compare benefits and risks side by side.\n")
		sb.WriteString("3. Revisit the topic in the next research cycle.\n")
	}

	return &dm.Report{
		Title:       reportTitle(topic),
		Text:        sb.String(),
		GeneratedBy: dm.GeneratedByTemplate,
	}
}

func reportTitle(topic string) string {
	return "Research report: " + topic
}

func writeFindings(sb *strings.Builder, result *dm.SearchResult) {
	for i, it := range result.Items {
		fmt.Fprintf(sb, "%d. %s: %s", i+1, it.Title, it.Snippet)
		if it.Source != "" {
			fmt.Fprintf(sb, " (%s)", it.Source)
		}
		sb.WriteByte('\n')
	}
}

func writeAnalysis(sb *strings.Builder, a *dm.Analysis) {
	fmt.Fprintf(sb, "- Sentiment: %s (score %.2f; positive markers %d, negative markers %d)\n",
		a.SentimentLabel, a.SentimentScore, a.PositiveHits, a.NegativeHits)
	fmt.Fprintf(sb, "- Words: %d, sentences: %d\n", a.WordCount, a.SentenceCount)

	keys := make([]string, 0, len(a.KeywordCounts))
	for k := range a.KeywordCounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s(%d)", k, a.KeywordCounts[k]))
	}
	if len(parts) == 0 {
		sb.WriteString("- Key themes: none detected\n")
		return
	}
	fmt.Fprintf(sb, "- Key themes: %s\n", strings.Join(parts, ", "))
}

// topCategory 出现次数最多的类别，平局按名称排序取第一个
func topCategory(counts map[string]int) string {
	best, bestN := "", 0
	for k, n := range counts {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best
}
