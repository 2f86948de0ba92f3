package tools

import (
	"fmt"
	"strings"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
)

// DemoProvider 演示数据的提供方名称
const DemoProvider = "demo"

// demoCorpus 按规范化话题索引的固定搜索结果
var demoCorpus = map[string][]model.SearchItem{
	"ai in education": {
		{
			Title:   "AI in education: personalised learning",
			Snippet: "Adaptive systems powered by artificial intelligence build individual learning paths for students. This innovation improves engagement and progress.",
			Source:  "demo://ai-in-education/personalisation",
		},
		{
			Title:   "Trends 2025: 85% of universities use AI",
			Snippet: "Adoption of AI technology in higher education grows by 45% every year. Universities report success with automated assessment.",
			Source:  "demo://ai-in-education/trends-2025",
		},
		{
			Title:   "Challenges: ethics and privacy in AI systems",
			Snippet: "The main problems include protecting the personal data of students. Bias remains a risk for teachers.",
			Source:  "demo://ai-in-education/challenges",
		},
	},
	"multi-agent systems": {
		{
			Title:   "Multi-agent systems: roles and hand-offs",
			Snippet: "Researcher, analyst and reporter agents split a task into steps. Clear roles improve the quality of the final report.",
			Source:  "demo://multi-agent-systems/roles",
		},
		{
			Title:   "Orchestration frameworks compared",
			Snippet: "Chains, graphs, crews and code agents express the same sequence differently. Each brings progress in developer ergonomics.",
			Source:  "demo://multi-agent-systems/frameworks",
		},
		{
			Title:   "Failure modes of agent pipelines",
			Snippet: "Hallucinated tool calls are a common problem. Missing credentials are a risk that demo fallbacks address.",
			Source:  "demo://multi-agent-systems/failure-modes",
		},
	},
}

// DemoSearchResult 返回话题对应的固定演示结果，没有条目时生成通用结果
func DemoSearchResult(topic string) *model.SearchResult {
	items, ok := demoCorpus[normalizeTopic(topic)]
	if !ok {
		items = genericDemoItems(topic)
	}

	out := make([]model.SearchItem, len(items))
	copy(out, items)
	return &model.SearchResult{
		Query:    topic,
		Provider: DemoProvider,
		Live:     false,
		Items:    out,
	}
}

func genericDemoItems(topic string) []model.SearchItem {
	slug := Slug(topic)
	return []model.SearchItem{
		{
			Title:   fmt.Sprintf("%s: overview", topic),
			Snippet: fmt.Sprintf("An overview of %s covering the key ideas, recent developments and the main actors in the field.", topic),
			Source:  "demo://" + slug + "/overview",
		},
		{
			Title:   fmt.Sprintf("%s: trends", topic),
			Snippet: fmt.Sprintf("Recent trends around %s point to innovation and steady progress in adoption.", topic),
			Source:  "demo://" + slug + "/trends",
		},
		{
			Title:   fmt.Sprintf("%s: open questions", topic),
			Snippet: fmt.Sprintf("Open problems for %s include cost, skills and the risk of uneven access.", topic),
			Source:  "demo://" + slug + "/open-questions",
		},
	}
}

func normalizeTopic(topic string) string {
	return strings.Join(strings.Fields(strings.ToLower(topic)), " ")
}
