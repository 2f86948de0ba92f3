package tools

import (
	"context"
	"strings"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/logger"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/search"
)

// StepSearch 搜索步骤名称
const StepSearch = "search"

// SearchTool 网络搜索，失败时静默降级为演示数据
type SearchTool struct {
	searcher   search.Searcher
	maxResults int
}

// NewSearchTool searcher 为 nil 表示演示模式
func NewSearchTool(searcher search.Searcher, maxResults int) *SearchTool {
	if maxResults <= 0 {
		maxResults = 3
	}
	return &SearchTool{searcher: searcher, maxResults: maxResults}
}

// Live 是否配置了在线搜索
func (t *SearchTool) Live() bool { return t.searcher != nil }

// Search 搜索话题。只有空话题会返回错误
func (t *SearchTool) Search(ctx context.Context, topic string) (*model.SearchResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, &InputError{Tool: StepSearch, Reason: "topic is empty"}
	}

	if t.searcher == nil {
		degrade(StepSearch, reasonNoCredentials, nil)
		return t.demo(topic), nil
	}

	resp, err := t.searcher.Search(ctx, &search.Request{
		Query:      topic,
		Topic:      "general",
		MaxResults: t.maxResults,
	})
	if err != nil {
		degrade(StepSearch, reasonError, err)
		return t.demo(topic), nil
	}
	if resp == nil {
		degrade(StepSearch, reasonEmpty, nil)
		return t.demo(topic), nil
	}

	result := &model.SearchResult{
		Query:    topic,
		Provider: search.ProviderName(t.searcher),
		Live:     true,
	}
	for _, r := range resp.Results {
		if len(result.Items) >= t.maxResults {
			break
		}
		if strings.TrimSpace(r.Title) == "" && strings.TrimSpace(r.Content) == "" {
			continue
		}
		result.Items = append(result.Items, model.SearchItem{
			Title:   strings.TrimSpace(r.Title),
			Snippet: strings.TrimSpace(r.Content),
			Source:  r.URL,
		})
	}

	if len(result.Items) == 0 {
		degrade(StepSearch, reasonEmpty, nil)
		return t.demo(topic), nil
	}

	logger.Log.Infof("搜索话题 [%s] 成功: %d 条结果 (%s)", topic, len(result.Items), result.Provider)
	return result, nil
}

func (t *SearchTool) demo(topic string) *model.SearchResult {
	r := DemoSearchResult(topic)
	if len(r.Items) > t.maxResults {
		r.Items = r.Items[:t.maxResults]
	}
	return r
}
