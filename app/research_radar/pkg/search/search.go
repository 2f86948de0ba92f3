package search

import "context"

// Searcher 定义通用的搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Named 可选接口，提供方名称写入 SearchResult.Provider
type Named interface {
	Name() string
}

// Request 通用搜索请求
type Request struct {
	Query      string
	Topic      string // "news" or "general"
	MaxResults int
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果，Content 作为摘要进入分析步骤
type Result struct {
	Title   string
	URL     string
	Content string
}

// ProviderName 返回搜索实现的名称
func ProviderName(s Searcher) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return "custom"
}
