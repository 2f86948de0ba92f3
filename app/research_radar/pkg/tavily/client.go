package tavily

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/search"
)

const defaultBaseURL = "https://api.tavily.com"

// Client Tavily API 客户端
type Client struct {
	apiKey string
	http   *resty.Client
}

// Option 客户端选项
type Option func(*resty.Client)

// WithBaseURL 替换默认的 API 地址
func WithBaseURL(baseURL string) Option {
	return func(c *resty.Client) { c.SetBaseURL(baseURL) }
}

// WithTimeout 请求超时
func WithTimeout(timeout time.Duration) Option {
	return func(c *resty.Client) { c.SetTimeout(timeout) }
}

// NewClient 创建一个新的 Tavily 客户端
func NewClient(apiKey string, opts ...Option) *Client {
	hc := resty.New().
		SetBaseURL(defaultBaseURL).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json")
	for _, opt := range opts {
		opt(hc)
	}
	return &Client{apiKey: apiKey, http: hc}
}

// Name implements search.Named
func (c *Client) Name() string { return "tavily" }

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// SearchRequest Tavily 搜索请求参数
type SearchRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"` // basic or advanced
	Topic       string `json:"topic"`        // general or news
	MaxResults  int    `json:"max_results"`
}

// SearchResponse Tavily 搜索响应中用到的字段
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// SearchResult 单个搜索结果
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	body := SearchRequest{
		Query:       req.Query,
		SearchDepth: "basic",
		Topic:       req.Topic,
		MaxResults:  req.MaxResults,
	}
	if body.Topic == "" {
		body.Topic = "general"
	}
	if body.MaxResults <= 0 {
		body.MaxResults = 5
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(body).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tavily api error (status %d): %s", resp.StatusCode(), resp.String())
	}

	var out SearchResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	results := make([]search.Result, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, search.Result{Title: r.Title, URL: r.URL, Content: r.Content})
	}
	return &search.Response{Results: results}, nil
}
