package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/search"
)

// Client SearXNG API 客户端
type Client struct {
	http *resty.Client
}

// NewClient 创建一个新的 SearXNG 客户端，timeout 单位为秒
func NewClient(baseURL string, timeout int) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(t).
		// 自建实例常对默认 UA 做反爬拦截
		SetHeader("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	return &Client{http: hc}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// Name implements search.Named
func (c *Client) Name() string { return "searxng" }

// SearchResponse SearXNG 响应中用到的字段
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// SearchResult SearXNG 单条结果
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Search 执行搜索
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	category := "general"
	if req.Topic == "news" {
		category = "news"
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":          req.Query,
			"format":     "json",
			"categories": category,
		}).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("searxng api error (status %d): %s", resp.StatusCode(), resp.String())
	}

	var out SearchResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	var results []search.Result
	for _, r := range out.Results {
		if req.MaxResults > 0 && len(results) >= req.MaxResults {
			break
		}
		results = append(results, search.Result{Title: r.Title, URL: r.URL, Content: r.Content})
	}
	return &search.Response{Results: results}, nil
}
