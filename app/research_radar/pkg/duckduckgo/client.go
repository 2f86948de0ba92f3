package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/logger"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/search"
)

const defaultBaseURL = "https://api.duckduckgo.com"

// Client DuckDuckGo Instant Answer API 客户端，无需 API Key
type Client struct {
	http *resty.Client
}

// NewClient 创建客户端，timeout 单位为秒
func NewClient(baseURL string, timeout int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 10 * time.Second
	}

	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(t).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "research_radar/1.0")

	hc.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Log.Debugf("duckduckgo %s -> %d (%s)", resp.Request.URL, resp.StatusCode(), resp.Time())
		return nil
	})

	return &Client{http: hc}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// Name implements search.Named
func (c *Client) Name() string { return "duckduckgo" }

// InstantAnswer Instant Answer 响应中用到的字段
type InstantAnswer struct {
	Heading        string         `json:"Heading"`
	AbstractText   string         `json:"AbstractText"`
	AbstractURL    string         `json:"AbstractURL"`
	AbstractSource string         `json:"AbstractSource"`
	RelatedTopics  []RelatedTopic `json:"RelatedTopics"`
}

// RelatedTopic 相关主题，分组主题的子项在 Topics 中
type RelatedTopic struct {
	Text     string         `json:"Text"`
	FirstURL string         `json:"FirstURL"`
	Name     string         `json:"Name"`
	Topics   []RelatedTopic `json:"Topics"`
}

// Search 执行搜索
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":             req.Query,
			"format":        "json",
			"no_html":       "1",
			"skip_disambig": "1",
		}).
		Get("/")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("duckduckgo api error (status %d): %s", resp.StatusCode(), resp.String())
	}

	// 接口返回的 Content-Type 是 application/x-javascript，手动解析
	var answer InstantAnswer
	if err := json.Unmarshal(resp.Body(), &answer); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	results := flatten(answer)
	if req.MaxResults > 0 && len(results) > req.MaxResults {
		results = results[:req.MaxResults]
	}
	return &search.Response{Results: results}, nil
}

func flatten(answer InstantAnswer) []search.Result {
	var results []search.Result
	if answer.AbstractText != "" {
		title := answer.Heading
		if answer.AbstractSource != "" {
			title = fmt.Sprintf("%s (%s)", answer.Heading, answer.AbstractSource)
		}
		results = append(results, search.Result{
			Title:   title,
			URL:     answer.AbstractURL,
			Content: answer.AbstractText,
		})
	}

	var walk func(topics []RelatedTopic)
	walk = func(topics []RelatedTopic) {
		for _, t := range topics {
			if len(t.Topics) > 0 {
				walk(t.Topics)
				continue
			}
			if t.Text == "" {
				continue
			}
			// Text 形如 "标题 - 描述"
			title, snippet := t.Text, t.Text
			if i := strings.Index(t.Text, " - "); i > 0 {
				title = t.Text[:i]
				snippet = t.Text[i+3:]
			}
			results = append(results, search.Result{
				Title:   title,
				URL:     t.FirstURL,
				Content: snippet,
			})
		}
	}
	walk(answer.RelatedTopics)

	return results
}
