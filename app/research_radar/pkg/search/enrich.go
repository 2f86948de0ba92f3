package search

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/logger"
)

const (
	minContentLen = 200
	maxContentLen = 2000
)

// FetchFunc 抓取 URL 正文
type FetchFunc func(url string, timeout time.Duration) (string, error)

type contentFetcher struct {
	next    Searcher
	fetch   FetchFunc
	timeout time.Duration
}

// WithContentFetch 包装 Searcher：摘要过短时抓取原文正文补全
func WithContentFetch(next Searcher, timeout time.Duration) Searcher {
	return WithFetcher(next, readabilityFetch, timeout)
}

// WithFetcher 与 WithContentFetch 相同，但可以替换抓取实现
func WithFetcher(next Searcher, fetch FetchFunc, timeout time.Duration) Searcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &contentFetcher{next: next, fetch: fetch, timeout: timeout}
}

// Name implements Named
func (f *contentFetcher) Name() string { return ProviderName(f.next) }

// Search implements Searcher
func (f *contentFetcher) Search(ctx context.Context, req *Request) (*Response, error) {
	resp, err := f.next.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	for i := range resp.Results {
		item := &resp.Results[i]
		if len(item.Content) >= minContentLen || item.URL == "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		fetched, err := f.fetch(item.URL, f.timeout)
		if err != nil {
			logger.Log.Warnf("原文抓取失败，使用搜索摘要 [%s]: %v", item.Title, err)
			continue
		}
		if len(fetched) > len(item.Content) {
			item.Content = truncate(fetched, maxContentLen)
		}
	}
	return resp, nil
}

func readabilityFetch(url string, timeout time.Duration) (string, error) {
	article, err := readability.FromURL(url, timeout)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// truncate 按字节截断，但不切断 UTF-8 字符
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
