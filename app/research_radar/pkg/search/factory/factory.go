package factory

import (
	"fmt"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/config"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/duckduckgo"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/search"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/searxng"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/tavily"
)

// NewSearcher 根据配置创建搜索实例
func NewSearcher(cfg *config.Config) (search.Searcher, error) {
	provider := cfg.Search.Provider
	if provider == "" {
		// 有 tavily key 时优先 tavily，否则使用免 key 的 duckduckgo
		if cfg.Search.Tavily.APIKey != "" {
			provider = "tavily"
		} else {
			provider = "duckduckgo"
		}
	}

	var s search.Searcher
	switch provider {
	case "tavily":
		if cfg.Search.Tavily.APIKey == "" {
			return nil, fmt.Errorf("tavily api key is missing")
		}
		s = tavily.NewClient(cfg.Search.Tavily.APIKey)

	case "searxng":
		baseURL := cfg.Search.SearXNG.BaseURL
		if baseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		s = searxng.NewClient(baseURL, cfg.Search.SearXNG.Timeout)

	case "duckduckgo":
		s = duckduckgo.NewClient(cfg.Search.DuckDuckGo.BaseURL, cfg.Search.DuckDuckGo.Timeout)

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}

	if cfg.Search.FetchContent {
		s = search.WithContentFetch(s, 0)
	}
	return s, nil
}
