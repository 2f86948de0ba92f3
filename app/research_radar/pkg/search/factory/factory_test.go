package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/config"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/search"
)

func TestNewSearcher(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		want    string
		wantErr bool
	}{
		{"default", func(c *config.Config) {}, "duckduckgo", false},
		{"tavily inferred", func(c *config.Config) {
			c.Search.Provider = ""
			c.Search.Tavily.APIKey = "k"
		}, "tavily", false},
		{"duckduckgo inferred", func(c *config.Config) { c.Search.Provider = "" }, "duckduckgo", false},
		{"tavily without key", func(c *config.Config) { c.Search.Provider = "tavily" }, "", true},
		{"searxng", func(c *config.Config) {
			c.Search.Provider = "searxng"
			c.Search.SearXNG.BaseURL = "http://localhost:8080"
		}, "searxng", false},
		{"searxng without url", func(c *config.Config) { c.Search.Provider = "searxng" }, "", true},
		{"fetch content keeps name", func(c *config.Config) { c.Search.FetchContent = true }, "duckduckgo", false},
		{"unknown", func(c *config.Config) { c.Search.Provider = "bing" }, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			s, err := NewSearcher(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, search.ProviderName(s))
		})
	}
}
