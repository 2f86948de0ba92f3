package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/search"
)

func TestClientSearch(t *testing.T) {
	var got SearchRequest
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"query":"AI in education","answer":"","results":[
			{"title":"A","url":"https://a","content":"first","score":0.9},
			{"title":"B","url":"https://b","content":"second","published_date":"2025-01-01"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	resp, err := c.Search(context.Background(), &search.Request{Query: "AI in education", MaxResults: 2})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "/search", path)
	assert.Equal(t, SearchRequest{Query: "AI in education", SearchDepth: "basic", Topic: "general", MaxResults: 2}, got)
	assert.Equal(t, []search.Result{
		{Title: "A", URL: "https://a", Content: "first"},
		{Title: "B", URL: "https://b", Content: "second"},
	}, resp.Results)
	assert.Equal(t, "tavily", search.ProviderName(c))
}

func TestClientSearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient("bad", WithBaseURL(srv.URL)).Search(context.Background(), &search.Request{Query: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
