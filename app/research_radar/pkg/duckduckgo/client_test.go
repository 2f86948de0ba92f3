package duckduckgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/search"
)

const answerJSON = `{
  "Heading": "Educational technology",
  "AbstractText": "Educational technology is the combined use of hardware and software.",
  "AbstractURL": "https://en.wikipedia.org/wiki/Educational_technology",
  "AbstractSource": "Wikipedia",
  "RelatedTopics": [
    {"Text": "Adaptive learning - A method that uses algorithms.", "FirstURL": "https://duckduckgo.com/Adaptive_learning"},
    {"Name": "See also", "Topics": [
      {"Text": "Intelligent tutoring system - Computer system that imitates tutors.", "FirstURL": "https://duckduckgo.com/ITS"},
      {"Text": "", "FirstURL": "https://duckduckgo.com/empty"}
    ]},
    {"Text": "E-learning", "FirstURL": "https://duckduckgo.com/E-learning"}
  ]
}`

func TestClientSearch(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query = map[string]string{"q": q.Get("q"), "format": q.Get("format"), "no_html": q.Get("no_html")}
		w.Header().Set("Content-Type", "application/x-javascript")
		_, _ = w.Write([]byte(answerJSON))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5)
	assert.Equal(t, "duckduckgo", c.Name())

	resp, err := c.Search(context.Background(), &search.Request{Query: "AI in education", MaxResults: 10})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"q": "AI in education", "format": "json", "no_html": "1"}, query)
	assert.Equal(t, []search.Result{
		{
			Title:   "Educational technology (Wikipedia)",
			URL:     "https://en.wikipedia.org/wiki/Educational_technology",
			Content: "Educational technology is the combined use of hardware and software.",
		},
		{Title: "Adaptive learning", URL: "https://duckduckgo.com/Adaptive_learning", Content: "A method that uses algorithms."},
		{Title: "Intelligent tutoring system", URL: "https://duckduckgo.com/ITS", Content: "Computer system that imitates tutors."},
		{Title: "E-learning", URL: "https://duckduckgo.com/E-learning", Content: "E-learning"},
	}, resp.Results)
}

func TestClientSearchTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(answerJSON))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, 0).Search(context.Background(), &search.Request{Query: "x", MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 2)
}

func TestClientSearchErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, 1).Search(context.Background(), &search.Request{Query: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("bad body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, 1).Search(context.Background(), &search.Request{Query: "x"})
		assert.Error(t, err)
	})
}
