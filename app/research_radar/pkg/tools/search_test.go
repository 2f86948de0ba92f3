package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/search"
)

type fakeSearcher struct {
	resp *search.Response
	err  error
	reqs []*search.Request
}

func (f *fakeSearcher) Search(_ context.Context, req *search.Request) (*search.Response, error) {
	f.reqs = append(f.reqs, req)
	return f.resp, f.err
}

func (f *fakeSearcher) Name() string { return "fake" }

func TestSearchLive(t *testing.T) {
	fs := &fakeSearcher{resp: &search.Response{Results: []search.Result{
		{Title: " First ", Content: "one", URL: "https://a"},
		{Title: "", Content: "  "},
		{Title: "Second", Content: "two", URL: "https://b"},
		{Title: "Third", Content: "three", URL: "https://c"},
	}}}
	st := NewSearchTool(fs, 2)
	assert.True(t, st.Live())

	got, err := st.Search(context.Background(), "  golang ")
	require.NoError(t, err)

	assert.Equal(t, &model.SearchResult{
		Query:    "golang",
		Provider: "fake",
		Live:     true,
		Items: []model.SearchItem{
			{Title: "First", Snippet: "one", Source: "https://a"},
			{Title: "Second", Snippet: "two", Source: "https://b"},
		},
	}, got)
	require.Len(t, fs.reqs, 1)
	assert.Equal(t, &search.Request{Query: "golang", Topic: "general", MaxResults: 2}, fs.reqs[0])
}

func TestSearchFallsBackToDemo(t *testing.T) {
	tests := []struct {
		name     string
		searcher search.Searcher
	}{
		{"no credentials", nil},
		{"provider error", &fakeSearcher{err: errors.New("timeout")}},
		{"empty result", &fakeSearcher{resp: &search.Response{}}},
		{"nil response", &fakeSearcher{}},
		{"blank items", &fakeSearcher{resp: &search.Response{Results: []search.Result{{Title: " "}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSearchTool(tt.searcher, 3).Search(context.Background(), "AI in education")
			require.NoError(t, err)
			assert.Equal(t, DemoSearchResult("AI in education"), got)
			assert.False(t, got.Live)
			assert.Equal(t, DemoProvider, got.Provider)
		})
	}
}

func TestSearchDemoTruncation(t *testing.T) {
	got, err := NewSearchTool(nil, 1).Search(context.Background(), "AI in education")
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestSearchEmptyTopic(t *testing.T) {
	_, err := NewSearchTool(nil, 3).Search(context.Background(), " \t")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDemoSearchResultGeneric(t *testing.T) {
	got := DemoSearchResult("Quantum networking")
	require.Len(t, got.Items, 3)
	for _, it := range got.Items {
		assert.Contains(t, it.Title, "Quantum networking")
	}
	assert.Equal(t, "demo://quantum_networking/overview", got.Items[0].Source)

	a := AnalyzeText(got.Text())
	assert.Equal(t, model.Neutral, a.SentimentLabel)

	// 返回的是副本
	got.Items[0].Title = "changed"
	assert.NotEqual(t, "changed", DemoSearchResult("Quantum networking").Items[0].Title)
	assert.Equal(t, DemoSearchResult("ai  IN education").Items, DemoSearchResult("AI in education").Items)
}
