package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/config"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/pipeline"
)

func demoConfig(t *testing.T) *config.Config {
	t.Setenv("OPENAI_API_KEY", "")
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Output.Dir = t.TempDir()
	cfg.Output.Timestamped = false
	cfg.Output.TopicInName = true
	return cfg
}

func TestEngineDemoRun(t *testing.T) {
	cfg := demoConfig(t)
	eng, err := NewEngine(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "demo", eng.Mode())

	var statuses []string
	var last int
	res, err := eng.Run(context.Background(), RunOptions{
		Framework: pipeline.FrameworkCrew,
		ProgressCallback: func(status string, progress int) {
			statuses = append(statuses, status)
			last = progress
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"starting", "searching", "analyzing", "reporting", "saving", "done"}, statuses)
	assert.Equal(t, 100, last)
	assert.Equal(t, config.DefaultTopic, res.Record.Topic)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "crew_report_ai_in_education.json"), res.Path)
	_, err = os.Stat(res.Path)
	assert.NoError(t, err)
}

func TestEngineNotebook(t *testing.T) {
	cfg := demoConfig(t)
	cfg.Output.Notebook = true
	eng, err := NewEngine(cfg, nil)
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), RunOptions{Framework: pipeline.FrameworkChain, Topic: "multi-agent systems"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.Output.Dir, "chain_memory.json"))
}

func TestEngineUnknownFramework(t *testing.T) {
	eng, err := NewEngine(demoConfig(t), nil)
	require.NoError(t, err)
	_, err = eng.Run(context.Background(), RunOptions{Framework: "swarm"})
	assert.Error(t, err)
}

func TestEngineIncompleteSearchConfigFallsBackToDemoSearch(t *testing.T) {
	for _, provider := range []string{"tavily", "searxng", "bing"} {
		t.Run(provider, func(t *testing.T) {
			cfg := demoConfig(t)
			cfg.LLM.APIKey = "sk-test"
			cfg.Search.Provider = provider
			cfg.Search.Tavily.APIKey = ""
			cfg.Search.SearXNG.BaseURL = ""

			eng, err := NewEngine(cfg, nil)
			require.NoError(t, err)
			assert.False(t, eng.kit.Search.Live())
			assert.Equal(t, "live", eng.Mode())
		})
	}
}
