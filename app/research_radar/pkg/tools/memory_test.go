package tools

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
)

var testTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func sampleRecord() *model.MemoryRecord {
	found := DemoSearchResult("AI in education")
	analysis := AnalyzeText(found.Text())
	return &model.MemoryRecord{
		RunID:        "run-1",
		Framework:    "chain",
		Mode:         model.ModeDemo,
		Topic:        "AI in education",
		Timestamp:    testTime,
		SearchResult: found,
		Analysis:     analysis,
		Report:       TemplateReport("AI in education", found, analysis),
		Steps:        []string{"researcher: <demo> & more"},
	}
}

func TestMemoryPath(t *testing.T) {
	tests := []struct {
		name string
		tool MemoryTool
		want string
	}{
		{"plain", MemoryTool{Dir: "out"}, "out/chain_report.json"},
		{"timestamped", MemoryTool{Dir: "out", Timestamped: true}, "out/chain_report_20250102_030405.json"},
		{"topic", MemoryTool{Dir: "out", TopicInName: true}, "out/chain_report_ai_in_education.json"},
		{"both", MemoryTool{Dir: "out", TopicInName: true, Timestamped: true}, "out/chain_report_ai_in_education_20250102_030405.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, filepath.FromSlash(tt.want), tt.tool.Path("chain", "AI in education", testTime))
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "ai_in_education", Slug("  AI in Education!  "))
	assert.Equal(t, "штучний_інтелект", Slug("Штучний інтелект"))
	assert.Equal(t, "", Slug("???"))
	assert.Len(t, []rune(Slug(strings.Repeat("ab ", 40))), maxSlugLen-1)
}

func TestSaveIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	m := &MemoryTool{Dir: filepath.Join(dir, "nested"), Timestamped: true}
	rec := sampleRecord()
	path := m.Path(rec.Framework, rec.Topic, rec.Timestamp)

	require.NoError(t, m.Save(path, rec))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, m.Save(path, rec))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Contains(t, string(first), "\n  \"run_id\": \"run-1\"")
	assert.Contains(t, string(first), "<demo> & more", "HTML must not be escaped")

	loaded, err := LoadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, rec.Report, loaded.Report)
	assert.True(t, rec.Timestamp.Equal(loaded.Timestamp))
}

func TestSaveErrors(t *testing.T) {
	m := &MemoryTool{Dir: t.TempDir()}
	err := m.Save(filepath.Join(m.Dir, "x.json"), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	err = m.Save(filepath.Join(blocker, "sub", "x.json"), sampleRecord())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersist)
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Contains(t, ioErr.Path, "x.json")
}

func TestSaveFailureKeepsPreviousRecord(t *testing.T) {
	dir := t.TempDir()
	m := &MemoryTool{Dir: dir}
	rec := sampleRecord()
	path := m.Path(rec.Framework, rec.Topic, rec.Timestamp)
	require.NoError(t, m.Save(path, rec))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// 目标是非空目录时 rename 失败
	blocked := filepath.Join(dir, "blocked.json")
	require.NoError(t, os.MkdirAll(filepath.Join(blocked, "keep"), 0o755))
	err = m.Save(blocked, rec)
	assert.ErrorIs(t, err, ErrPersist)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"blocked.json", "chain_report.json"}, names)
}

func TestNotebook(t *testing.T) {
	dir := t.TempDir()
	nb := &Notebook{Path: NotebookPath(dir, "crew"), Clock: func() time.Time { return testTime }}

	entries, err := nb.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, nb.Remember("last_report", "a.json"))
	require.NoError(t, nb.Remember("last_topic", "AI"))
	require.NoError(t, nb.Remember("last_report", "b.json"))

	entries, err = nb.Entries()
	require.NoError(t, err)
	assert.Equal(t, map[string]NotebookEntry{
		"last_report": {Value: "b.json", Timestamp: "2025-01-02T03:04:05Z"},
		"last_topic":  {Value: "AI", Timestamp: "2025-01-02T03:04:05Z"},
	}, entries)
}

func TestNotebookRecoversFromCorruptFile(t *testing.T) {
	nb := &Notebook{Path: filepath.Join(t.TempDir(), "m.json")}
	require.NoError(t, os.WriteFile(nb.Path, []byte("{not json"), 0o644))

	_, err := nb.Entries()
	assert.Error(t, err)

	require.NoError(t, nb.Remember("k", "v"))
	entries, err := nb.Entries()
	require.NoError(t, err)
	assert.Equal(t, "v", entries["k"].Value)
}

func TestClock(t *testing.T) {
	c := Clock(func() time.Time { return testTime })
	assert.Equal(t, "2025-01-02 03:04:05", c.CurrentTime())

	var zero Clock
	assert.WithinDuration(t, time.Now(), zero.Now(), time.Minute)
}
