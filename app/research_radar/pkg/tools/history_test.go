package tools

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRecords(t *testing.T) {
	dir := t.TempDir()
	m := &MemoryTool{Dir: dir, Timestamped: true}

	older := sampleRecord()
	newer := sampleRecord()
	newer.Framework = "graph"
	newer.RunID = "run-2"
	newer.Timestamp = older.Timestamp.Add(time.Minute)

	require.NoError(t, m.Save(m.Path(older.Framework, older.Topic, older.Timestamp), older))
	require.NoError(t, m.Save(m.Path(newer.Framework, newer.Topic, newer.Timestamp), newer))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crew_report_broken.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chain_memory.json"), []byte("{}"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "x_report.json"), 0o755))

	got, err := ListRecords(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "graph_report_20250102_030505.json", got[0].Name)
	assert.Equal(t, "run-2", got[0].RunID)
	assert.Equal(t, "chain_report_20250102_030405.json", got[1].Name)
	assert.Equal(t, "positive", string(got[1].Sentiment))
	assert.Equal(t, "Research report: AI in education", got[1].Title)
}

func TestListRecordsMissingDir(t *testing.T) {
	got, err := ListRecords(filepath.Join(t.TempDir(), "none"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIsRecordName(t *testing.T) {
	assert.True(t, IsRecordName("chain_report.json"))
	assert.False(t, IsRecordName("chain_memory.json"))
	assert.False(t, IsRecordName("../chain_report.json"))
	assert.False(t, IsRecordName("sub/chain_report.json"))
	assert.False(t, IsRecordName("chain_report.txt"))
}
