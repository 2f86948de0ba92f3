package tools

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/logger"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
)

// RecordInfo 已保存记录的概要
type RecordInfo struct {
	Name      string          `json:"name"`
	RunID     string          `json:"run_id"`
	Framework string          `json:"framework"`
	Mode      model.Mode      `json:"mode"`
	Topic     string          `json:"topic"`
	Timestamp time.Time       `json:"timestamp"`
	Sentiment model.Sentiment `json:"sentiment"`
	Title     string          `json:"title"`
}

// IsRecordName 文件名是否为 <framework>_report*.json
func IsRecordName(name string) bool {
	return filepath.Base(name) == name &&
		strings.HasSuffix(name, ".json") &&
		strings.Contains(name, "_report")
}

// ListRecords 列出目录中的记录，按时间倒序。目录不存在时返回空列表，无法解析的文件被跳过
func ListRecords(dir string) ([]RecordInfo, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []RecordInfo
	for _, e := range entries {
		if e.IsDir() || !IsRecordName(e.Name()) {
			continue
		}
		rec, err := LoadRecord(filepath.Join(dir, e.Name()))
		if err != nil {
			logger.Log.Warnf("跳过无法解析的记录 [%s]: %v", e.Name(), err)
			continue
		}
		info := RecordInfo{
			Name:      e.Name(),
			RunID:     rec.RunID,
			Framework: rec.Framework,
			Mode:      rec.Mode,
			Topic:     rec.Topic,
			Timestamp: rec.Timestamp,
		}
		if rec.Analysis != nil {
			info.Sentiment = rec.Analysis.SentimentLabel
		}
		if rec.Report != nil {
			info.Title = rec.Report.Title
		}
		out = append(out, info)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
