package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/logger"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
)

// StepSave 持久化步骤名称
const StepSave = "save"

const (
	fileTimeLayout = "20060102_150405"
	maxSlugLen     = 48
)

// MemoryTool 把 MemoryRecord 写成 JSON 文件
type MemoryTool struct {
	Dir         string
	TopicInName bool
	Timestamped bool
}

// Path 按 <dir>/<framework>_report[_<topic>][_<时间>].json 规则生成路径
func (m *MemoryTool) Path(framework, topic string, ts time.Time) string {
	name := framework + "_report"
	if m.TopicInName {
		if slug := Slug(topic); slug != "" {
			name += "_" + slug
		}
	}
	if m.Timestamped {
		name += "_" + ts.Format(fileTimeLayout)
	}
	return filepath.Join(m.Dir, name+".json")
}

// Save 覆盖写入记录。目录无法创建或不可写时返回 IOError
func (m *MemoryTool) Save(path string, rec *model.MemoryRecord) error {
	if rec == nil {
		return &InputError{Tool: StepSave, Reason: "record is nil"}
	}

	data, err := EncodeRecord(rec)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}

	if err := writeFile(path, data); err != nil {
		return &IOError{Path: path, Err: err}
	}

	logger.Log.Infof("记录已保存: %s", path)
	return nil
}

// writeFile 先写同目录临时文件再 rename，失败时目标文件保持原样
func writeFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// EncodeRecord 两空格缩进、不转义 HTML 的 UTF-8 JSON
func EncodeRecord(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadRecord 读取一条记录
func LoadRecord(path string) (*model.MemoryRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec model.MemoryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &rec, nil
}

// Slug 话题转文件名片段：小写，非字母数字替换为下划线
func Slug(topic string) string {
	var sb strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(topic) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			sb.WriteByte('_')
			lastUnderscore = true
		}
	}
	slug := strings.TrimSuffix(sb.String(), "_")

	runes := []rune(slug)
	if len(runes) > maxSlugLen {
		slug = strings.TrimSuffix(string(runes[:maxSlugLen]), "_")
	}
	return slug
}

// NotebookEntry 笔记本中的一条记忆
type NotebookEntry struct {
	Value     string `json:"value"`
	Timestamp string `json:"timestamp"`
}

// Notebook 键值记忆文件，每次写入都读取后整体覆盖
type Notebook struct {
	Path  string
	Clock Clock
}

// NotebookPath <dir>/<framework>_memory.json
func NotebookPath(dir, framework string) string {
	return filepath.Join(dir, framework+"_memory.json")
}

// Remember 保存键值，已存在的键被覆盖
func (n *Notebook) Remember(key, value string) error {
	entries, err := n.Entries()
	if err != nil {
		// 文件损坏时从空笔记本重新开始
		logger.Log.Warnf("笔记本无法解析，重新创建 [%s]: %v", n.Path, err)
		entries = map[string]NotebookEntry{}
	}

	entries[key] = NotebookEntry{
		Value:     value,
		Timestamp: n.Clock.Now().Format(time.RFC3339),
	}

	data, err := EncodeRecord(entries)
	if err != nil {
		return &IOError{Path: n.Path, Err: err}
	}
	if err := writeFile(n.Path, data); err != nil {
		return &IOError{Path: n.Path, Err: err}
	}
	return nil
}

// Entries 读取全部记忆，文件不存在时返回空表
func (n *Notebook) Entries() (map[string]NotebookEntry, error) {
	entries := map[string]NotebookEntry{}
	data, err := os.ReadFile(n.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
