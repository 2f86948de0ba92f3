package model

import (
	"strings"
	"time"
)

// Sentiment 情感标签
type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Negative Sentiment = "negative"
)

// Mode 运行模式
type Mode string

const (
	ModeLive Mode = "live"
	ModeDemo Mode = "demo"
)

// 报告生成方式
const (
	GeneratedByModel    = "model"
	GeneratedByTemplate = "template"
)

// SearchItem 单条搜索结果
type SearchItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// SearchResult 搜索步骤的输出，Items 保持提供方返回的顺序
type SearchResult struct {
	Query    string       `json:"query"`
	Provider string       `json:"provider"`
	Live     bool         `json:"live"`
	Items    []SearchItem `json:"items"`
}

// Text 拼接全部标题与摘要，供分析步骤使用
func (r *SearchResult) Text() string {
	if r == nil {
		return ""
	}
	var sb strings.Builder
	for _, it := range r.Items {
		if it.Title != "" {
			sb.WriteString(it.Title)
			sb.WriteByte('\n')
		}
		if it.Snippet != "" {
			sb.WriteString(it.Snippet)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Analysis 基于关键词的确定性分析结果
type Analysis struct {
	SentimentLabel Sentiment      `json:"sentiment_label"`
	SentimentScore float64        `json:"sentiment_score"`
	PositiveHits   int            `json:"positive_hits"`
	NegativeHits   int            `json:"negative_hits"`
	WordCount      int            `json:"word_count"`
	SentenceCount  int            `json:"sentence_count"`
	KeywordCounts  map[string]int `json:"keyword_counts"`
}

// Report 最终报告
type Report struct {
	Title       string `json:"title"`
	Text        string `json:"text"`
	GeneratedBy string `json:"generated_by"`
}

// MemoryRecord 一次流水线运行的落盘记录，所有编排方式共用同一结构
type MemoryRecord struct {
	RunID        string        `json:"run_id"`
	Framework    string        `json:"framework"`
	Mode         Mode          `json:"mode"`
	Topic        string        `json:"topic"`
	Timestamp    time.Time     `json:"timestamp"`
	SearchResult *SearchResult `json:"search_result"`
	Analysis     *Analysis     `json:"analysis"`
	Report       *Report       `json:"report"`
	Steps        []string      `json:"steps"`
}
