package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/config"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
)

// Storage 把 MemoryRecord 同步归档到 Postgres，JSON 文件仍是主存储
type Storage struct {
	db *sql.DB
}

// DSN 由配置拼出 lib/pq 连接串
func DSN(cfg config.DBConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
}

// NewStorage 连接数据库并初始化表结构
func NewStorage(cfg config.DBConfig) (*Storage, error) {
	db, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	return newStorage(db)
}

func newStorage(db *sql.DB) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS research_runs (
			run_id TEXT PRIMARY KEY,
			framework TEXT NOT NULL,
			mode TEXT NOT NULL,
			topic TEXT NOT NULL,
			sentiment_label TEXT,
			sentiment_score DOUBLE PRECISION,
			report_title TEXT,
			file_path TEXT,
			record JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS search_items (
			id SERIAL PRIMARY KEY,
			run_id TEXT REFERENCES research_runs(run_id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT,
			snippet TEXT,
			source TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_research_runs_topic ON research_runs (topic)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}
	return nil
}

// Archive 写入一条运行记录及其搜索条目，同一 run_id 重复写入时覆盖
func (s *Storage) Archive(ctx context.Context, rec *model.MemoryRecord, path string) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	var label, title sql.NullString
	var score sql.NullFloat64
	if rec.Analysis != nil {
		label = sql.NullString{String: string(rec.Analysis.SentimentLabel), Valid: true}
		score = sql.NullFloat64{Float64: rec.Analysis.SentimentScore, Valid: true}
	}
	if rec.Report != nil {
		title = sql.NullString{String: rec.Report.Title, Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO research_runs (run_id, framework, mode, topic, sentiment_label, sentiment_score, report_title, file_path, record, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (run_id) DO UPDATE SET
			file_path = EXCLUDED.file_path,
			record = EXCLUDED.record`,
		rec.RunID, rec.Framework, string(rec.Mode), rec.Topic, label, score, title, path, raw, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert research run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM search_items WHERE run_id = $1`, rec.RunID); err != nil {
		return fmt.Errorf("failed to clear search items: %w", err)
	}
	if rec.SearchResult != nil {
		for i, item := range rec.SearchResult.Items {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO search_items (run_id, position, title, snippet, source)
				VALUES ($1, $2, $3, $4, $5)`,
				rec.RunID, i, item.Title, item.Snippet, item.Source)
			if err != nil {
				return fmt.Errorf("failed to insert search item: %w", err)
			}
		}
	}

	return tx.Commit()
}

// RunSummary 归档记录概要
type RunSummary struct {
	RunID     string
	Framework string
	Topic     string
	Sentiment string
	Path      string
	CreatedAt time.Time
}

// RecentRuns 最近 limit 条归档记录，按时间倒序
func (s *Storage) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, framework, topic, COALESCE(sentiment_label, ''), COALESCE(file_path, ''), created_at
		FROM research_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query research runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.Framework, &r.Topic, &r.Sentiment, &r.Path, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
