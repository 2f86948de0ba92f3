package service

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/engine"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/pipeline"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/tools"
)

// Runner 执行一次研究
type Runner interface {
	Run(ctx context.Context, opts engine.RunOptions) (*pipeline.Result, error)
}

// RecordService 浏览已保存的记录，并可触发新的运行
type RecordService struct {
	dir    string
	runner Runner
	log    *log.Helper
}

func NewRecordService(dir string, runner Runner, logger log.Logger) *RecordService {
	return &RecordService{
		dir:    dir,
		runner: runner,
		log:    log.NewHelper(logger),
	}
}

// ListRecordsReply 记录列表
type ListRecordsReply struct {
	Records []tools.RecordInfo `json:"records"`
	Total   int                `json:"total"`
}

func (s *RecordService) ListRecords(ctx context.Context) (*ListRecordsReply, error) {
	records, err := tools.ListRecords(s.dir)
	if err != nil {
		return nil, errors.InternalServer("LIST_FAILED", err.Error())
	}
	if records == nil {
		records = []tools.RecordInfo{}
	}
	return &ListRecordsReply{Records: records, Total: len(records)}, nil
}

func (s *RecordService) GetRecord(ctx context.Context, name string) (*model.MemoryRecord, error) {
	if !tools.IsRecordName(name) {
		return nil, errors.BadRequest("INVALID_NAME", "record name must look like <framework>_report*.json")
	}
	rec, err := tools.LoadRecord(filepath.Join(s.dir, name))
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.NotFound("RECORD_NOT_FOUND", name)
	case err != nil:
		s.log.WithContext(ctx).Errorf("load record %s: %v", name, err)
		return nil, errors.InternalServer("RECORD_UNREADABLE", name)
	}
	return rec, nil
}

// CreateRunReq 触发运行的请求体
type CreateRunReq struct {
	Framework string `json:"framework"`
	Topic     string `json:"topic"`
}

// CreateRunReply 运行结果
type CreateRunReply struct {
	State  string              `json:"state"`
	Path   string              `json:"path,omitempty"`
	Record *model.MemoryRecord `json:"record,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func (s *RecordService) CreateRun(ctx context.Context, req *CreateRunReq) (*CreateRunReply, error) {
	framework := strings.ToLower(strings.TrimSpace(req.Framework))
	if framework == "" {
		framework = pipeline.FrameworkChain
	}
	if !supported(framework) {
		return nil, errors.BadRequest("UNKNOWN_FRAMEWORK", framework)
	}

	res, err := s.runner.Run(ctx, engine.RunOptions{Framework: framework, Topic: req.Topic})
	if res == nil {
		if err == nil {
			return nil, errors.InternalServer("RUN_FAILED", "no result")
		}
		return nil, errors.InternalServer("RUN_FAILED", err.Error())
	}

	reply := &CreateRunReply{State: res.State.String(), Path: res.Path, Record: res.Record}
	if err != nil {
		s.log.WithContext(ctx).Errorf("run %s failed: %v", framework, err)
		reply.Error = err.Error()
		reply.Record = nil
	}
	return reply, nil
}

func supported(framework string) bool {
	for _, f := range pipeline.Frameworks {
		if f == framework {
			return true
		}
	}
	return false
}
