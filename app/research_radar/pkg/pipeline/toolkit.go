package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/logger"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/metrics"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/tools"
)

// Archiver 可选的记录归档，失败只记录日志
type Archiver interface {
	Archive(ctx context.Context, rec *model.MemoryRecord, path string) error
}

// Toolkit 四种编排方式共用的工具集合
type Toolkit struct {
	Search *tools.SearchTool
	Report *tools.ReportTool
	Memory *tools.MemoryTool
	Clock  tools.Clock

	// Notebook 开启后在 <dir>/<framework>_memory.json 中记住最近一次报告
	Notebook bool
	Archiver Archiver
	// OnTransition 状态变化回调，可为空
	OnTransition func(framework string, from, to State)
}

// Mode 只要有一个外部调用是在线的就记为 live
func (k *Toolkit) Mode() model.Mode {
	if k.Search.Live() || k.Report.Live() {
		return model.ModeLive
	}
	return model.ModeDemo
}

// Result 一次运行的结果。失败时 Record 为已完成步骤的部分数据，Path 为空
type Result struct {
	State       State
	Record      *model.MemoryRecord
	Path        string
	Transitions []State
	// Program 代码编排生成并执行的源码
	Program string
}

// run 单次运行的上下文，所有步骤都经由这里执行
type run struct {
	kit       *Toolkit
	framework string
	tracker   *Tracker
	rec       *model.MemoryRecord
	path      string
	failure   *PipelineError
	program   string
}

func (k *Toolkit) newRun(framework, topic string) *run {
	r := &run{
		kit:       k,
		framework: framework,
		tracker:   NewTracker(),
		rec: &model.MemoryRecord{
			RunID:     uuid.NewString(),
			Framework: framework,
			Mode:      k.Mode(),
			Topic:     topic,
			Timestamp: k.Clock.Now(),
		},
	}
	r.tracker.OnTransition = func(from, to State) {
		logger.Log.Debugf("[%s] 状态变化: %s -> %s", framework, from, to)
		if k.OnTransition != nil {
			k.OnTransition(framework, from, to)
		}
	}
	logger.Log.Infof("[%s] 开始研究话题 [%s] (run_id=%s, mode=%s)", framework, topic, r.rec.RunID, r.rec.Mode)
	return r
}

// step 推进状态并执行 fn，出错时转为 PipelineError 并进入 Failed
func (r *run) step(state State, name string, fn func() error) error {
	if r.failure != nil {
		return r.failure
	}
	if err := r.tracker.Advance(state); err != nil {
		return r.fail(name, err)
	}

	start := time.Now()
	err := fn()
	metrics.StepDuration.WithLabelValues(r.framework, name).Observe(time.Since(start).Seconds())
	if err != nil {
		return r.fail(name, err)
	}
	return nil
}

func (r *run) fail(name string, err error) error {
	if r.failure != nil {
		return r.failure
	}
	r.failure = &PipelineError{Framework: r.framework, Step: name, Err: err}
	if ferr := r.tracker.Fail(); ferr != nil {
		logger.Log.Warnf("[%s] %v", r.framework, ferr)
	}
	logger.Log.Errorf("[%s] 步骤 %s 失败: %v", r.framework, name, err)
	return r.failure
}

func (r *run) note(role, format string, args ...any) {
	r.rec.Steps = append(r.rec.Steps, role+": "+fmt.Sprintf(format, args...))
}

func (r *run) search(ctx context.Context, topic string) (*model.SearchResult, error) {
	var out *model.SearchResult
	err := r.step(Searching, tools.StepSearch, func() error {
		res, err := r.kit.Search.Search(ctx, topic)
		if err != nil {
			return err
		}
		out = res
		r.rec.SearchResult = res
		r.note("researcher", "collected %d results from %s", len(res.Items), res.Provider)
		return nil
	})
	return out, err
}

func (r *run) analyze(result *model.SearchResult) (*model.Analysis, error) {
	var out *model.Analysis
	err := r.step(Analyzing, tools.StepAnalyze, func() error {
		a, err := tools.Analyze(result)
		if err != nil {
			return err
		}
		out = a
		r.rec.Analysis = a
		r.note("analyst", "sentiment %s (score %.2f), %d words", a.SentimentLabel, a.SentimentScore, a.WordCount)
		return nil
	})
	return out, err
}

func (r *run) report(ctx context.Context, topic string, result *model.SearchResult, analysis *model.Analysis) (*model.Report, error) {
	var out *model.Report
	err := r.step(Reporting, tools.StepReport, func() error {
		rep, err := r.kit.Report.Generate(ctx, topic, result, analysis)
		if err != nil {
			return err
		}
		out = rep
		r.rec.Report = rep
		r.note("reporter", "wrote %q (%s)", rep.Title, rep.GeneratedBy)
		return nil
	})
	return out, err
}

// save 组装最终记录并落盘，记录只写一次
func (r *run) save(ctx context.Context, rep *model.Report) (string, error) {
	err := r.step(Saving, tools.StepSave, func() error {
		if rep == nil || r.rec.SearchResult == nil || r.rec.Analysis == nil {
			return &tools.InputError{Tool: tools.StepSave, Reason: "record is incomplete"}
		}
		r.rec.Report = rep
		path := r.kit.Memory.Path(r.framework, r.rec.Topic, r.rec.Timestamp)
		r.note("archivist", "saved to %s", path)
		if err := r.kit.Memory.Save(path, r.rec); err != nil {
			r.rec.Steps = r.rec.Steps[:len(r.rec.Steps)-1]
			return err
		}
		r.path = path
		return nil
	})
	if err != nil {
		return "", err
	}

	r.remember()
	r.archive(ctx)
	return r.path, nil
}

func (r *run) remember() {
	if !r.kit.Notebook {
		return
	}
	nb := &tools.Notebook{Path: tools.NotebookPath(r.kit.Memory.Dir, r.framework), Clock: r.kit.Clock}
	for key, value := range map[string]string{"last_report": r.path, "last_topic": r.rec.Topic} {
		if err := nb.Remember(key, value); err != nil {
			logger.Log.Warnf("[%s] 写入笔记失败 (%s): %v", r.framework, key, err)
		}
	}
}

func (r *run) archive(ctx context.Context) {
	if r.kit.Archiver == nil {
		return
	}
	if err := r.kit.Archiver.Archive(ctx, r.rec, r.path); err != nil {
		metrics.ArchiveErrors.Inc()
		logger.Log.Errorf("[%s] 归档失败: %v", r.framework, err)
	}
}

// finish 收尾：成功进入 Done，否则确保处于 Failed 并返回 PipelineError
func (r *run) finish(err error) (*Result, error) {
	if err == nil && r.failure == nil && r.tracker.State() == Saving && r.path != "" {
		if aerr := r.tracker.Advance(Done); aerr != nil {
			err = aerr
		}
	} else if err == nil && r.failure == nil {
		err = fmt.Errorf("run stopped in state %s", r.tracker.State())
	}

	if err != nil || r.failure != nil {
		if r.failure == nil {
			r.fail(stepFor(r.tracker.State()), err)
		}
		metrics.Runs.WithLabelValues(r.framework, Failed.String()).Inc()
		return r.result(), r.failure
	}

	metrics.Runs.WithLabelValues(r.framework, Done.String()).Inc()
	logger.Log.Infof("[%s] 研究完成: %s", r.framework, r.path)
	return r.result(), nil
}

func (r *run) result() *Result {
	return &Result{
		State:       r.tracker.State(),
		Record:      r.rec,
		Path:        r.path,
		Transitions: r.tracker.History(),
		Program:     r.program,
	}
}

// stepFor 返回状态对应的步骤名，用于编排层自身的错误
func stepFor(s State) string {
	switch s {
	case Searching:
		return tools.StepSearch
	case Analyzing:
		return tools.StepAnalyze
	case Reporting:
		return tools.StepReport
	case Saving:
		return tools.StepSave
	default:
		return "orchestrate"
	}
}
