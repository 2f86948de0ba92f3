package engine

import (
	"context"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/config"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/llm"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/logger"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/pipeline"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/search"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/search/factory"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/storage"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/tools"
)

// Engine 核心处理引擎：按配置组装工具，再交给指定的编排方式执行
type Engine struct {
	cfg *config.Config
	kit *pipeline.Toolkit
}

// NewEngine 创建引擎实例，store 可为 nil
func NewEngine(cfg *config.Config, store *storage.Storage) (*Engine, error) {
	ctx := context.Background()

	// 未配置凭据时模型与搜索都为 nil，工具层自动使用演示数据
	chatModel, err := llm.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	var searcher search.Searcher
	if cfg.Live() {
		// 搜索配置不完整不影响运行，搜索步骤退回演示数据
		if searcher, err = factory.NewSearcher(cfg); err != nil {
			logger.Log.Warnf("搜索客户端初始化失败，搜索使用演示数据: %v", err)
			searcher = nil
		}
	} else {
		logger.Log.Infof("未找到 %s，使用演示模式", cfg.LLM.APIKeyEnv)
	}

	kit := &pipeline.Toolkit{
		Search: tools.NewSearchTool(searcher, cfg.Search.MaxResults),
		Report: tools.NewReportTool(chatModel, llm.NewLimiter(cfg.Concurrency)),
		Memory: &tools.MemoryTool{
			Dir:         cfg.Output.Dir,
			TopicInName: cfg.Output.TopicInName,
			Timestamped: cfg.Output.Timestamped,
		},
		Clock:    tools.SystemClock,
		Notebook: cfg.Output.Notebook,
	}
	if store != nil {
		kit.Archiver = store
	}

	return &Engine{cfg: cfg, kit: kit}, nil
}

// NewWithToolkit 使用现成的工具集合，供测试和嵌入方使用
func NewWithToolkit(cfg *config.Config, kit *pipeline.Toolkit) *Engine {
	return &Engine{cfg: cfg, kit: kit}
}

// Mode 当前运行模式
func (e *Engine) Mode() string { return string(e.kit.Mode()) }

// OutputDir 记录文件所在目录
func (e *Engine) OutputDir() string { return e.kit.Memory.Dir }

// RunOptions 运行选项
type RunOptions struct {
	Framework        string
	Topic            string
	ProgressCallback func(status string, progress int)
}

var progressByState = map[pipeline.State]int{
	pipeline.Searching: 10,
	pipeline.Analyzing: 40,
	pipeline.Reporting: 60,
	pipeline.Saving:    90,
	pipeline.Done:      100,
}

// Run 执行一次研究任务，Topic 为空时使用配置中的话题
func (e *Engine) Run(ctx context.Context, opts RunOptions) (*pipeline.Result, error) {
	topic := opts.Topic
	if topic == "" {
		topic = e.cfg.Topic
	}

	kit := *e.kit
	if opts.ProgressCallback != nil {
		opts.ProgressCallback("starting", 0)
		kit.OnTransition = func(_ string, _, to pipeline.State) {
			opts.ProgressCallback(to.String(), progressByState[to])
		}
	}

	o, err := pipeline.New(opts.Framework, &kit)
	if err != nil {
		return nil, err
	}
	return o.Run(ctx, topic)
}
