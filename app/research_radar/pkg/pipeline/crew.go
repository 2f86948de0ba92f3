package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/logger"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
)

// Agent 具有角色、目标、背景和工具的执行者
type Agent struct {
	Role      string
	Goal      string
	Backstory string
	Tools     []tool.InvokableTool
}

// Task 交给某个 Agent 的工作，Arguments 依据前序任务的输出构造工具参数
type Task struct {
	Name           string
	Description    string
	ExpectedOutput string
	Agent          *Agent
	Tool           string
	Arguments      func(outputs map[string]string) (any, error)
}

// Execute 调用 Agent 名下的指定工具
func (a *Agent) Execute(ctx context.Context, task *Task, args string) (string, error) {
	for _, t := range a.Tools {
		info, err := t.Info(ctx)
		if err != nil {
			return "", err
		}
		if info.Name != task.Tool {
			continue
		}
		logger.Log.Debugf("[crew] %s 执行任务 %s: %s", a.Role, task.Name, task.Description)
		return t.InvokableRun(ctx, args)
	}
	return "", fmt.Errorf("agent %s has no tool %s", a.Role, task.Tool)
}

// Crew 顺序执行任务，每个任务的输出按任务名保存供后续任务使用
type Crew struct {
	Agents []*Agent
	Tasks  []*Task
}

// Kickoff 依次执行全部任务，返回各任务输出
func (c *Crew) Kickoff(ctx context.Context, inputs map[string]string) (map[string]string, error) {
	outputs := make(map[string]string, len(inputs)+len(c.Tasks))
	for k, v := range inputs {
		outputs[k] = v
	}
	for _, task := range c.Tasks {
		args, err := task.Arguments(outputs)
		if err != nil {
			return outputs, fmt.Errorf("task %s: build arguments: %w", task.Name, err)
		}
		raw, err := json.Marshal(args)
		if err != nil {
			return outputs, fmt.Errorf("task %s: encode arguments: %w", task.Name, err)
		}
		out, err := task.Agent.Execute(ctx, task, string(raw))
		if err != nil {
			return outputs, fmt.Errorf("task %s: %w", task.Name, err)
		}
		outputs[task.Name] = out
	}
	return outputs, nil
}

// 工具参数与返回值
type (
	searchArgs struct {
		Topic string `json:"topic"`
	}
	analyzeArgs struct {
		SearchResult *model.SearchResult `json:"search_result"`
	}
	reportArgs struct {
		Topic        string              `json:"topic"`
		SearchResult *model.SearchResult `json:"search_result"`
		Analysis     *model.Analysis     `json:"analysis"`
	}
	saveArgs struct {
		Report *model.Report `json:"report"`
	}
	saveOutput struct {
		Path string `json:"path"`
	}
)

// 工具名
const (
	toolWebSearch   = "web_search"
	toolAnalyze     = "data_analysis"
	toolWriteReport = "write_report"
	toolSaveReport  = "save_report"
)

// CrewOrchestrator 角色 + 任务的编排方式
type CrewOrchestrator struct {
	kit *Toolkit
}

func NewCrew(kit *Toolkit) *CrewOrchestrator { return &CrewOrchestrator{kit: kit} }

func (c *CrewOrchestrator) Framework() string { return FrameworkCrew }

func (c *CrewOrchestrator) Run(ctx context.Context, topic string) (*Result, error) {
	r := c.kit.newRun(FrameworkCrew, topic)

	crew, err := buildCrew(r)
	if err != nil {
		return r.finish(err)
	}
	_, err = crew.Kickoff(ctx, map[string]string{"topic": topic})
	return r.finish(err)
}

func buildCrew(r *run) (*Crew, error) {
	webSearch, err := utils.InferTool(toolWebSearch, "Search the web for a research topic",
		func(ctx context.Context, in *searchArgs) (*model.SearchResult, error) {
			return r.search(ctx, in.Topic)
		})
	if err != nil {
		return nil, err
	}
	analyze, err := utils.InferTool(toolAnalyze, "Keyword sentiment and statistics over search results",
		func(ctx context.Context, in *analyzeArgs) (*model.Analysis, error) {
			return r.analyze(in.SearchResult)
		})
	if err != nil {
		return nil, err
	}
	writeReport, err := utils.InferTool(toolWriteReport, "Write a research report from findings and analysis",
		func(ctx context.Context, in *reportArgs) (*model.Report, error) {
			return r.report(ctx, in.Topic, in.SearchResult, in.Analysis)
		})
	if err != nil {
		return nil, err
	}
	saveReport, err := utils.InferTool(toolSaveReport, "Persist the research record as JSON",
		func(ctx context.Context, in *saveArgs) (*saveOutput, error) {
			path, err := r.save(ctx, in.Report)
			if err != nil {
				return nil, err
			}
			return &saveOutput{Path: path}, nil
		})
	if err != nil {
		return nil, err
	}

	researcher := &Agent{
		Role:      "Senior Researcher",
		Goal:      "Find the most relevant information on the topic",
		Backstory: "Experienced at locating sources and separating signal from noise.",
		Tools:     []tool.InvokableTool{webSearch},
	}
	analyst := &Agent{
		Role:      "Data Analyst",
		Goal:      "Quantify the tone and themes of the findings",
		Backstory: "Counts what others only describe.",
		Tools:     []tool.InvokableTool{analyze},
	}
	writer := &Agent{
		Role:      "Report Writer",
		Goal:      "Turn findings and figures into a readable report",
		Backstory: "Writes short structured reports for busy readers.",
		Tools:     []tool.InvokableTool{writeReport},
	}
	archivist := &Agent{
		Role:      "Archivist",
		Goal:      "Keep a durable record of every finished study",
		Backstory: "Never loses a file.",
		Tools:     []tool.InvokableTool{saveReport},
	}

	tasks := []*Task{
		{
			Name:           "research",
			Description:    "Research the topic",
			ExpectedOutput: "Search results as JSON",
			Agent:          researcher,
			Tool:           toolWebSearch,
			Arguments: func(out map[string]string) (any, error) {
				return &searchArgs{Topic: out["topic"]}, nil
			},
		},
		{
			Name:           "analysis",
			Description:    "Analyse the research results",
			ExpectedOutput: "Sentiment and statistics as JSON",
			Agent:          analyst,
			Tool:           toolAnalyze,
			Arguments: func(out map[string]string) (any, error) {
				var found model.SearchResult
				if err := json.Unmarshal([]byte(out["research"]), &found); err != nil {
					return nil, err
				}
				return &analyzeArgs{SearchResult: &found}, nil
			},
		},
		{
			Name:           "writing",
			Description:    "Write the report",
			ExpectedOutput: "A report with title and text",
			Agent:          writer,
			Tool:           toolWriteReport,
			Arguments: func(out map[string]string) (any, error) {
				args := &reportArgs{Topic: out["topic"]}
				if err := json.Unmarshal([]byte(out["research"]), &args.SearchResult); err != nil {
					return nil, err
				}
				if err := json.Unmarshal([]byte(out["analysis"]), &args.Analysis); err != nil {
					return nil, err
				}
				return args, nil
			},
		},
		{
			Name:           "archiving",
			Description:    "Save the finished record",
			ExpectedOutput: "Path of the saved file",
			Agent:          archivist,
			Tool:           toolSaveReport,
			Arguments: func(out map[string]string) (any, error) {
				args := &saveArgs{}
				if err := json.Unmarshal([]byte(out["writing"]), &args.Report); err != nil {
					return nil, err
				}
				return args, nil
			},
		},
	}

	return &Crew{
		Agents: []*Agent{researcher, analyst, writer, archivist},
		Tasks:  tasks,
	}, nil
}
