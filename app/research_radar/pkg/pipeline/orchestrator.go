package pipeline

import (
	"context"
	"fmt"
	"strings"
)

// 编排方式
const (
	FrameworkChain = "chain"
	FrameworkGraph = "graph"
	FrameworkCrew  = "crew"
	FrameworkCode  = "code"
)

// Frameworks 全部编排方式，按固定顺序
var Frameworks = []string{FrameworkChain, FrameworkGraph, FrameworkCrew, FrameworkCode}

// Orchestrator 以某种编排方式执行 search -> analyze -> report -> save
type Orchestrator interface {
	Framework() string
	Run(ctx context.Context, topic string) (*Result, error)
}

// New 按名称创建编排器
func New(framework string, kit *Toolkit) (Orchestrator, error) {
	if kit == nil || kit.Search == nil || kit.Report == nil || kit.Memory == nil {
		return nil, fmt.Errorf("toolkit is incomplete")
	}
	switch strings.ToLower(strings.TrimSpace(framework)) {
	case FrameworkChain:
		return NewChain(kit), nil
	case FrameworkGraph:
		return NewGraph(kit), nil
	case FrameworkCrew:
		return NewCrew(kit), nil
	case FrameworkCode:
		return NewCode(kit), nil
	default:
		return nil, fmt.Errorf("unsupported framework: %s", framework)
	}
}
