package pipeline

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
)

// 图节点
const (
	nodeResearcher = "researcher"
	nodeAnalyst    = "analyst"
	nodeReporter   = "reporter"
	nodeArchivist  = "archivist"
)

// researchState 在图节点之间流转的共享状态
type researchState struct {
	Topic    string
	Found    *model.SearchResult
	Analysis *model.Analysis
	Report   *model.Report
	Path     string
}

// Graph 有向图：researcher -> analyst -> reporter -> archivist
type Graph struct {
	kit *Toolkit
}

func NewGraph(kit *Toolkit) *Graph { return &Graph{kit: kit} }

func (g *Graph) Framework() string { return FrameworkGraph }

func (g *Graph) Run(ctx context.Context, topic string) (*Result, error) {
	r := g.kit.newRun(FrameworkGraph, topic)

	runnable, err := g.build(ctx, r)
	if err != nil {
		return r.finish(err)
	}
	_, err = runnable.Invoke(ctx, &researchState{Topic: topic})
	return r.finish(err)
}

func (g *Graph) build(ctx context.Context, r *run) (compose.Runnable[*researchState, *researchState], error) {
	graph := compose.NewGraph[*researchState, *researchState]()

	nodes := []struct {
		name string
		fn   func(ctx context.Context, s *researchState) (*researchState, error)
	}{
		{nodeResearcher, func(ctx context.Context, s *researchState) (*researchState, error) {
			found, err := r.search(ctx, s.Topic)
			s.Found = found
			return s, err
		}},
		{nodeAnalyst, func(ctx context.Context, s *researchState) (*researchState, error) {
			analysis, err := r.analyze(s.Found)
			s.Analysis = analysis
			return s, err
		}},
		{nodeReporter, func(ctx context.Context, s *researchState) (*researchState, error) {
			rep, err := r.report(ctx, s.Topic, s.Found, s.Analysis)
			s.Report = rep
			return s, err
		}},
		{nodeArchivist, func(ctx context.Context, s *researchState) (*researchState, error) {
			path, err := r.save(ctx, s.Report)
			s.Path = path
			return s, err
		}},
	}

	prev := compose.START
	for _, n := range nodes {
		if err := graph.AddLambdaNode(n.name, compose.InvokableLambda(n.fn)); err != nil {
			return nil, fmt.Errorf("add node %s: %w", n.name, err)
		}
		if err := graph.AddEdge(prev, n.name); err != nil {
			return nil, fmt.Errorf("add edge %s -> %s: %w", prev, n.name, err)
		}
		prev = n.name
	}
	if err := graph.AddEdge(prev, compose.END); err != nil {
		return nil, fmt.Errorf("add edge %s -> end: %w", prev, err)
	}

	return graph.Compile(ctx, compose.WithGraphName("research"))
}
