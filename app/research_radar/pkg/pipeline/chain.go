package pipeline

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/model"
)

// Chain 线性链：每个节点的输出就是下一个节点的输入
type Chain struct {
	kit *Toolkit
}

func NewChain(kit *Toolkit) *Chain { return &Chain{kit: kit} }

func (c *Chain) Framework() string { return FrameworkChain }

func (c *Chain) Run(ctx context.Context, topic string) (*Result, error) {
	r := c.kit.newRun(FrameworkChain, topic)

	chain := compose.NewChain[string, string]()
	chain.
		AppendLambda(compose.InvokableLambda(func(ctx context.Context, topic string) (*model.SearchResult, error) {
			return r.search(ctx, topic)
		}), compose.WithNodeName("search")).
		AppendLambda(compose.InvokableLambda(func(ctx context.Context, found *model.SearchResult) (*model.Analysis, error) {
			return r.analyze(found)
		}), compose.WithNodeName("analyze")).
		AppendLambda(compose.InvokableLambda(func(ctx context.Context, analysis *model.Analysis) (*model.Report, error) {
			return r.report(ctx, topic, r.rec.SearchResult, analysis)
		}), compose.WithNodeName("report")).
		AppendLambda(compose.InvokableLambda(func(ctx context.Context, rep *model.Report) (string, error) {
			return r.save(ctx, rep)
		}), compose.WithNodeName("save"))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return r.finish(fmt.Errorf("compile chain: %w", err))
	}
	_, err = runnable.Invoke(ctx, topic)
	return r.finish(err)
}
