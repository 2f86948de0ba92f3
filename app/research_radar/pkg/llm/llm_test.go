package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/config"
)

type stubModel struct {
	content string
	err     error
}

func (m *stubModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.content, nil), nil
}

func (m *stubModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestNewChatModelWithoutKey(t *testing.T) {
	cm, err := NewChatModel(context.Background(), config.LLMConfig{Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Nil(t, cm)
}

func TestNewChatModelWithKey(t *testing.T) {
	cm, err := NewChatModel(context.Background(), config.LLMConfig{
		APIKey:      "sk-test",
		BaseURL:     "http://127.0.0.1:1/v1",
		Model:       "gpt-4o-mini",
		Temperature: 0.2,
		Timeout:     1,
	})
	require.NoError(t, err)
	assert.NotNil(t, cm)
}

func TestNewLimiter(t *testing.T) {
	l := NewLimiter(config.ConcurrencyConfig{QPS: 2, RPM: 120})
	assert.Equal(t, rate.Limit(2), l.Limit())
	assert.Equal(t, 2, l.Burst())

	l = NewLimiter(config.ConcurrencyConfig{})
	assert.Equal(t, rate.Limit(1), l.Limit())
	assert.Equal(t, 1, l.Burst())
}

func TestComplete(t *testing.T) {
	ctx := context.Background()

	got, err := Complete(ctx, &stubModel{content: "```markdown\n# Title\nbody\n```"}, nil, "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "# Title\nbody", got)

	_, err = Complete(ctx, &stubModel{content: "``` ```"}, nil, "sys", "user")
	assert.Error(t, err)

	_, err = Complete(ctx, &stubModel{err: errors.New("boom")}, nil, "sys", "user")
	assert.EqualError(t, err, "boom")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	limiter := rate.NewLimiter(rate.Limit(0.001), 1)
	limiter.Allow()
	_, err = Complete(cancelled, &stubModel{content: "x"}, limiter, "sys", "user")
	assert.Error(t, err)
}
