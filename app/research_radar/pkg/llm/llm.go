package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/config"
)

// NewChatModel 初始化 LLM。未配置凭据时返回 nil，调用方进入演示模式
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (model.BaseChatModel, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	mc := &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	}
	if cfg.Temperature > 0 {
		t := cfg.Temperature
		mc.Temperature = &t
	}
	if cfg.Timeout > 0 {
		mc.Timeout = time.Duration(cfg.Timeout) * time.Second
	}

	cm, err := openai.NewChatModel(ctx, mc)
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return cm, nil
}

// NewLimiter Limit 设置为 RPM/60，Burst 设置为 QPS
func NewLimiter(cfg config.ConcurrencyConfig) *rate.Limiter {
	rpm, qps := cfg.RPM, cfg.QPS
	if rpm <= 0 {
		rpm = 60
	}
	if qps <= 0 {
		qps = 1
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), qps)
}

// Complete 限流后发送 system + user 两条消息，返回去掉首尾空白的文本
func Complete(ctx context.Context, cm model.BaseChatModel, limiter *rate.Limiter, system, user string) (string, error) {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("limiter wait error: %w", err)
		}
	}

	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}

	resp, err := cm.Generate(ctx, messages)
	if err != nil {
		return "", err
	}

	content := strings.TrimSpace(resp.Content)
	// 清理可能的 markdown 代码块标记
	content = strings.TrimPrefix(content, "```markdown")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	if content == "" {
		return "", fmt.Errorf("empty completion")
	}
	return content, nil
}
