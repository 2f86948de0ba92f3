package tools

import (
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/logger"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/metrics"
)

// 降级原因
const (
	reasonNoCredentials = "no_credentials"
	reasonError         = "error"
	reasonEmpty         = "empty"
)

// degrade 记录一次降级：只写日志和计数，不向调用方抛错
func degrade(step, reason string, err error) {
	metrics.Fallbacks.WithLabelValues(step, reason).Inc()
	if err != nil {
		logger.Log.Warnf("[%s] 外部调用失败，使用演示数据: %v", step, err)
		return
	}
	logger.Log.Infof("[%s] 演示模式 (%s)，使用演示数据", step, reason)
}
