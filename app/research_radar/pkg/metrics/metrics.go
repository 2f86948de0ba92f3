package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "research_radar"

var (
	// Runs 流水线运行次数，按编排方式与终态统计
	Runs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by framework and final state",
		},
		[]string{"framework", "state"},
	)

	// StepDuration 各步骤耗时
	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Pipeline step duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"framework", "step"},
	)

	// Fallbacks 演示数据替换次数
	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Number of times a step substituted deterministic demo data",
		},
		[]string{"step", "reason"},
	)

	// ArchiveErrors Postgres 归档失败次数
	ArchiveErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_errors_total",
			Help:      "Number of failed MemoryRecord archive writes",
		},
	)
)
