package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API 指标
var (
	// APIRequestsTotal API 请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragapi_api_requests_total",
			Help: "API 请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration API 请求延迟（秒）
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ragapi_api_request_duration_seconds",
			Help:    "API 请求延迟分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// 索引与检索指标
var (
	// IndexBuildsTotal 索引构建总数
	IndexBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragapi_index_builds_total",
			Help: "索引构建总数",
		},
		[]string{"status"},
	)

	// IndexBuildDuration 索引构建耗时（秒）
	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ragapi_index_build_duration_seconds",
			Help:    "索引构建耗时分布",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
	)

	// QueriesTotal 问答查询总数
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ragapi_queries_total",
			Help: "问答查询总数",
		},
		[]string{"status"},
	)
)

// ObserveIndexBuild 记录一次索引构建
func ObserveIndexBuild(status string, duration time.Duration) {
	IndexBuildsTotal.WithLabelValues(status).Inc()
	IndexBuildDuration.Observe(duration.Seconds())
}

// ObserveQuery 记录一次问答查询
func ObserveQuery(status string) {
	QueriesTotal.WithLabelValues(status).Inc()
}
