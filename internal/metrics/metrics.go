// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hitoshi/automarketer/internal/model"
)

// MetricsCollector はメトリクス収集のインターフェース。
// 生成ワークフロー、配信アダプタ、HTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordGeneration(channel string, fallback bool)
	RecordGenerationLatency(duration time.Duration)
	RecordDraftPersistFailure()
	RecordDistribution(target string, statusCode int)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	generation        *prometheus.CounterVec
	generationLatency prometheus.Histogram
	draftPersistFail  prometheus.Counter
	distribution      *prometheus.CounterVec
	httpStatus        *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		generation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "automarketer_generation_total",
			Help: "チャネル・結果別の文面生成数",
		}, []string{"channel", "outcome"}),
		generationLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "automarketer_generation_latency_seconds",
			Help:    "生成プロバイダー呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		draftPersistFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "automarketer_draft_persist_fail_total",
			Help: "ドラフト保存失敗の合計数",
		}),
		distribution: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "automarketer_distribution_total",
			Help: "配信先・ステータスコード別の外部API呼び出し数",
		}, []string{"target", "status_code"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "automarketer_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.generation,
		c.generationLatency,
		c.draftPersistFail,
		c.distribution,
		c.httpStatus,
	)

	return c
}

// RecordGeneration は文面生成の結果を記録する。
// 未知のチャネルはラベルの種類が増えないよう "other" にまとめる。
func (c *Collector) RecordGeneration(channel string, fallback bool) {
	label := "other"
	if ch, ok := model.ParseChannel(channel); ok {
		label = string(ch)
	}
	outcome := "success"
	if fallback {
		outcome = "fallback"
	}
	c.generation.WithLabelValues(label, outcome).Inc()
}

// RecordGenerationLatency は生成プロバイダー呼び出しのレイテンシを記録する。
func (c *Collector) RecordGenerationLatency(duration time.Duration) {
	c.generationLatency.Observe(duration.Seconds())
}

// RecordDraftPersistFailure はドラフト保存の失敗を記録する。
func (c *Collector) RecordDraftPersistFailure() {
	c.draftPersistFail.Inc()
}

// RecordDistribution は配信APIの呼び出し結果を記録する。
// 通信エラーなどレスポンスがない場合はstatusCodeに0を渡す。
func (c *Collector) RecordDistribution(target string, statusCode int) {
	c.distribution.WithLabelValues(target, strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// NopCollector は何も記録しないMetricsCollector。
type NopCollector struct{}

func (NopCollector) RecordGeneration(string, bool)         {}
func (NopCollector) RecordGenerationLatency(time.Duration) {}
func (NopCollector) RecordDraftPersistFailure()            {}
func (NopCollector) RecordDistribution(string, int)        {}
func (NopCollector) RecordHTTPStatus(int)                  {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = NopCollector{}
)
