// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
	RecordStoreOp(op string)
	RecordRecipeCreated()
	RecordCommentPosted()
	RecordLikeToggled()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
	storeOps        *prometheus.CounterVec
	recipesCreated  prometheus.Counter
	commentsPosted  prometheus.Counter
	likesToggled    prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "instachef_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "instachef_request_duration_seconds",
			Help:    "HTTPリクエスト処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		storeOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "instachef_store_ops_total",
			Help: "ストレージ操作の種類別の合計数",
		}, []string{"op"}),
		recipesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "instachef_recipes_created_total",
			Help: "作成されたレシピの合計数",
		}),
		commentsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "instachef_comments_posted_total",
			Help: "投稿されたコメントの合計数",
		}),
		likesToggled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "instachef_likes_toggled_total",
			Help: "いいねトグル操作の合計数",
		}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestDuration,
		c.storeOps,
		c.recipesCreated,
		c.commentsPosted,
		c.likesToggled,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はHTTPリクエストの処理時間を記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// RecordStoreOp はストレージ操作（read/write/remove）を記録する。
func (c *Collector) RecordStoreOp(op string) {
	c.storeOps.WithLabelValues(op).Inc()
}

// RecordRecipeCreated はレシピ作成を記録する。
func (c *Collector) RecordRecipeCreated() {
	c.recipesCreated.Inc()
}

// RecordCommentPosted はコメント投稿を記録する。
func (c *Collector) RecordCommentPosted() {
	c.commentsPosted.Inc()
}

// RecordLikeToggled はいいねトグル操作を記録する。
func (c *Collector) RecordLikeToggled() {
	c.likesToggled.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
