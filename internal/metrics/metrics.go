// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// media.MetricsRecorder・message.MetricsRecorderおよび掃除ワーカーから利用される。
type Collector struct {
	uploadAccepted *prometheus.CounterVec
	uploadRejected *prometheus.CounterVec
	uploadBytes    prometheus.Counter
	uploadLatency  prometheus.Histogram
	fileDeleted    prometheus.Counter
	orphansSwept   prometheus.Counter
	httpStatus     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		uploadAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "picboard_upload_accepted_total",
			Help: "受理されたアップロードの合計数（種別ごと）",
		}, []string{"kind"}),
		uploadRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "picboard_upload_rejected_total",
			Help: "検証で拒否されたアップロードの合計数（種別・理由ごと）",
		}, []string{"kind", "code"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "picboard_upload_bytes_total",
			Help: "受理されたアップロードの合計バイト数",
		}),
		uploadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "picboard_upload_write_latency_seconds",
			Help:    "ファイル保存領域への書き込みレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		fileDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "picboard_file_deleted_total",
			Help: "差し替えにより削除された旧ファイルの合計数",
		}),
		orphansSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "picboard_orphans_swept_total",
			Help: "掃除ワーカーが回収した孤児ファイルの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "picboard_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.uploadAccepted,
		c.uploadRejected,
		c.uploadBytes,
		c.uploadLatency,
		c.fileDeleted,
		c.orphansSwept,
		c.httpStatus,
	)

	return c
}

// RecordUploadAccepted は受理されたアップロードを記録する。
func (c *Collector) RecordUploadAccepted(kind string, size int64) {
	c.uploadAccepted.WithLabelValues(kind).Inc()
	c.uploadBytes.Add(float64(size))
}

// RecordUploadRejected は検証で拒否されたアップロードを記録する。
func (c *Collector) RecordUploadRejected(kind string, code string) {
	c.uploadRejected.WithLabelValues(kind, code).Inc()
}

// RecordUploadLatency は保存領域への書き込みレイテンシを記録する。
func (c *Collector) RecordUploadLatency(duration time.Duration) {
	c.uploadLatency.Observe(duration.Seconds())
}

// RecordFileDeleted は差し替えによる旧ファイル削除を記録する。
func (c *Collector) RecordFileDeleted() {
	c.fileDeleted.Inc()
}

// RecordOrphansSwept は掃除ワーカーが回収した孤児ファイル数を記録する。
func (c *Collector) RecordOrphansSwept(count int) {
	c.orphansSwept.Add(float64(count))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントをアプリケーションのハンドラーに統合して返す。
// appがnilの場合は/metrics以外は404になる。
func SetupMetricsRoute(gatherer prometheus.Gatherer, app http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	if app != nil {
		mux.Handle("/", app)
	}
	return mux
}
