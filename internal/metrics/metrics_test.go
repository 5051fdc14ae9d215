package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// counterValue は指定メトリクスのカウンタ値を取得する。
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

// TestRecordUploadAccepted_IncrementsCounters は受理カウンタとバイト数が増加することを検証する。
func TestRecordUploadAccepted_IncrementsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUploadAccepted("profile_image", 1024)
	c.RecordUploadAccepted("message_image", 2048)

	if got := counterValue(t, reg, "picboard_upload_accepted_total"); got != 2 {
		t.Errorf("upload_accepted_total = %v, want 2", got)
	}
	if got := counterValue(t, reg, "picboard_upload_bytes_total"); got != 3072 {
		t.Errorf("upload_bytes_total = %v, want 3072", got)
	}
}

// TestRecordUploadRejected_IncrementsCounter は拒否カウンタが増加することを検証する。
func TestRecordUploadRejected_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUploadRejected("profile_image", "UNSUPPORTED_MEDIA_TYPE")
	c.RecordUploadRejected("profile_image", "PAYLOAD_TOO_LARGE")

	if got := counterValue(t, reg, "picboard_upload_rejected_total"); got != 2 {
		t.Errorf("upload_rejected_total = %v, want 2", got)
	}
}

// TestRecordFileDeleted_IncrementsCounter は削除カウンタが増加することを検証する。
func TestRecordFileDeleted_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordFileDeleted()

	if got := counterValue(t, reg, "picboard_file_deleted_total"); got != 1 {
		t.Errorf("file_deleted_total = %v, want 1", got)
	}
}

// TestRecordOrphansSwept_AddsCount は孤児回収数が加算されることを検証する。
func TestRecordOrphansSwept_AddsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordOrphansSwept(3)
	c.RecordOrphansSwept(2)

	if got := counterValue(t, reg, "picboard_orphans_swept_total"); got != 5 {
		t.Errorf("orphans_swept_total = %v, want 5", got)
	}
}

// TestRecordHTTPStatus_IncrementsCounter はHTTPステータスカウンタが増加することを検証する。
func TestRecordHTTPStatus_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	if got := counterValue(t, reg, "picboard_http_status_total"); got != 3 {
		t.Errorf("http_status_total = %v, want 3", got)
	}
}

// TestRecordUploadLatency_ObservesHistogram はレイテンシヒストグラムに記録されることを検証する。
func TestRecordUploadLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUploadLatency(50 * time.Millisecond)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "picboard_upload_write_latency_seconds" {
			found = true
			if count := mf.GetMetric()[0].GetHistogram().GetSampleCount(); count != 1 {
				t.Errorf("sample count = %d, want 1", count)
			}
		}
	}
	if !found {
		t.Error("picboard_upload_write_latency_seconds metric not found")
	}
}
