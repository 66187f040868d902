package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
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

// TestRecordHTTPStatus_IncrementsLabeledCounter はステータスコード別カウンタが増加することを検証する。
func TestRecordHTTPStatus_IncrementsLabeledCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "instachef_http_status_total" {
			found = true
			if len(mf.GetMetric()) != 2 {
				t.Fatalf("expected 2 labeled metrics, got %d", len(mf.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("instachef_http_status_total metric not found")
	}
}

// TestRecordStoreOp_IncrementsOpCounter は操作種別ごとのカウンタが増加することを検証する。
func TestRecordStoreOp_IncrementsOpCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordStoreOp("read")
	c.RecordStoreOp("read")
	c.RecordStoreOp("write")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() != "instachef_store_ops_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "op" && l.GetValue() == "read" {
					if got := m.GetCounter().GetValue(); got != 2 {
						t.Errorf("store_ops_total{op=read} = %v, want 2", got)
					}
				}
			}
		}
		return
	}
	t.Error("instachef_store_ops_total metric not found")
}

// TestRecordRecipeCreated_IncrementsCounter はレシピ作成カウンタが増加することを検証する。
func TestRecordRecipeCreated_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRecipeCreated()
	c.RecordRecipeCreated()
	c.RecordCommentPosted()
	c.RecordLikeToggled()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "instachef_recipes_created_total" {
			found = true
			val := mf.GetMetric()[0].GetCounter().GetValue()
			if val != 2 {
				t.Errorf("recipes_created_total = %v, want 2", val)
			}
		}
	}
	if !found {
		t.Error("instachef_recipes_created_total metric not found")
	}
}

// TestRecordRequestDuration_ObservesHistogram はリクエスト時間のヒストグラムが記録されることを検証する。
func TestRecordRequestDuration_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequestDuration(100 * time.Millisecond)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "instachef_request_duration_seconds" {
			found = true
			if count := mf.GetMetric()[0].GetHistogram().GetSampleCount(); count != 1 {
				t.Errorf("sample count = %d, want 1", count)
			}
		}
	}
	if !found {
		t.Error("instachef_request_duration_seconds metric not found")
	}
}

// TestHandler_ServesMetrics はスクレイプハンドラーが登録済みメトリクスを返すことを検証する。
func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordHTTPStatus(200)

	handler := Handler(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	if !strings.Contains(bodyStr, "instachef_http_status_total") {
		t.Error("response should contain instachef_http_status_total metric")
	}
}

// TestHTTPMiddleware_RecordsStatusAndDuration はミドルウェアがステータスと処理時間を記録することを検証する。
func TestHTTPMiddleware_RecordsStatusAndDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	mw := NewHTTPMiddleware(c)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/recipes/999", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	foundStatus := false
	foundDuration := false
	for _, mf := range metrics {
		switch mf.GetName() {
		case "instachef_http_status_total":
			for _, m := range mf.GetMetric() {
				for _, l := range m.GetLabel() {
					if l.GetName() == "status_code" && l.GetValue() == "404" {
						foundStatus = true
					}
				}
			}
		case "instachef_request_duration_seconds":
			if mf.GetMetric()[0].GetHistogram().GetSampleCount() == 1 {
				foundDuration = true
			}
		}
	}

	if !foundStatus {
		t.Error("expected http_status_total{status_code=404} to be recorded")
	}
	if !foundDuration {
		t.Error("expected request duration to be observed")
	}
}
