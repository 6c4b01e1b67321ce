package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestUploadCounter(t *testing.T) {
	m := New()
	m.Upload(OutcomeSuccess)
	m.Upload(OutcomeSuccess)
	m.Upload(OutcomeConversionFailed)

	if got := testutil.ToFloat64(m.uploads.WithLabelValues(OutcomeSuccess)); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.uploads.WithLabelValues(OutcomeConversionFailed)); got != 1 {
		t.Fatalf("expected 1 conversion failure, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.Upload(OutcomeUnintelligible)
	m.ObserveStage(StageConvert, time.Now().Add(-time.Second))
	m.Score(95.24)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`pronounce_uploads_total{outcome="unintelligible"} 1`,
		`pronounce_stage_duration_seconds_count{stage="convert"} 1`,
		`pronounce_similarity_score_count 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}
