package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Skufu/GoRenal/internal/metrics"
)

type fakeDB struct {
	err error
}

func (f fakeDB) Ping(ctx context.Context) error {
	return f.err
}

func newTestRouter(db HealthChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Options{DB: db, Metrics: metrics.NewCollector("test")})
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRouterHealthz(t *testing.T) {
	w := do(newTestRouter(fakeDB{}), "GET", "/healthz", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if _, err := uuid.Parse(w.Header().Get("X-Request-ID")); err != nil {
		t.Fatalf("expected generated request id, got %q", w.Header().Get("X-Request-ID"))
	}
}

func TestRouterReadyz(t *testing.T) {
	t.Run("db disabled", func(t *testing.T) {
		w := do(newTestRouter(nil), "GET", "/readyz", "")
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "disabled") {
			t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("db unhealthy", func(t *testing.T) {
		w := do(newTestRouter(fakeDB{err: errors.New("connection refused")}), "GET", "/readyz", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "connection refused") {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestCalculate(t *testing.T) {
	router := newTestRouter(nil)
	w := do(router, "POST", "/api/renal/calculate", `{
		"age": 50,
		"weight": "80",
		"height": 175,
		"creatinine": "88.4",
		"sex": "M"
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		RequestID string `json:"requestId"`
		GFR       struct {
			CockcroftGault float64 `json:"cockcroftGault"`
			MDRD           float64 `json:"mdrd"`
			CKDEPI         float64 `json:"ckdEpi"`
		} `json:"gfr"`
		Results         []json.RawMessage `json:"results"`
		Recommendations []struct {
			Priority string `json:"priority"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.GFR.CockcroftGault != 100.1 || body.GFR.MDRD != 89.6 || body.GFR.CKDEPI != 99.0 {
		t.Fatalf("unexpected gfr: %+v", body.GFR)
	}
	if len(body.Results) != 3 {
		t.Fatalf("expected 3 formula results, got %d", len(body.Results))
	}
	if len(body.Recommendations) != 1 || body.Recommendations[0].Priority != "NORMAL" {
		t.Fatalf("unexpected recommendations: %+v", body.Recommendations)
	}
	if body.RequestID != w.Header().Get("X-Request-ID") {
		t.Fatalf("request id mismatch: %q vs %q", body.RequestID, w.Header().Get("X-Request-ID"))
	}
}

func TestCalculateValidation(t *testing.T) {
	router := newTestRouter(nil)
	w := do(router, "POST", "/api/renal/calculate", `{
		"age": "12",
		"weight": 70,
		"height": 170,
		"creatinine": null,
		"sex": ""
	}`)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for validation failure, got %d", w.Code)
	}

	var body validationFailedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "validation_failed" {
		t.Fatalf("unexpected error code %q", body.Error)
	}
	if len(body.Fields) != 3 || body.Fields["age"] == "" || body.Fields["creatinine"] == "" || body.Fields["sex"] == "" {
		t.Fatalf("unexpected fields: %+v", body.Fields)
	}
	if body.Metrics.BMI == nil || *body.Metrics.BMI != 24.2 {
		t.Fatalf("expected metrics despite validation failure, got %+v", body.Metrics)
	}
}

func TestCalculateRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(nil)
	for _, payload := range []string{`{"age": true}`, `{"age":`, `[]`} {
		w := do(router, "POST", "/api/renal/calculate", payload)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, w.Code)
		}
	}
}

func TestBodyMetrics(t *testing.T) {
	router := newTestRouter(nil)

	w := do(router, "POST", "/api/renal/body-metrics", `{"weight": 70, "height": "170"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"bmi":24.2`) || !strings.Contains(w.Body.String(), `"bsa":1.81`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	w = do(router, "POST", "/api/renal/body-metrics", `{"weight": 70}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"bmi":null`) {
		t.Fatalf("expected unavailable metrics, got %d %s", w.Code, w.Body.String())
	}
}

func TestStage(t *testing.T) {
	router := newTestRouter(nil)

	w := do(router, "GET", "/api/renal/stage?gfr=14.999", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"stage":5`) {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}

	for _, q := range []string{"", "abc", "NaN"} {
		w = do(router, "GET", "/api/renal/stage?gfr="+q, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("gfr=%q: expected 400, got %d", q, w.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(nil)
	do(router, "POST", "/api/renal/calculate", `{"age":"70","weight":"98","height":"175","creatinine":"110","sex":"F"}`)

	w := do(router, "GET", "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `test_renal_calculations_total{outcome="computed"} 1`) {
		t.Fatalf("missing calculation counter: %s", w.Body.String())
	}
}

// Ensure limitBodySize middleware allows small payloads and blocks large ones.
func TestLimitBodySize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limitBodySize(10))
	router.POST("/echo", func(c *gin.Context) {
		_, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	t.Run("within limit", func(t *testing.T) {
		w := do(router, "POST", "/echo", "12345")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		w := do(router, "POST", "/echo", "01234567890")
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", w.Code)
		}
	})
}

func TestCalculatePayloadTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(Options{Metrics: metrics.NewCollector("test"), MaxBodyBytes: 16})

	w := do(router, "POST", "/api/renal/calculate", `{"age":"50","weight":"80","height":"175"}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := newTestRouter(nil)
	id := uuid.NewString()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	req.Header.Set("X-Request-ID", id)
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestExtremeMeasurementsStillProduceBody(t *testing.T) {
	router := newTestRouter(nil)

	w := do(router, "POST", "/api/renal/body-metrics", `{"weight": "1e308", "height": 100}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"bmi":null`) || !strings.Contains(w.Body.String(), `"bsa":null`) {
		t.Fatalf("expected unavailable metrics, got %q", w.Body.String())
	}

	w = do(router, "POST", "/api/renal/calculate", `{"age":"50","weight":"1e308","height":"175","creatinine":"88.4","sex":"M"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}

	var body validationFailedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	if body.Fields["weight"] == "" || body.Metrics.BMI != nil || body.Metrics.BSA != nil {
		t.Fatalf("unexpected body: %+v", body)
	}
}
