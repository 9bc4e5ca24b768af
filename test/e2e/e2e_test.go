// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-collector/internal/common/config"
	"survey-collector/internal/common/database"
	"survey-collector/internal/common/logger"
	"survey-collector/internal/common/webhook"
	"survey-collector/internal/submission"
)

// receivedRow is one sink-side row as the spreadsheet endpoint sees it.
type receivedRow struct {
	headers http.Header
	body    map[string]string
}

// fakeSheetSink stands in for the Apps Script endpoint: it records
// every accepted row and can be told to start failing mid-batch.
type fakeSheetSink struct {
	mu        sync.Mutex
	rows      []receivedRow
	failAfter int // -1: never fail; n: reject request n and later
	server    *httptest.Server
}

func newFakeSheetSink(t *testing.T) *fakeSheetSink {
	t.Helper()
	sink := &fakeSheetSink{failAfter: -1}
	sink.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sink.mu.Lock()
		defer sink.mu.Unlock()

		if sink.failAfter >= 0 && len(sink.rows) >= sink.failAfter {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		sink.rows = append(sink.rows, receivedRow{headers: r.Header.Clone(), body: body})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(sink.server.Close)
	return sink
}

func (s *fakeSheetSink) received() []receivedRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]receivedRow(nil), s.rows...)
}

// newTestService wires the full pipeline the way cmd/server does:
// real webhook client over HTTP, real handler, optional redis guard.
func newTestService(t *testing.T, sinkURL string, withDedupe bool) http.Handler {
	t.Helper()

	cfg := submission.DefaultConfig()
	cfg.WebhookURL = sinkURL
	cfg.Timeout = 10 * time.Second

	opts := submission.HandlerOptions{
		CustomConfig: cfg,
		Logger:       logger.NewTestLogger(t),
		Sink:         webhook.NewClient(cfg.Timeout),
	}

	if withDedupe {
		mr := miniredis.RunT(t)
		redisClient, err := database.NewRedis(config.RedisConfig{Address: mr.Addr()})
		require.NoError(t, err)
		t.Cleanup(func() { _ = redisClient.Close() })
		opts.Dedupe = submission.NewDeduper(redisClient, 10*time.Minute, logger.NewTestLogger(t))
	}

	handler, err := submission.NewHandler(opts)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("/api/submit", handler)
	return mux
}

func postJSON(t *testing.T, service http.Handler, payload interface{}) (*httptest.ResponseRecorder, submission.Response) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	service.ServeHTTP(recorder, req)

	var resp submission.Response
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	return recorder, resp
}

func sampleSubmission() map[string]interface{} {
	return map[string]interface{}{
		"name": "علی رضایی",
		"businesses": []interface{}{
			map[string]interface{}{
				"business_name":           "سوپرمارکت رضایی",
				"business_category":       "خرده‌فروشی و عمده‌فروشی",
				"business_link":           []interface{}{"https://instagram.com/rezaei", "https://t.me/rezaei"},
				"business_number":         "09123456789",
				"business_address":        "تهران، خیابان ولیعصر",
				"business_owner_name":     "علی رضایی",
				"business_owner_relation": "خودم",
			},
			map[string]interface{}{
				"business_name":       "کافه نمونه",
				"business_number":     "09351234567",
				"business_address":    "اصفهان",
				"business_owner_name": "مریم احمدی",
			},
		},
	}
}

func TestSubmissionPipeline_EndToEnd(t *testing.T) {
	sink := newFakeSheetSink(t)
	service := newTestService(t, sink.server.URL, false)

	recorder, resp := postJSON(t, service, sampleSubmission())

	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, resp.Success)

	rows := sink.received()
	require.Len(t, rows, 2)

	first := rows[0].body
	assert.Equal(t, "علی رضایی", first["name"])
	assert.Equal(t, "سوپرمارکت رضایی", first["business_name"])
	assert.Equal(t, "+989123456789", first["business_number"])
	assert.Equal(t, "https://instagram.com/rezaei, https://t.me/rezaei", first["business_link"])
	assert.Equal(t, "خودم", first["business_owner_relation"])

	second := rows[1].body
	assert.Equal(t, "علی رضایی", second["name"])
	assert.Equal(t, "کافه نمونه", second["business_name"])
	assert.Equal(t, "+989351234567", second["business_number"])
	assert.Equal(t, "", second["business_category"])
	assert.Equal(t, "", second["business_link"])

	// both rows of the batch carry the same timestamp
	assert.NotEmpty(t, first["date_and_time"])
	assert.Equal(t, first["date_and_time"], second["date_and_time"])

	// each outbound row is individually keyed
	assert.NotEmpty(t, rows[0].headers.Get("X-Idempotency-Key"))
	assert.NotEqual(t,
		rows[0].headers.Get("X-Idempotency-Key"),
		rows[1].headers.Get("X-Idempotency-Key"))
}

func TestSubmissionPipeline_MidBatchSinkFailure(t *testing.T) {
	sink := newFakeSheetSink(t)
	sink.failAfter = 1 // first row accepted, everything after rejected
	service := newTestService(t, sink.server.URL, false)

	recorder, resp := postJSON(t, service, sampleSubmission())

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.False(t, resp.Success)

	// the delivered row stays delivered, nothing after the fault is sent
	rows := sink.received()
	require.Len(t, rows, 1)
	assert.Equal(t, "سوپرمارکت رضایی", rows[0].body["business_name"])
}

func TestSubmissionPipeline_ValidationStopsEverything(t *testing.T) {
	sink := newFakeSheetSink(t)
	service := newTestService(t, sink.server.URL, false)

	input := sampleSubmission()
	input["businesses"].([]interface{})[1].(map[string]interface{})["business_number"] = "12345"

	recorder, resp := postJSON(t, service, input)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Errors["businesses[1].business_number"])
	assert.Empty(t, sink.received(), "an invalid batch must not reach the sink at all")
}

func TestSubmissionPipeline_DuplicateGuard(t *testing.T) {
	sink := newFakeSheetSink(t)
	service := newTestService(t, sink.server.URL, true)

	recorder, _ := postJSON(t, service, sampleSubmission())
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Len(t, sink.received(), 2)

	recorder, resp := postJSON(t, service, sampleSubmission())
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.False(t, resp.Success)
	assert.Len(t, sink.received(), 2, "the duplicate must not be forwarded")

	// a different submission still goes through
	changed := sampleSubmission()
	changed["name"] = "مریم احمدی"
	recorder, _ = postJSON(t, service, changed)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, sink.received(), 4)
}

func TestSubmissionPipeline_NoSinkConfigured(t *testing.T) {
	sink := newFakeSheetSink(t)
	service := newTestService(t, "", false)

	recorder, resp := postJSON(t, service, sampleSubmission())

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "Webhook URL not set", resp.Message)
	assert.Empty(t, sink.received())
}
