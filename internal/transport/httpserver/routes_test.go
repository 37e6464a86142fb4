package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-tracker/internal/config"
	"weekly-tracker/internal/db"
	trackerdomain "weekly-tracker/internal/domain/tracker"
	sqliterepo "weekly-tracker/internal/repository/sqlite/tracker"
	"weekly-tracker/internal/transport/httpserver/handler"
	"weekly-tracker/internal/transport/httpserver/middleware"
	"weekly-tracker/pkg/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	sqlDB, err := db.NewSQLite(":memory:", logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	svc := trackerdomain.NewService(sqliterepo.NewSQLite(sqlDB))
	cfg := config.Config{CORSAllowedOrigins: []string{"http://localhost:5173"}}
	router := NewRouter(cfg, handler.New(svc, logger.Nop()), middleware.NewMetrics(), logger.Nop())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func call(t *testing.T, server *httptest.Server, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, payload
}

func decode[T any](t *testing.T, payload []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(payload, &out), string(payload))
	return out
}

type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	status, body := call(t, server, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestWeekLifecycle(t *testing.T) {
	server := newTestServer(t)

	status, body := call(t, server, http.MethodPost, "/api/weeks", `{"week_start_date":"2025-02-05"}`)
	require.Equal(t, http.StatusCreated, status, string(body))
	week := decode[trackerdomain.Week](t, body)
	assert.Equal(t, "2025-02-03", week.WeekStartDate.String())

	status, body = call(t, server, http.MethodPost, "/api/weeks", `{"week_start_date":"2025-02-03"}`)
	assert.Equal(t, http.StatusConflict, status)
	errBody := decode[errorResponse](t, body)
	assert.Equal(t, "duplicate_week", errBody.Code)
	assert.Equal(t, "Week with this start date already exists", errBody.Detail)

	status, body = call(t, server, http.MethodGet, "/api/weeks?date=2025-02-09", "")
	require.Equal(t, http.StatusOK, status)
	weeks := decode[[]trackerdomain.Week](t, body)
	require.Len(t, weeks, 1)
	assert.Equal(t, week.ID, weeks[0].ID)

	status, body = call(t, server, http.MethodGet, "/api/weeks?date=2030-01-01", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, _ = call(t, server, http.MethodGet, "/api/weeks/999", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, server, http.MethodDelete, "/api/weeks/"+itoa(week.ID), "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = call(t, server, http.MethodDelete, "/api/weeks/"+itoa(week.ID), "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGridFlow(t *testing.T) {
	server := newTestServer(t)

	_, body := call(t, server, http.MethodPost, "/api/weeks", `{"week_start_date":"2025-02-03"}`)
	week := decode[trackerdomain.Week](t, body)

	status, body := call(t, server, http.MethodPost, "/api/weeks/"+itoa(week.ID)+"/items", `{"name":"Read"}`)
	require.Equal(t, http.StatusCreated, status, string(body))
	item := decode[trackerdomain.GridItem](t, body)
	assert.Equal(t, 0, item.OrderIndex)
	require.Len(t, item.Checks, 7)
	assert.Nil(t, item.Checks[0].ID)

	status, body = call(t, server, http.MethodPut, "/api/daily-checks",
		`{"weekly_item_id":`+itoa(item.ID)+`,"date":"2025-02-05","status":2,"minutes":15,"note":"ok"}`)
	require.Equal(t, http.StatusOK, status, string(body))
	check := decode[trackerdomain.GridCheck](t, body)
	require.NotNil(t, check.ID)

	status, body = call(t, server, http.MethodPut, "/api/weekly-items/"+itoa(item.ID), `{"category":"study"}`)
	require.Equal(t, http.StatusOK, status, string(body))
	updated := decode[trackerdomain.GridItem](t, body)
	assert.Equal(t, "Read", updated.Name)
	require.NotNil(t, updated.Category)
	assert.Equal(t, "study", *updated.Category)
	assert.Equal(t, trackerdomain.StatusPartial, updated.Checks[2].Status)

	status, body = call(t, server, http.MethodGet, "/api/weeks/"+itoa(week.ID)+"/grid", "")
	require.Equal(t, http.StatusOK, status)
	grid := decode[trackerdomain.WeekGrid](t, body)
	require.Len(t, grid.Items, 1)
	cell := grid.Items[0].Checks[2]
	require.NotNil(t, cell.Minutes)
	assert.Equal(t, 15, *cell.Minutes)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Contains(t, raw, "week")
	assert.Contains(t, raw, "items")

	status, _ = call(t, server, http.MethodDelete, "/api/weekly-items/"+itoa(item.ID), "")
	assert.Equal(t, http.StatusNoContent, status)

	status, body = call(t, server, http.MethodGet, "/api/weeks/"+itoa(week.ID)+"/grid", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, mustField(t, body, "items"))
}

func TestNotFoundMutations(t *testing.T) {
	server := newTestServer(t)

	status, body := call(t, server, http.MethodPost, "/api/weeks/42/items", `{"name":"Read"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "week_not_found", decode[errorResponse](t, body).Code)

	status, body = call(t, server, http.MethodPut, "/api/weekly-items/42", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Weekly item not found", decode[errorResponse](t, body).Detail)

	status, _ = call(t, server, http.MethodPut, "/api/daily-checks", `{"weekly_item_id":42,"date":"2025-02-03","status":1}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, server, http.MethodGet, "/api/weeks/42/grid", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestValidation(t *testing.T) {
	server := newTestServer(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed json", http.MethodPost, "/api/weeks", `{`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/weeks", `{"start":"2025-02-03"}`, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/weeks", `{"week_start_date":"03/02/2025"}`, http.StatusUnprocessableEntity},
		{"bad query date", http.MethodGet, "/api/weeks?date=nope", "", http.StatusBadRequest},
		{"bad id", http.MethodGet, "/api/weeks/abc", "", http.StatusBadRequest},
		{"bad status", http.MethodPut, "/api/daily-checks", `{"weekly_item_id":1,"date":"2025-02-03","status":5}`, http.StatusUnprocessableEntity},
		{"missing item id", http.MethodPut, "/api/daily-checks", `{"date":"2025-02-03","status":1}`, http.StatusUnprocessableEntity},
		{"blank name", http.MethodPost, "/api/weeks/1/items", `{"name":"  "}`, http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := call(t, server, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, status, string(body))
			assert.NotEmpty(t, decode[errorResponse](t, body).Detail)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/weeks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	res, err := server.Client().Do(req)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "http://localhost:5173", res.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequest(http.MethodGet, server.URL+"/api/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example")
	res, err = server.Client().Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t)

	call(t, server, http.MethodGet, "/api/weeks/7", "")

	status, body := call(t, server, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, status)
	assert.True(t, bytes.Contains(body, []byte(`weekly_tracker_http_requests_total{method="GET",route="/api/weeks/{week_id}",status="404"} 1`)), string(body))
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func mustField(t *testing.T, body []byte, field string) string {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	return string(raw[field])
}
