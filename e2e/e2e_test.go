//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"gorm.io/gorm"

	"weekly-tracker/internal/config"
	"weekly-tracker/internal/dates"
	"weekly-tracker/internal/db"
	trackerdomain "weekly-tracker/internal/domain/tracker"
	"weekly-tracker/internal/remote"
	trackerrepo "weekly-tracker/internal/repository/postgres/tracker"
	"weekly-tracker/internal/transport/httpserver"
	"weekly-tracker/internal/transport/httpserver/handler"
	"weekly-tracker/internal/transport/httpserver/middleware"
	"weekly-tracker/pkg/logger"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.Nop()
	cfg := config.Config{
		DB:             config.DBConfig{Driver: config.DriverPostgres, DSN: dsn},
		RequestTimeout: 5 * time.Second,
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	service := trackerdomain.NewService(trackerrepo.NewPostgres(dbConn))
	handlers := handler.New(service, log)
	router := httpserver.NewRouter(cfg, handlers, middleware.NewMetrics(), log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE daily_checks, weekly_items, weeks RESTART IDENTITY CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

type weekResponse struct {
	ID            int64  `json:"id"`
	WeekStartDate string `json:"week_start_date"`
}

type checkResponse struct {
	ID      *int64  `json:"id"`
	Date    string  `json:"date"`
	Status  int     `json:"status"`
	Minutes *int    `json:"minutes"`
	Note    *string `json:"note"`
}

type itemResponse struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Category   *string         `json:"category"`
	OrderIndex int             `json:"order_index"`
	Checks     []checkResponse `json:"checks"`
}

type gridResponse struct {
	Week  weekResponse   `json:"week"`
	Items []itemResponse `json:"items"`
}

func TestE2EHealthAndMetrics(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	if !bytes.Contains(body, []byte(`weekly_tracker_http_requests_total{method="GET",route="/api/health",status="200"} 1`)) {
		t.Fatalf("expected health request counted, got %s", string(body))
	}
}

func TestE2EWeekGridFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	api := env.server.URL + "/api"

	resp, body := requestJSON(t, client, http.MethodPost, api+"/weeks", map[string]string{
		"week_start_date": "2026-02-05",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var week weekResponse
	if err := json.Unmarshal(body, &week); err != nil {
		t.Fatalf("decode week: %v", err)
	}
	if week.WeekStartDate != "2026-02-02" {
		t.Fatalf("expected monday 2026-02-02, got %s", week.WeekStartDate)
	}

	resp, body = requestJSON(t, client, http.MethodPost, api+"/weeks", map[string]string{
		"week_start_date": "2026-02-08",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", resp.StatusCode, string(body))
	}
	var conflict errorBody
	if err := json.Unmarshal(body, &conflict); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if conflict.Code != "duplicate_week" {
		t.Fatalf("expected duplicate_week, got %s", conflict.Code)
	}

	weekURL := api + "/weeks/" + strconv.FormatInt(week.ID, 10)

	resp, body = requestJSON(t, client, http.MethodPost, weekURL+"/items", map[string]interface{}{
		"name":     "Reading",
		"category": "books",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, string(body))
	}
	var item itemResponse
	if err := json.Unmarshal(body, &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	if len(item.Checks) != 7 || item.OrderIndex != 0 {
		t.Fatalf("expected 7 checks at order 0, got %d at %d", len(item.Checks), item.OrderIndex)
	}

	resp, body = requestJSON(t, client, http.MethodPost, weekURL+"/items", map[string]interface{}{
		"name": "   ",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", resp.StatusCode, string(body))
	}

	for _, status := range []int{1, 2} {
		resp, body = requestJSON(t, client, http.MethodPut, api+"/daily-checks", map[string]interface{}{
			"weekly_item_id": item.ID,
			"date":           "2026-02-03",
			"status":         status,
			"minutes":        20,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
		}
	}

	resp, body = requestJSON(t, client, http.MethodGet, weekURL+"/grid", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, string(body))
	}
	var grid gridResponse
	if err := json.Unmarshal(body, &grid); err != nil {
		t.Fatalf("decode grid: %v", err)
	}
	if len(grid.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(grid.Items))
	}
	cell := grid.Items[0].Checks[1]
	if cell.ID == nil || cell.Status != 2 || cell.Date != "2026-02-03" {
		t.Fatalf("expected stored partial check on 2026-02-03, got %+v", cell)
	}
	if grid.Items[0].Checks[0].ID != nil {
		t.Fatalf("expected synthetic cell on monday")
	}

	resp, body = requestJSON(t, client, http.MethodDelete, weekURL, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPut, api+"/weekly-items/"+strconv.FormatInt(item.ID, 10), map[string]string{
		"name": "gone",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after cascade, got %d: %s", resp.StatusCode, string(body))
	}
}

func TestE2ERemoteStore(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	ctx := context.Background()
	store, err := remote.New(env.server.URL + "/api")
	if err != nil {
		t.Fatalf("remote store: %v", err)
	}

	today := dates.MustParse("2026-03-11")
	week, err := trackerdomain.OpenCurrentWeek(ctx, store, today)
	if err != nil {
		t.Fatalf("open week: %v", err)
	}
	again, err := trackerdomain.OpenCurrentWeek(ctx, store, today)
	if err != nil {
		t.Fatalf("reopen week: %v", err)
	}
	if again.ID != week.ID {
		t.Fatalf("expected week %d, got %d", week.ID, again.ID)
	}

	for _, name := range []string{"A", "B", "C"} {
		if _, err := store.CreateItem(ctx, week.ID, trackerdomain.CreateItemInput{Name: name}); err != nil {
			t.Fatalf("create item %s: %v", name, err)
		}
	}

	grid, found, err := store.GetWeekGrid(ctx, week.ID)
	if err != nil || !found {
		t.Fatalf("get grid: found=%v err=%v", found, err)
	}
	if err := trackerdomain.ApplyOrder(ctx, store, trackerdomain.Reorder(grid.Items, 2, 0)); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	grid, _, err = store.GetWeekGrid(ctx, week.ID)
	if err != nil {
		t.Fatalf("get grid: %v", err)
	}
	got := ""
	for _, item := range grid.Items {
		got += item.Name
	}
	if got != "CAB" {
		t.Fatalf("expected order CAB, got %s", got)
	}

	if _, err := store.UpsertCheck(ctx, trackerdomain.UpsertCheckInput{
		WeeklyItemID: 9999,
		Date:         today,
		Status:       trackerdomain.StatusDone,
	}); !errors.Is(err, trackerdomain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}

	if err := store.DeleteWeek(ctx, week.ID); err != nil {
		t.Fatalf("delete week: %v", err)
	}
	if _, found, err := store.GetWeek(ctx, week.ID); err != nil || found {
		t.Fatalf("expected week gone, found=%v err=%v", found, err)
	}
}
