package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salescope/salescope/internal/config"
	"github.com/salescope/salescope/internal/query"
	"github.com/salescope/salescope/internal/sales"
)

// stubService records the last call and returns canned results.
type stubService struct {
	lastFilters query.Filters
	lastPage    int
	lastLimit   int

	listResult *sales.ListResult
	records    []sales.Record
	options    *sales.FilterOptions
	cached     bool
	err        error
}

func (s *stubService) List(_ context.Context, f query.Filters, page, limit int) (*sales.ListResult, error) {
	s.lastFilters, s.lastPage, s.lastLimit = f, page, limit
	return s.listResult, s.err
}

func (s *stubService) Export(_ context.Context, f query.Filters) ([]sales.Record, error) {
	s.lastFilters = f
	return s.records, s.err
}

func (s *stubService) All(_ context.Context, f query.Filters) ([]sales.Record, error) {
	s.lastFilters = f
	return s.records, s.err
}

func (s *stubService) FilterOptions(context.Context) (*sales.FilterOptions, bool, error) {
	return s.options, s.cached, s.err
}

type stubHealth struct {
	count int64
	err   error
}

func (s *stubHealth) RecordCount(context.Context) (int64, error) {
	return s.count, s.err
}

func newTestServer(t *testing.T, svc SalesService, db HealthChecker) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Address: ":0", CORSOrigins: "*"},
	}
	return NewServer(cfg, svc, db, nil, "1.0.0").App()
}

func getJSON(t *testing.T, app *fiber.App, target string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

// ---------------------------------------------------------------------------
// GET /api/sales
// ---------------------------------------------------------------------------

func TestHandleListSuccess(t *testing.T) {
	svc := &stubService{
		listResult: &sales.ListResult{
			Records:    []sales.Record{{TransactionID: "TXN-001", Tags: []string{}}},
			Summary:    sales.Summary{TotalUnitsSold: 5, TotalAmount: 1000, TotalDiscount: 50},
			Pagination: sales.NewPagination(2, 10, 42),
		},
	}
	app := newTestServer(t, svc, &stubHealth{})

	status, body := getJSON(t, app, "/api/sales?page=2&limit=10&customerRegion=South,North&sortBy=amount_desc")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	assert.Equal(t, 2, svc.lastPage)
	assert.Equal(t, 10, svc.lastLimit)
	assert.Equal(t, []string{"South", "North"}, svc.lastFilters.Regions)
	assert.Equal(t, "amount_desc", svc.lastFilters.SortBy)

	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(5), summary["totalUnitsSold"])
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["currentPage"])
	assert.Equal(t, float64(42), pagination["total"])
}

func TestHandleListDefaultsSortAndPaging(t *testing.T) {
	svc := &stubService{listResult: &sales.ListResult{Records: []sales.Record{}}}
	app := newTestServer(t, svc, &stubHealth{})

	status, _ := getJSON(t, app, "/api/sales")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, svc.lastPage)
	assert.Equal(t, 10, svc.lastLimit)
	assert.Equal(t, "date_desc", svc.lastFilters.SortBy)
}

func TestHandleListValidationFailure(t *testing.T) {
	svc := &stubService{}
	app := newTestServer(t, svc, &stubHealth{})

	status, body := getJSON(t, app, "/api/sales?ageMin=abc&dateFrom=15-03-2024")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Validation failed", body["error"])

	details := body["details"].([]any)
	assert.Len(t, details, 2)
}

func TestHandleListServiceErrorSanitized(t *testing.T) {
	svc := &stubService{err: assert.AnError}
	app := newTestServer(t, svc, &stubHealth{})

	status, body := getJSON(t, app, "/api/sales")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Internal server error", body["error"])
}

// ---------------------------------------------------------------------------
// GET /api/sales/export
// ---------------------------------------------------------------------------

func TestHandleExportHeaders(t *testing.T) {
	svc := &stubService{records: []sales.Record{{TransactionID: "TXN-001", Tags: []string{}}}}
	app := newTestServer(t, svc, &stubHealth{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/sales/export", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get(fiber.HeaderContentType))
	disposition := resp.Header.Get(fiber.HeaderContentDisposition)
	assert.True(t, strings.HasPrefix(disposition, "attachment; filename=sales_export_"), disposition)
	assert.True(t, strings.HasSuffix(disposition, ".csv"), disposition)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(payload), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "transaction_id,date,"))
	assert.True(t, strings.HasPrefix(lines[1], "TXN-001,"))
}

func TestHandleExportEmptyResultHasHeader(t *testing.T) {
	svc := &stubService{records: []sales.Record{}}
	app := newTestServer(t, svc, &stubHealth{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/sales/export", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(payload), "\n"), "\n")
	require.Len(t, lines, 1, "header row only")
}

// ---------------------------------------------------------------------------
// GET /api/sales/all
// ---------------------------------------------------------------------------

func TestHandleAll(t *testing.T) {
	svc := &stubService{records: []sales.Record{
		{TransactionID: "TXN-001", Tags: []string{}},
		{TransactionID: "TXN-002", Tags: []string{}},
	}}
	app := newTestServer(t, svc, &stubHealth{})

	status, body := getJSON(t, app, "/api/sales/all?search=priya")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["total"])
	assert.Equal(t, "priya", svc.lastFilters.Search)
	assert.Len(t, body["data"].([]any), 2)
}

// ---------------------------------------------------------------------------
// GET /api/sales/filter-options
// ---------------------------------------------------------------------------

func TestHandleFilterOptionsReportsCacheState(t *testing.T) {
	opts := &sales.FilterOptions{
		Regions: []string{"North", "South"},
		Tags:    []string{},
	}

	for _, cached := range []bool{false, true} {
		svc := &stubService{options: opts, cached: cached}
		app := newTestServer(t, svc, &stubHealth{})

		status, body := getJSON(t, app, "/api/sales/filter-options")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, cached, body["cached"])

		data := body["data"].(map[string]any)
		assert.Equal(t, []any{"North", "South"}, data["regions"])
	}
}

// ---------------------------------------------------------------------------
// Fallbacks
// ---------------------------------------------------------------------------

func TestUnknownRouteReturnsEnvelope(t *testing.T) {
	app := newTestServer(t, &stubService{}, &stubHealth{})

	status, body := getJSON(t, app, "/api/nope")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Not Found", body["error"])
	assert.Equal(t, "Route GET /api/nope not found", body["message"])
}
