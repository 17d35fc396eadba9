package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pgEdge/pgedge-opsgen/internal/restaurant"
)

type fakeStore struct {
	filter restaurant.WeeklyFilter
	rows   []restaurant.WeeklyRow
	err    error
}

func (f *fakeStore) WeeklyPerformance(_ context.Context, filter restaurant.WeeklyFilter) ([]restaurant.WeeklyRow, error) {
	f.filter = filter
	return f.rows, f.err
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, New(&fakeStore{}), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !body["ok"] {
		t.Errorf("Expected ok=true, got %s", rec.Body.String())
	}
}

func TestWeeklyPerformanceFilters(t *testing.T) {
	store := &fakeStore{rows: []restaurant.WeeklyRow{{
		Year: 2024, WeekOfYear: 9, LocationID: 3, LocationName: "Cactus Location 3",
		Region: "Alberta", City: "Calgary", NetSales: "1234.50", Covers: 310,
	}}}
	rec := get(t, New(store), "/api/weekly-performance?year=2024&week=9&region=Alberta&location_id=3")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	f := store.filter
	if f.Year == nil || *f.Year != 2024 || f.Week == nil || *f.Week != 9 {
		t.Errorf("Unexpected year/week filter %+v", f)
	}
	if f.Region != "Alberta" || f.LocationID == nil || *f.LocationID != 3 {
		t.Errorf("Unexpected region/location filter %+v", f)
	}

	var body struct {
		Rows []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(body.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(body.Rows))
	}
	if body.Rows[0]["net_sales"] != "1234.50" {
		t.Errorf("Expected net_sales as a string, got %v", body.Rows[0]["net_sales"])
	}
	if body.Rows[0]["week_of_year"] != float64(9) {
		t.Errorf("Expected week_of_year 9, got %v", body.Rows[0]["week_of_year"])
	}
}

func TestWeeklyPerformanceIgnoresBadNumbers(t *testing.T) {
	store := &fakeStore{}
	rec := get(t, New(store), "/api/weekly-performance?year=abc&location_id=")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if store.filter.Year != nil || store.filter.LocationID != nil {
		t.Errorf("Expected unparseable filters to be ignored, got %+v", store.filter)
	}
	if rec.Body.String() != "{\"rows\":[]}\n" {
		t.Errorf("Expected empty rows, got %q", rec.Body.String())
	}
}

func TestWeeklyPerformanceError(t *testing.T) {
	rec := get(t, New(&fakeStore{err: errors.New("relation does not exist")}), "/api/weekly-performance")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["error"] != "relation does not exist" {
		t.Errorf("Expected error message, got %v", body)
	}
}

func TestCORSHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	New(&fakeStore{}).Handler().ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected wildcard CORS origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
