package restaurant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"
)

type fakeWarehouse struct {
	dialect warehouse.Dialect
	sql     string
	args    []any
	result  *warehouse.Result
	err     error
	execs   []string
}

func (f *fakeWarehouse) Dialect() warehouse.Dialect { return f.dialect }
func (f *fakeWarehouse) Close() error               { return nil }

func (f *fakeWarehouse) Exec(_ context.Context, sql string) error {
	f.execs = append(f.execs, sql)
	return f.err
}

func (f *fakeWarehouse) Copy(context.Context, string, []string, string) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeWarehouse) Query(_ context.Context, sql string, args ...any) (*warehouse.Result, error) {
	f.sql, f.args = sql, args
	return f.result, f.err
}

func intPtr(v int) *int { return &v }

func TestWeeklyPerformanceQueryNoFilter(t *testing.T) {
	sql, args := WeeklyPerformanceQuery(warehouse.Postgres, WeeklyFilter{})
	if len(args) != 0 {
		t.Errorf("Expected no args, got %v", args)
	}
	if strings.Contains(sql, "WHERE") {
		t.Errorf("Expected no WHERE clause, got %s", sql)
	}
	if !strings.HasSuffix(sql, "ORDER BY w.year DESC, w.week_of_year DESC, w.net_sales DESC LIMIT 500") {
		t.Errorf("Unexpected ordering: %s", sql)
	}
	if !strings.Contains(sql, "FROM vw_location_weekly_performance w") {
		t.Errorf("Expected weekly view, got %s", sql)
	}
}

func TestWeeklyPerformanceQueryFilters(t *testing.T) {
	f := WeeklyFilter{Year: intPtr(2024), Week: intPtr(9), Region: "Alberta", LocationID: intPtr(3)}

	sql, args := WeeklyPerformanceQuery(warehouse.Postgres, f)
	want := "WHERE w.year = $1 AND w.week_of_year = $2 AND w.region = $3 AND w.location_id = $4"
	if !strings.Contains(sql, want) {
		t.Errorf("Expected %q in %s", want, sql)
	}
	if len(args) != 4 || args[0] != 2024 || args[1] != 9 || args[2] != "Alberta" || args[3] != 3 {
		t.Errorf("Unexpected args %v", args)
	}

	lite, liteArgs := WeeklyPerformanceQuery(warehouse.SQLite, WeeklyFilter{Region: "Alberta"})
	if !strings.Contains(lite, "WHERE w.region = ?") {
		t.Errorf("Expected SQLite placeholder, got %s", lite)
	}
	if !strings.Contains(lite, "printf('%.2f', COALESCE(w.net_sales, 0)) AS net_sales") {
		t.Errorf("Expected SQLite decimal formatting, got %s", lite)
	}
	if len(liteArgs) != 1 {
		t.Errorf("Expected 1 arg, got %v", liteArgs)
	}
}

func TestReportsWeeklyPerformance(t *testing.T) {
	fw := &fakeWarehouse{
		dialect: warehouse.SQLite,
		result: &warehouse.Result{
			Rows: [][]string{{
				"2024", "9", "1", "Cactus Location 1", "Alberta", "Calgary",
				"1234.50", "310", "3.98", "700.00", "16100.00", "13.0417", "1.76",
			}},
		},
	}

	rows, err := NewReports(fw).WeeklyPerformance(context.Background(), WeeklyFilter{LocationID: intPtr(1)})
	if err != nil {
		t.Fatalf("WeeklyPerformance failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r.Year != 2024 || r.WeekOfYear != 9 || r.LocationID != 1 || r.Covers != 310 {
		t.Errorf("Unexpected integer fields: %+v", r)
	}
	if r.NetSales != "1234.50" || r.LaborPct != "13.0417" || r.City != "Calgary" {
		t.Errorf("Unexpected text fields: %+v", r)
	}
	if len(fw.args) != 1 || fw.args[0] != 1 {
		t.Errorf("Expected location filter arg, got %v", fw.args)
	}
}

func TestReportsWeeklyPerformanceErrors(t *testing.T) {
	fw := &fakeWarehouse{err: errors.New("connection refused")}
	if _, err := NewReports(fw).WeeklyPerformance(context.Background(), WeeklyFilter{}); err == nil {
		t.Error("Expected query error, got nil")
	}

	bad := &fakeWarehouse{result: &warehouse.Result{Rows: [][]string{{"2024"}}}}
	if _, err := NewReports(bad).WeeklyPerformance(context.Background(), WeeklyFilter{}); err == nil {
		t.Error("Expected error for short row, got nil")
	}
}

func TestSchemaSQL(t *testing.T) {
	pg := SchemaSQL(warehouse.Postgres)
	lite := SchemaSQL(warehouse.SQLite)

	for _, table := range Tables {
		if !strings.Contains(pg, "CREATE TABLE IF NOT EXISTS "+table.Name+" (") {
			t.Errorf("Postgres schema missing table %s", table.Name)
		}
		for _, col := range table.Columns {
			if !strings.Contains(pg, "    "+col+" ") {
				t.Errorf("Postgres schema missing column %s.%s", table.Name, col)
			}
		}
	}
	if !strings.Contains(pg, "CREATE OR REPLACE VIEW vw_daily_performance") {
		t.Error("Postgres schema missing daily view")
	}
	if !strings.Contains(lite, "CREATE VIEW IF NOT EXISTS vw_location_weekly_performance") {
		t.Error("SQLite schema missing weekly view")
	}
	if !strings.Contains(pg, "date_key     DATE PRIMARY KEY") {
		t.Error("Expected DATE keys for Postgres")
	}
	if !strings.Contains(lite, "date_key     TEXT PRIMARY KEY") {
		t.Error("Expected TEXT keys for SQLite")
	}
	if strings.Contains(pg, "%!") || strings.Contains(lite, "%!") {
		t.Error("Schema contains a formatting error")
	}
}

func TestCreateAndDropSchema(t *testing.T) {
	fw := &fakeWarehouse{dialect: warehouse.SQLite}
	ctx := context.Background()

	if err := CreateSchema(ctx, fw); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}
	if err := DropSchema(ctx, fw); err != nil {
		t.Fatalf("DropSchema failed: %v", err)
	}
	if len(fw.execs) != 2 {
		t.Fatalf("Expected 2 statements, got %d", len(fw.execs))
	}
	if !strings.Contains(fw.execs[1], "DROP TABLE IF EXISTS dim_date") {
		t.Errorf("Expected drop of dim_date, got %s", fw.execs[1])
	}

	failing := &fakeWarehouse{err: errors.New("permission denied")}
	if err := CreateSchema(ctx, failing); err == nil {
		t.Error("Expected error, got nil")
	}
}

func TestTruncateOrder(t *testing.T) {
	order := TruncateOrder()
	if len(order) != len(Tables) {
		t.Fatalf("Expected %d tables, got %d", len(Tables), len(order))
	}
	if order[0] != "fact_sales" || order[len(order)-1] != "dim_date" {
		t.Errorf("Expected facts first and dim_date last, got %v", order)
	}
}
