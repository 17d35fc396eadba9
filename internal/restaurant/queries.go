//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package restaurant

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"
)

// DailyPerformanceSampleSQL selects the latest rows of the daily view.
const DailyPerformanceSampleSQL = `SELECT * FROM vw_daily_performance ORDER BY date_key DESC, location_id LIMIT 10`

// WeeklyPerformanceLimit caps the rows returned by a weekly report.
const WeeklyPerformanceLimit = 500

// WeeklyFilter narrows the weekly performance report. Nil and empty fields
// are not filtered on.
type WeeklyFilter struct {
	Year       *int
	Week       *int
	Region     string
	LocationID *int
}

// WeeklyRow is one location-week of the weekly performance report. Money
// and ratio columns are decimal strings.
type WeeklyRow struct {
	Year              int    `json:"year"`
	WeekOfYear        int    `json:"week_of_year"`
	LocationID        int    `json:"location_id"`
	LocationName      string `json:"location_name"`
	Region            string `json:"region"`
	City              string `json:"city"`
	NetSales          string `json:"net_sales"`
	Covers            int    `json:"covers"`
	AvgCheck          string `json:"avg_check"`
	LaborHours        string `json:"labor_hours"`
	LaborCost         string `json:"labor_cost"`
	LaborPct          string `json:"labor_pct"`
	SalesPerLaborHour string `json:"sales_per_labor_hour"`
}

type weeklyColumn struct {
	name  string
	scale int // decimal places, or -1 to pass through
}

var weeklyColumns = []weeklyColumn{
	{"year", -1},
	{"week_of_year", -1},
	{"location_id", -1},
	{"location_name", -1},
	{"region", -1},
	{"city", -1},
	{"net_sales", 2},
	{"covers", -1},
	{"avg_check", 2},
	{"labor_hours", 2},
	{"labor_cost", 2},
	{"labor_pct", 4},
	{"sales_per_labor_hour", 2},
}

func formatDecimal(d warehouse.Dialect, col string, scale int) string {
	if d == warehouse.SQLite {
		return fmt.Sprintf("printf('%%.%df', COALESCE(w.%s, 0)) AS %s", scale, col, col)
	}
	return fmt.Sprintf("ROUND(COALESCE(w.%s, 0), %d) AS %s", col, scale, col)
}

// WeeklyPerformanceQuery builds the weekly report query and its arguments
// for the dialect.
func WeeklyPerformanceQuery(d warehouse.Dialect, f WeeklyFilter) (string, []any) {
	selects := make([]string, 0, len(weeklyColumns))
	for _, c := range weeklyColumns {
		if c.scale < 0 {
			selects = append(selects, "w."+c.name)
			continue
		}
		selects = append(selects, formatDecimal(d, c.name, c.scale))
	}

	var where []string
	var args []any
	cond := func(expr string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf("%s = %s", expr, d.Placeholder(len(args))))
	}
	if f.Year != nil {
		cond("w.year", *f.Year)
	}
	if f.Week != nil {
		cond("w.week_of_year", *f.Week)
	}
	if f.Region != "" {
		cond("w.region", f.Region)
	}
	if f.LocationID != nil {
		cond("w.location_id", *f.LocationID)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(selects, ", "))
	b.WriteString(" FROM ")
	b.WriteString(WeeklyPerformanceView)
	b.WriteString(" w")
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	fmt.Fprintf(&b, " ORDER BY w.year DESC, w.week_of_year DESC, w.net_sales DESC LIMIT %d", WeeklyPerformanceLimit)
	return b.String(), args
}

// Reports runs the reporting queries against a warehouse.
type Reports struct {
	wh warehouse.Warehouse
}

// NewReports creates a Reports for wh.
func NewReports(wh warehouse.Warehouse) *Reports {
	return &Reports{wh: wh}
}

// WeeklyPerformance returns the weekly performance rows matching f.
func (r *Reports) WeeklyPerformance(ctx context.Context, f WeeklyFilter) ([]WeeklyRow, error) {
	sql, args := WeeklyPerformanceQuery(r.wh.Dialect(), f)
	res, err := r.wh.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	rows := make([]WeeklyRow, 0, len(res.Rows))
	for i, rec := range res.Rows {
		row, err := parseWeeklyRow(rec)
		if err != nil {
			return nil, fmt.Errorf("weekly performance row %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseWeeklyRow(rec []string) (WeeklyRow, error) {
	if len(rec) != len(weeklyColumns) {
		return WeeklyRow{}, fmt.Errorf("expected %d columns, got %d", len(weeklyColumns), len(rec))
	}
	ints := make(map[int]int, 4)
	for _, i := range []int{0, 1, 2, 7} {
		v, err := strconv.Atoi(rec[i])
		if err != nil {
			return WeeklyRow{}, fmt.Errorf("column %s: %w", weeklyColumns[i].name, err)
		}
		ints[i] = v
	}
	return WeeklyRow{
		Year:              ints[0],
		WeekOfYear:        ints[1],
		LocationID:        ints[2],
		LocationName:      rec[3],
		Region:            rec[4],
		City:              rec[5],
		NetSales:          rec[6],
		Covers:            ints[7],
		AvgCheck:          rec[8],
		LaborHours:        rec[9],
		LaborCost:         rec[10],
		LaborPct:          rec[11],
		SalesPerLaborHour: rec[12],
	}, nil
}
