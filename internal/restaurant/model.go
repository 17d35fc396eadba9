// Package restaurant implements the restaurant operations warehouse: its
// dimension and fact records, the synthesis model that generates them, and
// the schema and reporting queries of the destination tables.
package restaurant

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-opsgen/internal/staging"
)

// DateLayout is the ISO-8601 calendar date format used for keys and dates.
const DateLayout = "2006-01-02"

// Table declarations in load order: dimensions first, then facts.
var (
	DateTable = staging.Table{
		Name:    "dim_date",
		Kind:    staging.Dimension,
		Columns: []string{"date_key", "year", "month", "day", "day_of_week", "week_of_year"},
	}
	LocationTable = staging.Table{
		Name:    "dim_location",
		Kind:    staging.Dimension,
		Columns: []string{"location_id", "location_name", "region", "city", "open_date"},
	}
	ItemTable = staging.Table{
		Name:    "dim_item",
		Kind:    staging.Dimension,
		Columns: []string{"item_id", "item_name", "category", "price", "food_cost"},
	}
	SalesTable = staging.Table{
		Name:    "fact_sales",
		Kind:    staging.Fact,
		Columns: []string{"date_key", "location_id", "item_id", "covers", "gross_sales", "discount_amt"},
	}
	LaborTable = staging.Table{
		Name:    "fact_labor",
		Kind:    staging.Fact,
		Columns: []string{"date_key", "location_id", "labor_hours", "labor_cost"},
	}

	Tables = []staging.Table{DateTable, LocationTable, ItemTable, SalesTable, LaborTable}
)

// DateDim is one calendar day of the lookback window.
type DateDim struct {
	Date       time.Time
	Year       int
	Month      int
	Day        int
	DayOfWeek  int // 1 = Monday .. 7 = Sunday
	WeekOfYear int // ISO week
}

// NewDateDim derives the calendar attributes of t.
func NewDateDim(t time.Time) DateDim {
	y, m, d := t.Date()
	_, week := t.ISOWeek()
	return DateDim{
		Date:       time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Year:       y,
		Month:      int(m),
		Day:        d,
		DayOfWeek:  isoWeekday(t.Weekday()),
		WeekOfYear: week,
	}
}

func isoWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// Key returns the date_key value.
func (d DateDim) Key() string {
	return d.Date.Format(DateLayout)
}

// IsWeekend reports whether the day gets the weekend boost (Fri, Sat, Sun).
func (d DateDim) IsWeekend() bool {
	return d.DayOfWeek >= 5
}

// IsSlowDay reports whether the day is Monday through Wednesday.
func (d DateDim) IsSlowDay() bool {
	return d.DayOfWeek <= 3
}

// Record implements staging.Record.
func (d DateDim) Record() []string {
	return []string{
		d.Key(),
		strconv.Itoa(d.Year),
		strconv.Itoa(d.Month),
		strconv.Itoa(d.Day),
		strconv.Itoa(d.DayOfWeek),
		strconv.Itoa(d.WeekOfYear),
	}
}

// LocationDim is one restaurant location.
type LocationDim struct {
	ID       int
	Name     string
	Region   Region
	City     string
	OpenDate time.Time
}

// Record implements staging.Record.
func (l LocationDim) Record() []string {
	return []string{
		strconv.Itoa(l.ID),
		l.Name,
		l.Region.String(),
		l.City,
		l.OpenDate.Format(DateLayout),
	}
}

// ItemDim is one menu item. Price and FoodCost are already rounded to cents.
type ItemDim struct {
	ID       int
	Name     string
	Category Category
	Price    decimal.Decimal
	FoodCost decimal.Decimal
}

// Record implements staging.Record.
func (i ItemDim) Record() []string {
	return []string{
		strconv.Itoa(i.ID),
		i.Name,
		i.Category.String(),
		i.Price.StringFixed(2),
		i.FoodCost.StringFixed(2),
	}
}

// SalesFact is the sales of one item at one location on one day.
type SalesFact struct {
	DateKey     string
	LocationID  int
	ItemID      int
	Orders      int // not staged; covers and sales are derived from it
	Covers      int
	GrossSales  decimal.Decimal
	DiscountAmt decimal.Decimal
}

// Record implements staging.Record.
func (s SalesFact) Record() []string {
	return []string{
		s.DateKey,
		strconv.Itoa(s.LocationID),
		strconv.Itoa(s.ItemID),
		strconv.Itoa(s.Covers),
		s.GrossSales.StringFixed(2),
		s.DiscountAmt.StringFixed(2),
	}
}

// LaborFact is the staffing of one location on one day.
type LaborFact struct {
	DateKey    string
	LocationID int
	LaborHours decimal.Decimal
	LaborCost  decimal.Decimal
}

// Record implements staging.Record.
func (l LaborFact) Record() []string {
	return []string{
		l.DateKey,
		strconv.Itoa(l.LocationID),
		l.LaborHours.StringFixed(2),
		l.LaborCost.StringFixed(2),
	}
}
