package restaurant

import (
	"context"
	"fmt"

	"github.com/pgEdge/pgedge-opsgen/internal/logging"
	"github.com/pgEdge/pgedge-opsgen/internal/warehouse"
)

// View names.
const (
	DailyPerformanceView  = "vw_daily_performance"
	WeeklyPerformanceView = "vw_location_weekly_performance"
)

// Table DDL. %[1]s is the date column type. SQLite stores dates as TEXT so
// the driver hands them back exactly as loaded.
const createTablesSQL = `
-- Calendar days of the lookback window
CREATE TABLE IF NOT EXISTS dim_date (
    date_key     %[1]s PRIMARY KEY,
    year         INTEGER NOT NULL,
    month        INTEGER NOT NULL,
    day          INTEGER NOT NULL,
    day_of_week  INTEGER NOT NULL,
    week_of_year INTEGER NOT NULL
);

-- Restaurant locations
CREATE TABLE IF NOT EXISTS dim_location (
    location_id   INTEGER PRIMARY KEY,
    location_name VARCHAR(100) NOT NULL,
    region        VARCHAR(50) NOT NULL,
    city          VARCHAR(50) NOT NULL,
    open_date     %[1]s NOT NULL
);

-- Menu items
CREATE TABLE IF NOT EXISTS dim_item (
    item_id   INTEGER PRIMARY KEY,
    item_name VARCHAR(100) NOT NULL,
    category  VARCHAR(30) NOT NULL,
    price     NUMERIC(10,2) NOT NULL,
    food_cost NUMERIC(10,2) NOT NULL
);

-- Daily item sales per location
CREATE TABLE IF NOT EXISTS fact_sales (
    date_key     %[1]s NOT NULL REFERENCES dim_date(date_key),
    location_id  INTEGER NOT NULL REFERENCES dim_location(location_id),
    item_id      INTEGER NOT NULL REFERENCES dim_item(item_id),
    covers       INTEGER NOT NULL,
    gross_sales  NUMERIC(12,2) NOT NULL,
    discount_amt NUMERIC(12,2) NOT NULL,
    PRIMARY KEY (date_key, location_id, item_id)
);

-- Daily staffing per location
CREATE TABLE IF NOT EXISTS fact_labor (
    date_key    %[1]s NOT NULL REFERENCES dim_date(date_key),
    location_id INTEGER NOT NULL REFERENCES dim_location(location_id),
    labor_hours NUMERIC(10,2) NOT NULL,
    labor_cost  NUMERIC(12,2) NOT NULL,
    PRIMARY KEY (date_key, location_id)
);

CREATE INDEX IF NOT EXISTS idx_fact_sales_location ON fact_sales(location_id, date_key);
CREATE INDEX IF NOT EXISTS idx_fact_sales_item ON fact_sales(item_id);
CREATE INDEX IF NOT EXISTS idx_fact_labor_location ON fact_labor(location_id, date_key);
`

// View DDL. %[1]s is the CREATE VIEW prefix of the dialect.
const createViewsSQL = `
-- One row per location per day
%[1]s vw_daily_performance AS
SELECT
    d.date_key,
    d.year,
    d.month,
    d.week_of_year,
    d.day_of_week,
    l.location_id,
    l.location_name,
    l.region,
    l.city,
    s.gross_sales,
    s.discount_amt,
    s.gross_sales - s.discount_amt AS net_sales,
    s.covers,
    COALESCE(lb.labor_hours, 0) AS labor_hours,
    COALESCE(lb.labor_cost, 0) AS labor_cost
FROM (
    SELECT date_key, location_id,
           SUM(gross_sales) AS gross_sales,
           SUM(discount_amt) AS discount_amt,
           SUM(covers) AS covers
    FROM fact_sales
    GROUP BY date_key, location_id
) s
JOIN dim_date d ON d.date_key = s.date_key
JOIN dim_location l ON l.location_id = s.location_id
LEFT JOIN fact_labor lb ON lb.date_key = s.date_key AND lb.location_id = s.location_id;

-- One row per location per week
%[1]s vw_location_weekly_performance AS
SELECT
    year,
    week_of_year,
    location_id,
    location_name,
    region,
    city,
    SUM(net_sales) AS net_sales,
    SUM(covers) AS covers,
    1.0 * SUM(net_sales) / NULLIF(SUM(covers), 0) AS avg_check,
    SUM(labor_hours) AS labor_hours,
    SUM(labor_cost) AS labor_cost,
    1.0 * SUM(labor_cost) / NULLIF(SUM(net_sales), 0) AS labor_pct,
    1.0 * SUM(net_sales) / NULLIF(SUM(labor_hours), 0) AS sales_per_labor_hour
FROM vw_daily_performance
GROUP BY year, week_of_year, location_id, location_name, region, city;
`

const dropSchemaSQL = `
DROP VIEW IF EXISTS vw_location_weekly_performance;
DROP VIEW IF EXISTS vw_daily_performance;
DROP TABLE IF EXISTS fact_sales;
DROP TABLE IF EXISTS fact_labor;
DROP TABLE IF EXISTS dim_item;
DROP TABLE IF EXISTS dim_location;
DROP TABLE IF EXISTS dim_date;
`

// SchemaSQL returns the DDL that creates the tables and reporting views.
func SchemaSQL(d warehouse.Dialect) string {
	dateType, createView := "DATE", "CREATE OR REPLACE VIEW"
	if d == warehouse.SQLite {
		dateType, createView = "TEXT", "CREATE VIEW IF NOT EXISTS"
	}
	return fmt.Sprintf(createTablesSQL, dateType) + fmt.Sprintf(createViewsSQL, createView)
}

// TruncateOrder lists the tables children first, the order a full-table
// replacement must empty them in.
func TruncateOrder() []string {
	return []string{SalesTable.Name, LaborTable.Name, ItemTable.Name, LocationTable.Name, DateTable.Name}
}

// CreateSchema creates the warehouse tables and views.
func CreateSchema(ctx context.Context, wh warehouse.Warehouse) error {
	logging.Info().Str("dialect", wh.Dialect().String()).Msg("Creating schema")
	if err := wh.Exec(ctx, SchemaSQL(wh.Dialect())); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// DropSchema drops the warehouse views and tables.
func DropSchema(ctx context.Context, wh warehouse.Warehouse) error {
	logging.Info().Str("dialect", wh.Dialect().String()).Msg("Dropping schema")
	if err := wh.Exec(ctx, dropSchemaSQL); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}
