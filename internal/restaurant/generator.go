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
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pgEdge/pgedge-opsgen/internal/datagen"
	"github.com/pgEdge/pgedge-opsgen/internal/logging"
)

// Model constants.
const (
	DefaultBrand = "Cactus"

	// openDateSpanDays is how far past firstOpenDate a location may open.
	openDateSpanDays = 3000

	weekendBoost      = 1.18
	demandFactor      = 0.045
	ordersVariance    = 0.35
	laborHourVariance = 0.08
)

var firstOpenDate = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	baselineCovers     = [2]int{180, 320}
	locationStrength   = Range{0.85, 1.20}
	itemWeightNoise    = Range{0.6, 1.6}
	coversPerOrder     = Range{0.35, 0.95}
	slowDayDiscount    = Range{0, 0.06}
	regularDiscount    = Range{0, 0.03}
	weekendLaborHours  = Range{90, 140}
	weekdayLaborHours  = Range{70, 120}
	blendedHourlyWages = Range{20.0, 27.0}
)

// Params controls the size and shape of a generated dataset.
type Params struct {
	Days      int
	Locations int
	Items     int
	Seed      uint64
	EndDate   time.Time
	Brand     string
}

// Dataset holds every table of one generation run.
type Dataset struct {
	Params    Params
	Dates     []DateDim
	Locations []LocationDim
	Items     []ItemDim
	Weights   Weights
	Sales     []SalesFact
	Labor     []LaborFact
}

// Generator synthesizes the restaurant operations dataset. All randomness
// comes from one seeded Faker and is consumed in a fixed order: locations,
// items, location strengths, item weights, sales, then labor.
type Generator struct {
	faker  *datagen.Faker
	params Params
}

// NewGenerator creates a generator for the given parameters.
func NewGenerator(params Params) *Generator {
	if params.Brand == "" {
		params.Brand = DefaultBrand
	}
	return &Generator{
		faker:  datagen.NewFakerWithSeed(params.Seed),
		params: params,
	}
}

// Generate produces the complete dataset.
func (g *Generator) Generate() *Dataset {
	p := g.params
	logging.Info().
		Int("days", p.Days).
		Int("locations", p.Locations).
		Int("items", p.Items).
		Uint64("seed", p.Seed).
		Str("end_date", p.EndDate.Format(DateLayout)).
		Msg("Generating restaurant operations data")

	ds := &Dataset{Params: p}
	ds.Dates = GenerateDates(p.EndDate, p.Days)
	ds.Locations = g.GenerateLocations(p.Locations)
	ds.Items = g.GenerateItems(p.Items)
	ds.Weights = g.BuildWeights(ds.Locations, ds.Items)
	ds.Sales = g.GenerateSales(ds.Dates, ds.Locations, ds.Items, ds.Weights)
	ds.Labor = g.GenerateLabor(ds.Dates, ds.Locations)
	return ds
}

// GenerateDates returns the days contiguous days ending at end, ascending.
func GenerateDates(end time.Time, days int) []DateDim {
	if days <= 0 {
		return nil
	}
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(days - 1))

	rows := make([]DateDim, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		rows = append(rows, NewDateDim(d))
	}
	return rows
}

// GenerateLocations draws count locations with ids 1..count.
func (g *Generator) GenerateLocations(count int) []LocationDim {
	if count <= 0 {
		return nil
	}
	rows := make([]LocationDim, 0, count)
	for id := 1; id <= count; id++ {
		region := datagen.Choose(g.faker, Regions)
		rows = append(rows, LocationDim{
			ID:       id,
			Name:     fmt.Sprintf("%s Location %d", g.params.Brand, id),
			Region:   region,
			City:     datagen.Choose(g.faker, region.Cities()),
			OpenDate: g.faker.DaysAfter(firstOpenDate, openDateSpanDays),
		})
	}
	return rows
}

// GenerateItems draws count menu items with ids 1..count. Prices and food
// costs are rounded to cents before anything else uses them.
func (g *Generator) GenerateItems(count int) []ItemDim {
	if count <= 0 {
		return nil
	}
	rows := make([]ItemDim, 0, count)
	for id := 1; id <= count; id++ {
		cat := datagen.Choose(g.faker, Categories)
		pr := cat.PriceRange()
		price := decimal.NewFromFloat(g.faker.Float64(pr.Min, pr.Max)).Round(2)
		cr := cat.CostRatioRange()
		cost := price.Mul(decimal.NewFromFloat(g.faker.Float64(cr.Min, cr.Max))).Round(2)

		rows = append(rows, ItemDim{
			ID:       id,
			Name:     fmt.Sprintf("Item %d", id),
			Category: cat,
			Price:    price,
			FoodCost: cost,
		})
	}
	return rows
}

// GenerateSales produces one row per (date, location, item), iterating in
// that order. Days with no orders for an item still get a zero row.
func (g *Generator) GenerateSales(dates []DateDim, locations []LocationDim, items []ItemDim, w Weights) []SalesFact {
	total := len(dates) * len(locations) * len(items)
	if total == 0 {
		return nil
	}
	rows := make([]SalesFact, 0, total)
	progress := datagen.NewProgressReporter(SalesTable.Name, int64(total), datagen.DefaultProgressInterval)
	itemCount := float64(len(items))

	for _, d := range dates {
		boost := 1.0
		if d.IsWeekend() {
			boost = weekendBoost
		}
		discounts := regularDiscount
		if d.IsSlowDay() {
			discounts = slowDayDiscount
		}

		for _, loc := range locations {
			multiplier := w.LocationStrength[loc.ID] * boost
			baseline := g.faker.Int(baselineCovers[0], baselineCovers[1])
			dailyCovers := int(float64(baseline) * multiplier)

			for _, it := range items {
				expected := float64(dailyCovers) * w.ItemWeight[it.ID] * itemCount * demandFactor
				orders := max(0, int(g.faker.Normal(expected, ordersVariance*expected)))

				row := SalesFact{
					DateKey:     d.Key(),
					LocationID:  loc.ID,
					ItemID:      it.ID,
					Orders:      orders,
					GrossSales:  decimal.Zero,
					DiscountAmt: decimal.Zero,
				}
				if orders > 0 {
					row.Covers = max(0, int(float64(orders)*g.faker.Float64(coversPerOrder.Min, coversPerOrder.Max)))
					row.GrossSales = it.Price.Mul(decimal.NewFromInt(int64(orders)))
				}

				// The rate is drawn on every row so the sequence does not
				// depend on which items sold.
				rate := g.faker.Float64(discounts.Min, discounts.Max)
				row.DiscountAmt = capDiscount(row.GrossSales.Mul(decimal.NewFromFloat(rate)).Round(2), row.GrossSales)

				rows = append(rows, row)
			}
			progress.Update(int64(len(items)))
		}
	}
	progress.Done()
	return rows
}

// capDiscount limits a discount to the gross amount it applies to.
func capDiscount(discount, gross decimal.Decimal) decimal.Decimal {
	if discount.Cmp(gross) > 0 {
		return gross
	}
	return discount
}

// GenerateLabor produces one row per (date, location).
func (g *Generator) GenerateLabor(dates []DateDim, locations []LocationDim) []LaborFact {
	total := len(dates) * len(locations)
	if total == 0 {
		return nil
	}
	rows := make([]LaborFact, 0, total)
	progress := datagen.NewProgressReporter(LaborTable.Name, int64(total), datagen.DefaultProgressInterval)

	for _, d := range dates {
		span := weekdayLaborHours
		if d.IsWeekend() {
			span = weekendLaborHours
		}
		for _, loc := range locations {
			base := g.faker.Float64(span.Min, span.Max)
			rate := g.faker.Float64(blendedHourlyWages.Min, blendedHourlyWages.Max)

			hours := decimal.NewFromFloat(max(0, g.faker.Normal(base, laborHourVariance*base))).Round(2)
			rows = append(rows, LaborFact{
				DateKey:    d.Key(),
				LocationID: loc.ID,
				LaborHours: hours,
				LaborCost:  hours.Mul(decimal.NewFromFloat(rate)).Round(2),
			})
			progress.Update(1)
		}
	}
	progress.Done()
	return rows
}
