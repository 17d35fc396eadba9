//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package restaurant

import "fmt"

// Region is one of the fixed operating regions.
type Region int

const (
	LowerMainland Region = iota
	VancouverIsland
	Alberta
)

// Regions lists every region in draw order.
var Regions = []Region{LowerMainland, VancouverIsland, Alberta}

var regionNames = [...]string{
	LowerMainland:   "Lower Mainland",
	VancouverIsland: "Vancouver Island",
	Alberta:         "Alberta",
}

var regionCities = [...][]string{
	LowerMainland:   {"Vancouver", "Burnaby", "Richmond", "Surrey", "West Van"},
	VancouverIsland: {"Victoria", "Nanaimo", "Langford"},
	Alberta:         {"Calgary", "Edmonton"},
}

// Valid reports whether r is a known region.
func (r Region) Valid() bool {
	return r >= LowerMainland && r <= Alberta
}

func (r Region) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Region(%d)", int(r))
	}
	return regionNames[r]
}

// Cities returns the cities a location in r may be placed in.
func (r Region) Cities() []string {
	if !r.Valid() {
		return nil
	}
	return regionCities[r]
}

// HasCity reports whether city belongs to r.
func (r Region) HasCity(city string) bool {
	for _, c := range r.Cities() {
		if c == city {
			return true
		}
	}
	return false
}

// Category is one of the fixed menu categories.
type Category int

const (
	Mains Category = iota
	Starters
	Desserts
	Cocktails
	Wine
	Beer
	NonAlc
)

// Categories lists every category in draw order.
var Categories = []Category{Mains, Starters, Desserts, Cocktails, Wine, Beer, NonAlc}

// Range bounds a uniform draw.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

type categorySpec struct {
	name       string
	price      Range
	costRatio  Range
	baseWeight float64
}

// Price ranges and food-cost ratios are rough restaurant norms; base weights
// skew demand towards mains and cocktails.
var categorySpecs = [...]categorySpec{
	Mains:     {name: "Mains", price: Range{22, 40}, costRatio: Range{0.28, 0.40}, baseWeight: 1.8},
	Starters:  {name: "Starters", price: Range{14, 22}, costRatio: Range{0.25, 0.38}, baseWeight: 1.2},
	Desserts:  {name: "Desserts", price: Range{10, 16}, costRatio: Range{0.20, 0.35}, baseWeight: 0.6},
	Cocktails: {name: "Cocktails", price: Range{14, 20}, costRatio: Range{0.18, 0.30}, baseWeight: 1.4},
	Wine:      {name: "Wine", price: Range{12, 18}, costRatio: Range{0.35, 0.55}, baseWeight: 0.9},
	Beer:      {name: "Beer", price: Range{8, 11}, costRatio: Range{0.30, 0.45}, baseWeight: 0.8},
	NonAlc:    {name: "Non-Alc", price: Range{4, 8}, costRatio: Range{0.15, 0.30}, baseWeight: 0.7},
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c >= Mains && c <= NonAlc
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categorySpecs[c].name
}

// PriceRange returns the menu price range for c.
func (c Category) PriceRange() Range {
	return categorySpecs[c].price
}

// CostRatioRange returns the food-cost to price ratio range for c.
func (c Category) CostRatioRange() Range {
	return categorySpecs[c].costRatio
}

// BaseWeight returns the popularity weight for c before per-item noise.
func (c Category) BaseWeight() float64 {
	return categorySpecs[c].baseWeight
}

// ParseCategory returns the category with the given display name.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category: %s", name)
}
