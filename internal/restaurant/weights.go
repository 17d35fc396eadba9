package restaurant

// Weights holds the per-run demand model: a strength multiplier per
// location and a normalized popularity weight per item.
type Weights struct {
	LocationStrength map[int]float64
	ItemWeight       map[int]float64
}

// BuildWeights draws location strengths, then item weights, and normalizes
// the item weights so they sum to 1.
func (g *Generator) BuildWeights(locations []LocationDim, items []ItemDim) Weights {
	w := Weights{
		LocationStrength: make(map[int]float64, len(locations)),
		ItemWeight:       make(map[int]float64, len(items)),
	}
	for _, loc := range locations {
		w.LocationStrength[loc.ID] = g.faker.Float64(locationStrength.Min, locationStrength.Max)
	}

	raw := make([]float64, len(items))
	for i, it := range items {
		raw[i] = it.Category.BaseWeight() * g.faker.Float64(itemWeightNoise.Min, itemWeightNoise.Max)
	}
	for i, v := range NormalizeWeights(raw) {
		w.ItemWeight[items[i].ID] = v
	}
	return w
}

// NormalizeWeights divides each weight by the total so the result sums to
// 1. An empty or zero-total input is returned unchanged.
func NormalizeWeights(raw []float64) []float64 {
	var total float64
	for _, v := range raw {
		total += v
	}
	out := make([]float64, len(raw))
	if total == 0 {
		copy(out, raw)
		return out
	}
	for i, v := range raw {
		out[i] = v / total
	}
	return out
}
