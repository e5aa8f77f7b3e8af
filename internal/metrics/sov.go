package metrics

import (
	"math"
	"sort"

	"github.com/spacesedan/brandvoice/internal/brands"
	"github.com/spacesedan/brandvoice/internal/models"
)

// SoVAccumulator collects per-brand engagement totals. Accumulators built over
// separate partitions of a corpus can be merged; the result only depends on
// the partition order through the tie-break between equal shares.
type SoVAccumulator struct {
	totals map[string]float64
	order  []string
}

func NewSoVAccumulator() *SoVAccumulator {
	return &SoVAccumulator{totals: make(map[string]float64)}
}

// Add credits weight to every brand in hits. Co-mentioned brands each get the
// full weight.
func (a *SoVAccumulator) Add(weight float64, hits brands.Set) {
	if math.IsNaN(weight) || weight < 0 {
		return
	}
	for _, brand := range hits {
		a.add(brand, weight)
	}
}

func (a *SoVAccumulator) add(brand string, weight float64) {
	if _, ok := a.totals[brand]; !ok {
		a.order = append(a.order, brand)
	}
	a.totals[brand] += weight
}

func (a *SoVAccumulator) Merge(other *SoVAccumulator) {
	if other == nil {
		return
	}
	for _, brand := range other.order {
		a.add(brand, other.totals[brand])
	}
}

// Total returns the running total for brand and whether it was seen at all.
func (a *SoVAccumulator) Total(brand string) (float64, bool) {
	total, ok := a.totals[brand]
	return total, ok
}

// Result normalizes the totals into shares sorted by share descending. It
// returns nil when nothing was accumulated or every total is zero.
func (a *SoVAccumulator) Result() []models.BrandShare {
	var grandTotal float64
	for _, brand := range a.order {
		grandTotal += a.totals[brand]
	}
	if grandTotal <= 0 {
		return nil
	}

	shares := make([]models.BrandShare, 0, len(a.order))
	for _, brand := range a.order {
		total := a.totals[brand]
		if total == 0 {
			continue
		}
		shares = append(shares, models.BrandShare{
			Brand:  brand,
			Weight: total,
			Share:  total / grandTotal,
		})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Share > shares[j].Share
	})

	return shares
}

// ComputeSoV aggregates weighted, brand-tagged content into share of voice.
func ComputeSoV(items []models.ContentItem) []models.BrandShare {
	acc := NewSoVAccumulator()
	for _, item := range items {
		acc.Add(item.Weight, item.BrandHits)
	}
	return acc.Result()
}
