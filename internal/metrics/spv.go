package metrics

import (
	"sort"

	"github.com/spacesedan/brandvoice/internal/models"
	"github.com/spacesedan/brandvoice/internal/sentiment"
)

type labelCounts struct {
	pos, neg, neu int
}

// ComputeSPV computes the share of positive voice per brand from labeled
// brand comments. Only brands that occur in rows are reported, in first-seen
// order. Rows without a brand are ignored; dropping untagged comments is the
// caller's job.
func ComputeSPV(rows []models.BrandComment) []models.BrandSentimentShare {
	counts := make(map[string]*labelCounts)
	var order []string

	for _, row := range rows {
		if row.Brand == "" {
			continue
		}

		c, ok := counts[row.Brand]
		if !ok {
			c = &labelCounts{}
			counts[row.Brand] = c
			order = append(order, row.Brand)
		}

		switch row.Label {
		case sentiment.LabelPositive:
			c.pos++
		case sentiment.LabelNegative:
			c.neg++
		case sentiment.LabelNeutral:
			c.neu++
		}
	}

	if len(order) == 0 {
		return nil
	}

	out := make([]models.BrandSentimentShare, 0, len(order))
	for _, brand := range order {
		c := counts[brand]
		total := c.pos + c.neg + c.neu

		spv := models.MissingRatio()
		if total > 0 {
			spv = models.SomeRatio(float64(c.pos) / float64(total))
		}

		out = append(out, models.BrandSentimentShare{
			Brand: brand,
			Pos:   c.pos,
			Neg:   c.neg,
			Neu:   c.neu,
			Total: total,
			SPV:   spv,
		})
	}

	return out
}

// SortSPVForPresentation returns a copy ordered by SPV descending with missing
// values last.
func SortSPVForPresentation(rows []models.BrandSentimentShare) []models.BrandSentimentShare {
	sorted := append([]models.BrandSentimentShare(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].SPV, sorted[j].SPV
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Value > b.Value
	})
	return sorted
}
