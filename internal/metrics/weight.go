package metrics

import (
	"fmt"
	"math"
)

const (
	DefaultViewsCoefficient    = 1.0
	DefaultLikesCoefficient    = 2.0
	DefaultCommentsCoefficient = 3.0
)

// Weights are the coefficients of the engagement weight
//
//	w = Views*ln(1+views) + Likes*ln(1+likes) + Comments*ln(1+comments)
type Weights struct {
	Views    float64
	Likes    float64
	Comments float64
}

func DefaultWeights() Weights {
	return Weights{
		Views:    DefaultViewsCoefficient,
		Likes:    DefaultLikesCoefficient,
		Comments: DefaultCommentsCoefficient,
	}
}

// Validate rejects coefficients that would break monotonicity.
func (w Weights) Validate() error {
	for name, c := range map[string]float64{"views": w.Views, "likes": w.Likes, "comments": w.Comments} {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return fmt.Errorf("[Weights] %s coefficient must be a finite non-negative number, got %v", name, c)
		}
	}
	return nil
}

// Weight maps raw engagement counters to a single score. Negative counters are
// treated like missing ones, i.e. as zero.
func (w Weights) Weight(views, likes, comments int64) float64 {
	return w.Views*logCount(views) + w.Likes*logCount(likes) + w.Comments*logCount(comments)
}

func logCount(n int64) float64 {
	if n <= 0 {
		return 0
	}
	return math.Log1p(float64(n))
}
