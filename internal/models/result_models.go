package models

import (
	"encoding/json"
	"strconv"
)

type BrandShare struct {
	Brand  string  `json:"brand"`
	Weight float64 `json:"brand_weight"`
	Share  float64 `json:"sov"`
}

type BrandSentimentShare struct {
	Brand string `json:"brand"`
	Pos   int    `json:"pos"`
	Neg   int    `json:"neg"`
	Neu   int    `json:"neu"`
	Total int    `json:"total"`
	SPV   Ratio  `json:"spv"`
}

// Ratio is a fraction that may be absent. An absent ratio means there was no
// data to divide, which is different from a ratio of 0.
type Ratio struct {
	Value float64
	Valid bool
}

func SomeRatio(v float64) Ratio {
	return Ratio{Value: v, Valid: true}
}

func MissingRatio() Ratio {
	return Ratio{}
}

// Format renders the ratio for flat exports. Missing ratios render as "".
func (r Ratio) Format(prec int) string {
	if !r.Valid {
		return ""
	}
	return strconv.FormatFloat(r.Value, 'f', prec, 64)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = MissingRatio()
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = SomeRatio(v)
	return nil
}
