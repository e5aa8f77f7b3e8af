package models

import "time"

type RunParams struct {
	TopN int `json:"top_n"`
	Days int `json:"days"`
}

type ExportPaths struct {
	Posts    string `json:"posts"`
	Comments string `json:"comments"`
	SoV      string `json:"sov"`
	SPV      string `json:"spv"`
	Insights string `json:"insights,omitempty"`
	Charts   string `json:"charts,omitempty"`
}

// RunConfig is written next to the exports so a run can be traced back to its
// inputs.
type RunConfig struct {
	RunID      string      `json:"run_id"`
	RunTime    time.Time   `json:"run_time"`
	FocalBrand string      `json:"focal_brand"`
	Brands     []string    `json:"brands"`
	Params     RunParams   `json:"params"`
	Keywords   []string    `json:"keywords"`
	Exports    ExportPaths `json:"exports"`
}

// RunSummary is the event announced to downstream consumers after a run.
type RunSummary struct {
	RunID        string                `json:"run_id"`
	RunTime      time.Time             `json:"run_time"`
	FocalBrand   string                `json:"focal_brand"`
	Keywords     []string              `json:"keywords"`
	PostCount    int                   `json:"post_count"`
	CommentCount int                   `json:"comment_count"`
	SoV          []BrandShare          `json:"sov"`
	SPV          []BrandSentimentShare `json:"spv"`
}
