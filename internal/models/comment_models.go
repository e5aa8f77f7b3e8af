package models

type Comment struct {
	ID          string `json:"comment_id"`
	PostID      string `json:"post_id"`
	Text        string `json:"text"`
	Author      string `json:"author"`
	LikeCount   int64  `json:"like_count"`
	PublishedAt string `json:"published_at"`
}

// BrandComment is one labeled comment attributed to one brand. A comment that
// mentions two brands produces two rows.
type BrandComment struct {
	PostID    string  `json:"post_id"`
	CommentID string  `json:"comment_id"`
	Brand     string  `json:"brand"`
	Text      string  `json:"text"`
	Label     string  `json:"label"`
	Compound  float64 `json:"compound"`
	Pos       float64 `json:"pos"`
	Neg       float64 `json:"neg"`
	Neu       float64 `json:"neu"`
}
