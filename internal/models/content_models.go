package models

import "github.com/spacesedan/brandvoice/internal/brands"

const PlatformYouTube = "youtube"

// VideoMeta is the snippet and statistics of a single video. Counters the API
// leaves out (hidden like counts, disabled comments) stay at zero.
type VideoMeta struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
	Views        int64  `json:"views"`
	Likes        int64  `json:"likes"`
	Comments     int64  `json:"comments"`
}

type ContentItem struct {
	ID          string     `json:"post_id"`
	Platform    string     `json:"platform"`
	Keyword     string     `json:"keyword"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Channel     string     `json:"channel"`
	PublishedAt string     `json:"published_at"`
	Views       int64      `json:"views"`
	Likes       int64      `json:"likes"`
	Comments    int64      `json:"comments"`
	BrandHits   brands.Set `json:"brand_hits"`
	Weight      float64    `json:"weight"`
}

// MentionText is the text brand matching runs over.
func (c ContentItem) MentionText() string {
	return c.Title + "\n" + c.Description
}
