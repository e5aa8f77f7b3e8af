package clients

import "time"

const (
	MAX_RETRIES     = 5
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
	USER_AGENT      = "brandvoice-client/1.0 (+https://github.com/spacesedan/brandvoice)"
)

// YouTube Data API quota costs in units.
const (
	QUOTA_COST_SEARCH = 100
	QUOTA_COST_LIST   = 1
)

const (
	YOUTUBE_MAX_SEARCH_RESULTS = 50
	YOUTUBE_MAX_VIDEO_IDS      = 50
	YOUTUBE_COMMENT_PAGE_SIZE  = 100
)
