package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/brandvoice/internal/models"
	"github.com/spacesedan/brandvoice/internal/utils"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

type YouTubeClient struct {
	Service *youtube.Service
	Quota   QuotaTracker

	initialBackoff time.Duration
	maxBackoff     time.Duration
}

func NewYouTubeClient(ctx context.Context, apiKey string, quota QuotaTracker, opts ...option.ClientOption) (*YouTubeClient, error) {
	if apiKey == "" {
		return nil, errors.New("[YouTubeClient] API key is missing")
	}

	opts = append([]option.ClientOption{
		option.WithAPIKey(apiKey),
		option.WithUserAgent(USER_AGENT),
	}, opts...)

	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("[YouTubeClient] failed to create service: %w", err)
	}

	if quota == nil {
		quota = NewMemoryQuota(0)
	}

	slog.Info("[YouTubeClient] Client initialized")
	return &YouTubeClient{
		Service:        svc,
		Quota:          quota,
		initialBackoff: INITIAL_BACKOFF,
		maxBackoff:     MAX_BACKOFF,
	}, nil
}

// SetBackoff overrides the retry backoff bounds.
func (yc *YouTubeClient) SetBackoff(initial, ceiling time.Duration) {
	yc.initialBackoff = initial
	yc.maxBackoff = ceiling
}

// Search returns the IDs of videos matching query, most relevant first.
// publishedAfter is an RFC 3339 timestamp and may be empty.
func (yc *YouTubeClient) Search(ctx context.Context, query string, maxResults int, publishedAfter string) ([]string, error) {
	if maxResults > YOUTUBE_MAX_SEARCH_RESULTS {
		maxResults = YOUTUBE_MAX_SEARCH_RESULTS
	}
	if maxResults < 1 {
		return nil, nil
	}

	var resp *youtube.SearchListResponse
	err := yc.call(ctx, "search", QUOTA_COST_SEARCH, func() error {
		call := yc.Service.Search.List([]string{"id", "snippet"}).
			Q(query).
			Type("video").
			MaxResults(int64(maxResults)).
			Order("relevance")
		if publishedAfter != "" {
			call = call.PublishedAfter(publishedAfter)
		}

		var err error
		resp, err = call.Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("[YouTubeClient] search for %q failed: %w", query, err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, item.Id.VideoId)
	}

	slog.Debug("[YouTubeClient] Search complete",
		slog.String("query", query),
		slog.Int("videos", len(ids)))
	return ids, nil
}

// VideoStats fetches snippet and statistics for the given videos keyed by
// video ID. Videos the API does not return are absent from the map.
func (yc *YouTubeClient) VideoStats(ctx context.Context, ids []string) (map[string]models.VideoMeta, error) {
	out := make(map[string]models.VideoMeta, len(ids))

	for _, chunk := range utils.Chunk(ids, YOUTUBE_MAX_VIDEO_IDS) {
		var resp *youtube.VideoListResponse
		err := yc.call(ctx, "videos", QUOTA_COST_LIST, func() error {
			var err error
			resp, err = yc.Service.Videos.List([]string{"statistics", "snippet"}).
				Id(chunk...).
				Context(ctx).
				Do()
			return err
		})
		if err != nil {
			return out, fmt.Errorf("[YouTubeClient] failed to fetch video stats: %w", err)
		}

		for _, video := range resp.Items {
			out[video.Id] = videoToMeta(video)
		}
	}

	return out, nil
}

// FetchComments pages through the top-level comments of a video until
// maxComments are collected or the pages run out. Comments fetched before an
// error are returned along with it.
func (yc *YouTubeClient) FetchComments(ctx context.Context, videoID string, maxComments int) ([]models.Comment, error) {
	var comments []models.Comment
	pageToken := ""

	for len(comments) < maxComments {
		var resp *youtube.CommentThreadListResponse
		err := yc.call(ctx, "commentThreads", QUOTA_COST_LIST, func() error {
			call := yc.Service.CommentThreads.List([]string{"snippet"}).
				VideoId(videoID).
				MaxResults(YOUTUBE_COMMENT_PAGE_SIZE).
				TextFormat("plainText").
				Order("relevance")
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}

			var err error
			resp, err = call.Context(ctx).Do()
			return err
		})
		if err != nil {
			return comments, fmt.Errorf("[YouTubeClient] could not fetch comments for video %s: %w", videoID, err)
		}

		for _, thread := range resp.Items {
			comments = append(comments, threadToComment(videoID, thread))
			if len(comments) >= maxComments {
				break
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return comments, nil
}

// call runs one request, retrying rate limits and server errors with
// exponential backoff. YouTube charges quota for failed requests too, so every
// attempt is booked before it is sent.
func (yc *YouTubeClient) call(ctx context.Context, endpoint string, cost int64, do func() error) error {
	backoff := yc.initialBackoff
	for attempt := 1; ; attempt++ {
		ok, err := yc.Quota.Reserve(ctx, cost)
		if err != nil {
			slog.Warn("[YouTubeClient] Quota tracker unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else if !ok {
			slog.Warn("[YouTubeClient] Skipping request, daily quota exhausted",
				slog.String("endpoint", endpoint),
				slog.Int("attempt", attempt))
			return ErrQuotaExhausted
		}

		err = do()
		if err == nil {
			return nil
		}
		if !isRetryable(err) || attempt >= MAX_RETRIES {
			return err
		}

		slog.Warn("[YouTubeClient] Request failed, retrying with backoff",
			slog.String("endpoint", endpoint),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > yc.maxBackoff {
			backoff = yc.maxBackoff
		}
	}
}

func isRetryable(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
}

func videoToMeta(v *youtube.Video) models.VideoMeta {
	var meta models.VideoMeta
	if v.Snippet != nil {
		meta.Title = v.Snippet.Title
		meta.Description = v.Snippet.Description
		meta.ChannelTitle = v.Snippet.ChannelTitle
		meta.PublishedAt = v.Snippet.PublishedAt
	}
	if v.Statistics != nil {
		meta.Views = int64(v.Statistics.ViewCount)
		meta.Likes = int64(v.Statistics.LikeCount)
		meta.Comments = int64(v.Statistics.CommentCount)
	}
	return meta
}

func threadToComment(videoID string, thread *youtube.CommentThread) models.Comment {
	c := models.Comment{ID: thread.Id, PostID: videoID}
	if thread.Snippet == nil || thread.Snippet.TopLevelComment == nil || thread.Snippet.TopLevelComment.Snippet == nil {
		return c
	}

	top := thread.Snippet.TopLevelComment.Snippet
	c.Text = top.TextDisplay
	c.Author = top.AuthorDisplayName
	c.LikeCount = top.LikeCount
	c.PublishedAt = top.PublishedAt
	return c
}
