package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/brandvoice/internal/brands"
	"github.com/spacesedan/brandvoice/internal/metrics"
	"github.com/spacesedan/brandvoice/internal/models"
	"github.com/spacesedan/brandvoice/internal/sentiment"
	"golang.org/x/sync/errgroup"
)

// Fetcher is the video platform the pipeline reads from.
type Fetcher interface {
	Search(ctx context.Context, query string, maxResults int, publishedAfter string) ([]string, error)
	VideoStats(ctx context.Context, ids []string) (map[string]models.VideoMeta, error)
	FetchComments(ctx context.Context, videoID string, maxComments int) ([]models.Comment, error)
}

type Options struct {
	Brands              []string
	FocalBrand          string
	Weights             metrics.Weights
	MaxCommentsPerVideo int
	Concurrency         int
}

type Params struct {
	Keywords []string
	TopN     int
	Days     int
}

type Result struct {
	RunID          string
	RunTime        time.Time
	PublishedAfter string
	FocalBrand     string
	Brands         []string
	Keywords       []string
	Params         models.RunParams

	Posts         []models.ContentItem
	BrandComments []models.BrandComment
	SoV           []models.BrandShare
	SPV           []models.BrandSentimentShare
}

func (r *Result) Summary() models.RunSummary {
	return models.RunSummary{
		RunID:        r.RunID,
		RunTime:      r.RunTime,
		FocalBrand:   r.FocalBrand,
		Keywords:     r.Keywords,
		PostCount:    len(r.Posts),
		CommentCount: len(r.BrandComments),
		SoV:          r.SoV,
		SPV:          r.SPV,
	}
}

type Pipeline struct {
	fetcher Fetcher
	labeler *sentiment.Labeler
	opts    Options
	now     func() time.Time
}

func New(fetcher Fetcher, labeler *sentiment.Labeler, opts Options) (*Pipeline, error) {
	if fetcher == nil {
		return nil, errors.New("[Pipeline] fetcher is required")
	}
	if labeler == nil {
		return nil, errors.New("[Pipeline] labeler is required")
	}
	if err := opts.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("[Pipeline] %w", err)
	}

	opts.Brands = brands.NewVocabulary(opts.Brands)
	if len(opts.Brands) == 0 {
		return nil, errors.New("[Pipeline] at least one brand is required")
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	return &Pipeline{
		fetcher: fetcher,
		labeler: labeler,
		opts:    opts,
		now:     time.Now,
	}, nil
}

// keywordBatch is everything fetched for one keyword.
type keywordBatch struct {
	posts    []models.ContentItem
	comments []models.BrandComment
	sov      *metrics.SoVAccumulator
}

// Run fetches the corpus for every keyword and computes SoV and SPV over it.
// Keywords are fetched concurrently; the corpus keeps keyword order, so the
// result does not depend on scheduling. Fetch failures for a single keyword
// or video are logged and skipped. Only cancellation aborts the run.
func (p *Pipeline) Run(ctx context.Context, params Params) (*Result, error) {
	runTime := p.now().UTC()
	publishedAfter := ""
	if params.Days > 0 {
		publishedAfter = runTime.Add(-time.Duration(params.Days) * 24 * time.Hour).Format(time.RFC3339)
	}

	slog.Info("[Pipeline] Starting run",
		slog.Int("keywords", len(params.Keywords)),
		slog.Int("top_n", params.TopN),
		slog.Int("days", params.Days),
		slog.String("focal_brand", p.opts.FocalBrand))

	batches := make([]keywordBatch, len(params.Keywords))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)
	for i, keyword := range params.Keywords {
		i, keyword := i, keyword
		g.Go(func() error {
			batch, err := p.fetchKeyword(gctx, keyword, params.TopN, publishedAfter)
			if err != nil {
				return err
			}
			batches[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("[Pipeline] run aborted: %w", err)
	}

	result := &Result{
		RunID:          uuid.NewString(),
		RunTime:        runTime,
		PublishedAfter: publishedAfter,
		FocalBrand:     p.opts.FocalBrand,
		Brands:         p.opts.Brands,
		Keywords:       params.Keywords,
		Params:         models.RunParams{TopN: params.TopN, Days: params.Days},
	}

	sov := metrics.NewSoVAccumulator()
	for _, batch := range batches {
		result.Posts = append(result.Posts, batch.posts...)
		result.BrandComments = append(result.BrandComments, batch.comments...)
		sov.Merge(batch.sov)
	}

	result.SoV = sov.Result()
	result.SPV = metrics.ComputeSPV(result.BrandComments)

	slog.Info("[Pipeline] Run complete",
		slog.String("run_id", result.RunID),
		slog.Int("posts", len(result.Posts)),
		slog.Int("brand_comments", len(result.BrandComments)),
		slog.Int("sov_brands", len(result.SoV)),
		slog.Int("spv_brands", len(result.SPV)))

	return result, nil
}

func (p *Pipeline) fetchKeyword(ctx context.Context, keyword string, topN int, publishedAfter string) (keywordBatch, error) {
	batch := keywordBatch{sov: metrics.NewSoVAccumulator()}

	ids, err := p.fetcher.Search(ctx, keyword, topN, publishedAfter)
	if err != nil {
		if ctx.Err() != nil {
			return batch, ctx.Err()
		}
		slog.Warn("[Pipeline] Search failed, skipping keyword",
			slog.String("keyword", keyword),
			slog.String("error", err.Error()))
		return batch, nil
	}
	if len(ids) == 0 {
		return batch, nil
	}

	stats, err := p.fetcher.VideoStats(ctx, ids)
	if err != nil {
		if ctx.Err() != nil {
			return batch, ctx.Err()
		}
		slog.Warn("[Pipeline] Failed to fetch video stats, using what was returned",
			slog.String("keyword", keyword),
			slog.String("error", err.Error()))
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		post := p.tagPost(keyword, id, stats[id])
		batch.posts = append(batch.posts, post)
		batch.sov.Add(post.Weight, post.BrandHits)

		if p.opts.MaxCommentsPerVideo <= 0 {
			continue
		}

		comments, err := p.fetcher.FetchComments(ctx, id, p.opts.MaxCommentsPerVideo)
		if err != nil {
			if ctx.Err() != nil {
				return batch, ctx.Err()
			}
			slog.Warn("[Pipeline] Could not fetch comments",
				slog.String("post_id", id),
				slog.String("error", err.Error()))
		}
		batch.comments = append(batch.comments, p.labelComments(id, comments)...)
	}

	slog.Debug("[Pipeline] Keyword fetched",
		slog.String("keyword", keyword),
		slog.Int("posts", len(batch.posts)),
		slog.Int("brand_comments", len(batch.comments)))

	return batch, nil
}

func (p *Pipeline) tagPost(keyword, id string, meta models.VideoMeta) models.ContentItem {
	post := models.ContentItem{
		ID:          id,
		Platform:    models.PlatformYouTube,
		Keyword:     keyword,
		Title:       meta.Title,
		Description: meta.Description,
		Channel:     meta.ChannelTitle,
		PublishedAt: meta.PublishedAt,
		Views:       meta.Views,
		Likes:       meta.Likes,
		Comments:    meta.Comments,
	}
	post.BrandHits = brands.Match(post.MentionText(), p.opts.Brands)
	post.Weight = p.opts.Weights.Weight(post.Views, post.Likes, post.Comments)
	return post
}

// labelComments drops comments that mention no brand and emits one row per
// remaining (comment, brand) pair.
func (p *Pipeline) labelComments(postID string, comments []models.Comment) []models.BrandComment {
	var rows []models.BrandComment
	for _, c := range comments {
		hits := brands.Match(c.Text, p.opts.Brands)
		if hits.IsEmpty() {
			continue
		}

		scores := p.labeler.Label(c.Text)
		for _, brand := range hits {
			rows = append(rows, models.BrandComment{
				PostID:    postID,
				CommentID: c.ID,
				Brand:     brand,
				Text:      c.Text,
				Label:     scores.Label,
				Compound:  scores.Compound,
				Pos:       scores.Pos,
				Neg:       scores.Neg,
				Neu:       scores.Neu,
			})
		}
	}
	return rows
}
