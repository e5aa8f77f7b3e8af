package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/spacesedan/brandvoice/internal/metrics"
	"github.com/spacesedan/brandvoice/internal/models"
	"github.com/spacesedan/brandvoice/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fakes ---

type fakeFetcher struct {
	mu            sync.Mutex
	searches      map[string][]string
	searchErrs    map[string]error
	stats         map[string]models.VideoMeta
	comments      map[string][]models.Comment
	commentErrs   map[string]error
	publishedSeen []string
	commentCalls  int
}

func (f *fakeFetcher) Search(ctx context.Context, query string, maxResults int, publishedAfter string) ([]string, error) {
	f.mu.Lock()
	f.publishedSeen = append(f.publishedSeen, publishedAfter)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.searchErrs[query]; err != nil {
		return nil, err
	}
	ids := f.searches[query]
	if len(ids) > maxResults {
		ids = ids[:maxResults]
	}
	return ids, nil
}

func (f *fakeFetcher) VideoStats(_ context.Context, ids []string) (map[string]models.VideoMeta, error) {
	out := make(map[string]models.VideoMeta)
	for _, id := range ids {
		if meta, ok := f.stats[id]; ok {
			out[id] = meta
		}
	}
	return out, nil
}

func (f *fakeFetcher) FetchComments(_ context.Context, videoID string, maxComments int) ([]models.Comment, error) {
	f.mu.Lock()
	f.commentCalls++
	f.mu.Unlock()

	comments := f.comments[videoID]
	if len(comments) > maxComments {
		comments = comments[:maxComments]
	}
	return comments, f.commentErrs[videoID]
}

// --- Helpers ---

var testBrands = []string{"atomberg", "havells", "lg", "bajaj"}

func newTestPipeline(t *testing.T, f Fetcher, maxComments int) *Pipeline {
	t.Helper()
	labeler, err := sentiment.NewLabeler(sentiment.DefaultThresholds())
	require.NoError(t, err)

	p, err := New(f, labeler, Options{
		Brands:              testBrands,
		FocalBrand:          "atomberg",
		Weights:             metrics.DefaultWeights(),
		MaxCommentsPerVideo: maxComments,
		Concurrency:         4,
	})
	require.NoError(t, err)
	p.now = func() time.Time { return time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC) }
	return p
}

func comment(id, text string) models.Comment {
	return models.Comment{ID: id, Text: text}
}

// --- Tests ---

func TestNew_Validation(t *testing.T) {
	labeler, err := sentiment.NewLabeler(sentiment.DefaultThresholds())
	require.NoError(t, err)

	_, err = New(nil, labeler, Options{Brands: testBrands, Weights: metrics.DefaultWeights()})
	assert.Error(t, err)

	_, err = New(&fakeFetcher{}, nil, Options{Brands: testBrands, Weights: metrics.DefaultWeights()})
	assert.Error(t, err)

	_, err = New(&fakeFetcher{}, labeler, Options{Brands: []string{" "}, Weights: metrics.DefaultWeights()})
	assert.Error(t, err)

	_, err = New(&fakeFetcher{}, labeler, Options{Brands: testBrands, Weights: metrics.Weights{Views: -1}})
	assert.Error(t, err)
}

func TestRun_TwoItemSoV(t *testing.T) {
	f := &fakeFetcher{
		searches: map[string][]string{"smart fan": {"item1", "item2"}},
		stats: map[string]models.VideoMeta{
			"item1": {Title: "Atomberg Renesa review", Views: 100, Likes: 10, Comments: 2},
			"item2": {Title: "Best fan?", Description: "We test the HAVELLS Stealth", Views: 50, Likes: 5, Comments: 1},
		},
	}
	p := newTestPipeline(t, f, 0)

	res, err := p.Run(context.Background(), Params{Keywords: []string{"smart fan"}, TopN: 10, Days: 365})
	require.NoError(t, err)

	require.Len(t, res.Posts, 2)
	assert.Equal(t, "youtube", res.Posts[0].Platform)
	assert.Equal(t, "smart fan", res.Posts[0].Keyword)
	assert.True(t, res.Posts[0].BrandHits.Has("atomberg"))
	assert.True(t, res.Posts[1].BrandHits.Has("havells"))

	require.Len(t, res.SoV, 2)
	assert.Equal(t, "atomberg", res.SoV[0].Brand)
	assert.Equal(t, "havells", res.SoV[1].Brand)
	assert.Greater(t, res.SoV[0].Share, res.SoV[1].Share)
	assert.InDelta(t, 1.0, res.SoV[0].Share+res.SoV[1].Share, 1e-9)
	assert.InDelta(t, metrics.DefaultWeights().Weight(100, 10, 2), res.SoV[0].Weight, 1e-12)

	assert.Empty(t, res.SPV)
	assert.Zero(t, f.commentCalls)
	assert.Equal(t, []string{"2024-06-30T12:00:00Z"}, f.publishedSeen)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "atomberg", res.FocalBrand)
}

func TestRun_SPVOnlyObservedBrands(t *testing.T) {
	f := &fakeFetcher{
		searches: map[string][]string{"bldc fan": {"v1"}},
		stats:    map[string]models.VideoMeta{"v1": {Title: "Fan comparison"}},
		comments: map[string][]models.Comment{
			"v1": {
				comment("c1", "LG fan is great, love it"),
				comment("c2", "lg is amazing"),
				comment("c3", "nice video"),
				comment("c4", "lg fan is terrible and awful"),
			},
		},
	}
	p := newTestPipeline(t, f, 200)

	res, err := p.Run(context.Background(), Params{Keywords: []string{"bldc fan"}, TopN: 30})
	require.NoError(t, err)

	require.Len(t, res.BrandComments, 3)
	for _, row := range res.BrandComments {
		assert.Equal(t, "lg", row.Brand)
		assert.Equal(t, "v1", row.PostID)
	}

	require.Len(t, res.SPV, 1)
	assert.Equal(t, "lg", res.SPV[0].Brand)
	assert.Equal(t, 2, res.SPV[0].Pos)
	assert.Equal(t, 1, res.SPV[0].Neg)
	assert.Equal(t, 3, res.SPV[0].Total)
	require.True(t, res.SPV[0].SPV.Valid)
	assert.InDelta(t, 0.667, res.SPV[0].SPV.Value, 1e-3)

	assert.Nil(t, res.SoV)
}

func TestRun_MultiBrandCommentEmitsRowPerBrand(t *testing.T) {
	f := &fakeFetcher{
		searches: map[string][]string{"fan": {"v1"}},
		stats:    map[string]models.VideoMeta{"v1": {}},
		comments: map[string][]models.Comment{
			"v1": {comment("c1", "Atomberg beats Havells easily, love it")},
		},
	}
	p := newTestPipeline(t, f, 10)

	res, err := p.Run(context.Background(), Params{Keywords: []string{"fan"}, TopN: 5})
	require.NoError(t, err)

	require.Len(t, res.BrandComments, 2)
	assert.Equal(t, "atomberg", res.BrandComments[0].Brand)
	assert.Equal(t, "havells", res.BrandComments[1].Brand)
	assert.Equal(t, res.BrandComments[0].Label, res.BrandComments[1].Label)
	assert.Len(t, res.SPV, 2)
}

func TestRun_FailuresAreSkipped(t *testing.T) {
	f := &fakeFetcher{
		searches:   map[string][]string{"ok": {"v1"}},
		searchErrs: map[string]error{"broken": errors.New("quota")},
		stats:      map[string]models.VideoMeta{"v1": {Title: "bajaj fan", Views: 10}},
		comments: map[string][]models.Comment{
			"v1": {comment("c1", "bajaj is good")},
		},
		commentErrs: map[string]error{"v1": errors.New("page 2 failed")},
	}
	p := newTestPipeline(t, f, 10)

	res, err := p.Run(context.Background(), Params{Keywords: []string{"broken", "ok"}, TopN: 5})
	require.NoError(t, err)

	require.Len(t, res.Posts, 1)
	require.Len(t, res.SoV, 1)
	assert.Equal(t, "bajaj", res.SoV[0].Brand)
	assert.InDelta(t, 1.0, res.SoV[0].Share, 1e-12)
	require.Len(t, res.BrandComments, 1, "comments fetched before the error are kept")
}

func TestRun_KeepsKeywordOrder(t *testing.T) {
	f := &fakeFetcher{
		searches: map[string][]string{
			"k1": {"a"}, "k2": {"b"}, "k3": {"c"}, "k4": {"d"}, "k5": {"e"},
		},
		stats: map[string]models.VideoMeta{},
	}
	p := newTestPipeline(t, f, 0)

	res, err := p.Run(context.Background(), Params{Keywords: []string{"k1", "k2", "k3", "k4", "k5"}, TopN: 5})
	require.NoError(t, err)

	var ids []string
	for _, post := range res.Posts {
		ids = append(ids, post.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
	assert.Nil(t, res.SoV, "posts without brand mentions produce no SoV rows")
}

func TestRun_DuplicateVideosAcrossKeywordsCountPerKeyword(t *testing.T) {
	f := &fakeFetcher{
		searches: map[string][]string{"k1": {"v1"}, "k2": {"v1", "v2"}},
		stats: map[string]models.VideoMeta{
			"v1": {Title: "atomberg", Views: 10},
			"v2": {Title: "havells", Views: 10},
		},
	}
	p := newTestPipeline(t, f, 0)

	res, err := p.Run(context.Background(), Params{Keywords: []string{"k1", "k2"}, TopN: 5})
	require.NoError(t, err)

	require.Len(t, res.Posts, 3)
	require.Len(t, res.SoV, 2)
	assert.Equal(t, "atomberg", res.SoV[0].Brand)
	assert.InDelta(t, 2.0/3.0, res.SoV[0].Share, 1e-12)
}

func TestRun_CancelledContext(t *testing.T) {
	f := &fakeFetcher{searches: map[string][]string{"k": {"v"}}}
	p := newTestPipeline(t, f, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx, Params{Keywords: []string{"k"}, TopN: 5})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_NoDaysMeansNoLowerBound(t *testing.T) {
	f := &fakeFetcher{}
	p := newTestPipeline(t, f, 0)

	res, err := p.Run(context.Background(), Params{Keywords: []string{"k"}, TopN: 5})
	require.NoError(t, err)
	assert.Equal(t, "", res.PublishedAfter)
	assert.Equal(t, []string{""}, f.publishedSeen)
}

func TestResult_Summary(t *testing.T) {
	res := &Result{
		RunID:         "r",
		FocalBrand:    "atomberg",
		Posts:         make([]models.ContentItem, 3),
		BrandComments: make([]models.BrandComment, 2),
		SoV:           []models.BrandShare{{Brand: "lg", Share: 1}},
	}

	s := res.Summary()
	assert.Equal(t, 3, s.PostCount)
	assert.Equal(t, 2, s.CommentCount)
	assert.Equal(t, "atomberg", s.FocalBrand)
	assert.Len(t, s.SoV, 1)
}
