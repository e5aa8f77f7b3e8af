package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"BRANDS", "FOCAL_BRAND", "POSITIVE_THRESHOLD", "NEGATIVE_THRESHOLD",
		"WEIGHT_VIEWS", "WEIGHT_LIKES", "WEIGHT_COMMENTS", "MAX_RESULTS", "MAX_COMMENTS_PER_VIDEO",
		"FETCH_CONCURRENCY", "YOUTUBE_DAILY_QUOTA", "SENTIMENT_STRIP_MARKUP", "VALKEY_TLS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBrands, cfg.Brands)
	assert.Equal(t, "atomberg", cfg.FocalBrand)
	assert.Equal(t, 0.05, cfg.Thresholds.Positive)
	assert.Equal(t, -0.05, cfg.Thresholds.Negative)
	assert.Equal(t, 1.0, cfg.Weights.Views)
	assert.Equal(t, 2.0, cfg.Weights.Likes)
	assert.Equal(t, 3.0, cfg.Weights.Comments)
	assert.Equal(t, 30, cfg.MaxResults)
	assert.Equal(t, 200, cfg.MaxCommentsPerVideo)
	assert.Equal(t, int64(10000), cfg.DailyQuota)
	assert.False(t, cfg.StripMarkup)
	assert.False(t, cfg.ValkeyTLS)
}

func TestLoad_ValkeyTLSAcceptsBooleanForms(t *testing.T) {
	for _, raw := range []string{"1", "TRUE", "true", " True "} {
		t.Setenv("VALKEY_TLS", raw)
		cfg, err := Load()
		require.NoError(t, err, raw)
		assert.True(t, cfg.ValkeyTLS, raw)
	}

	t.Setenv("VALKEY_TLS", "0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.ValkeyTLS)

	t.Setenv("VALKEY_TLS", "sometimes")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_BrandListIsNormalized(t *testing.T) {
	t.Setenv("BRANDS", " Atomberg, LG ,atomberg,,Orient Electric")
	t.Setenv("FOCAL_BRAND", "LG")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"atomberg", "lg", "orient electric"}, cfg.Brands)
	assert.Equal(t, "lg", cfg.FocalBrand)
}

func TestLoad_InvertedThresholdsFailFast(t *testing.T) {
	t.Setenv("POSITIVE_THRESHOLD", "-0.2")
	t.Setenv("NEGATIVE_THRESHOLD", "0.2")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MalformedNumber(t *testing.T) {
	t.Setenv("MAX_RESULTS", "thirty")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_RESULTS")
}

func TestLoad_NegativeWeight(t *testing.T) {
	t.Setenv("WEIGHT_LIKES", "-2")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EmptyVocabulary(t *testing.T) {
	t.Setenv("BRANDS", " , ")

	_, err := Load()
	assert.Error(t, err)
}

func TestRequireAPIKey(t *testing.T) {
	cfg := &AppConfig{}
	assert.Error(t, cfg.RequireAPIKey())

	cfg.YouTubeAPIKey = "key"
	assert.NoError(t, cfg.RequireAPIKey())
}
