package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spacesedan/brandvoice/internal/brands"
	"github.com/spacesedan/brandvoice/internal/metrics"
	"github.com/spacesedan/brandvoice/internal/sentiment"
)

var DefaultBrands = []string{
	"atomberg",
	"havells",
	"crompton",
	"usha",
	"orient electric",
	"bajaj",
	"panasonic",
	"polycab",
	"lg",
	"philips",
	"superfan",
	"v-guard",
}

const DefaultFocalBrand = "atomberg"

type AppConfig struct {
	AppEnv   string
	LogLevel string

	YouTubeAPIKey       string
	MaxResults          int
	MaxCommentsPerVideo int
	FetchConcurrency    int
	DailyQuota          int64

	// Brands is the normalized vocabulary used for both content and comments.
	Brands []string
	// FocalBrand only labels reports; it never changes the aggregation.
	FocalBrand string

	Thresholds  sentiment.Thresholds
	StripMarkup bool
	Weights     metrics.Weights

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool

	KafkaBroker      string
	KafkaResultTopic string
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

type envReader struct {
	errs []error
}

func (r *envReader) int(key string, defaultValue int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be an integer: %w", key, err))
		return defaultValue
	}
	return v
}

func (r *envReader) float(key string, defaultValue float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be a number: %w", key, err))
		return defaultValue
	}
	return v
}

func (r *envReader) bool(key string, defaultValue bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s must be a boolean: %w", key, err))
		return defaultValue
	}
	return v
}

// Load reads the configuration from the environment and validates it.
// The YouTube API key is not required here so that offline commands work;
// use RequireAPIKey before fetching.
func Load() (*AppConfig, error) {
	r := &envReader{}

	cfg := &AppConfig{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		YouTubeAPIKey:       getEnv("YOUTUBE_API_KEY", ""),
		MaxResults:          r.int("MAX_RESULTS", 30),
		MaxCommentsPerVideo: r.int("MAX_COMMENTS_PER_VIDEO", 200),
		FetchConcurrency:    r.int("FETCH_CONCURRENCY", 4),
		DailyQuota:          int64(r.int("YOUTUBE_DAILY_QUOTA", 10000)),

		Brands:     brands.NewVocabulary(splitList(getEnv("BRANDS", strings.Join(DefaultBrands, ",")))),
		FocalBrand: brands.Normalize(strings.TrimSpace(getEnv("FOCAL_BRAND", DefaultFocalBrand))),

		Thresholds: sentiment.Thresholds{
			Positive: r.float("POSITIVE_THRESHOLD", sentiment.DefaultPositiveThreshold),
			Negative: r.float("NEGATIVE_THRESHOLD", sentiment.DefaultNegativeThreshold),
		},
		StripMarkup: r.bool("SENTIMENT_STRIP_MARKUP", false),
		Weights: metrics.Weights{
			Views:    r.float("WEIGHT_VIEWS", metrics.DefaultViewsCoefficient),
			Likes:    r.float("WEIGHT_LIKES", metrics.DefaultLikesCoefficient),
			Comments: r.float("WEIGHT_COMMENTS", metrics.DefaultCommentsCoefficient),
		},

		ValkeyAddress:  getEnv("VALKEY_INIT_ADDRESS", ""),
		ValkeyPassword: getEnv("VALKEY_PASSWORD", ""),
		ValkeyTLS:      r.bool("VALKEY_TLS", false),

		KafkaBroker:      getEnv("KAFKA_BROKER", ""),
		KafkaResultTopic: getEnv("KAFKA_TOPIC_RUN_RESULTS", "brandvoice-run-results"),
	}

	if len(r.errs) > 0 {
		return nil, fmt.Errorf("[Config] invalid environment: %w", errors.Join(r.errs...))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if len(c.Brands) == 0 {
		return errors.New("[Config] BRANDS must name at least one brand")
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("[Config] %w", err)
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("[Config] %w", err)
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("[Config] MAX_RESULTS must be positive, got %d", c.MaxResults)
	}
	if c.MaxCommentsPerVideo < 0 {
		return fmt.Errorf("[Config] MAX_COMMENTS_PER_VIDEO must not be negative, got %d", c.MaxCommentsPerVideo)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("[Config] FETCH_CONCURRENCY must be positive, got %d", c.FetchConcurrency)
	}
	if c.DailyQuota < 0 {
		return fmt.Errorf("[Config] YOUTUBE_DAILY_QUOTA must not be negative, got %d", c.DailyQuota)
	}
	return nil
}

func (c *AppConfig) RequireAPIKey() error {
	if c.YouTubeAPIKey == "" {
		return errors.New("[Config] YOUTUBE_API_KEY is required")
	}
	return nil
}

func splitList(s string) []string {
	return strings.Split(s, ",")
}
