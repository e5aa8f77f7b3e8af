package sentiment

import (
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

const (
	LabelPositive = "positive"
	LabelNeutral  = "neutral"
	LabelNegative = "negative"
)

const (
	DefaultPositiveThreshold = 0.05
	DefaultNegativeThreshold = -0.05
)

var (
	analyzer    = govader.NewSentimentIntensityAnalyzer()
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

type Thresholds struct {
	Positive float64
	Negative float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Positive: DefaultPositiveThreshold,
		Negative: DefaultNegativeThreshold,
	}
}

func (t Thresholds) Validate() error {
	if math.IsNaN(t.Positive) || math.IsNaN(t.Negative) {
		return fmt.Errorf("[Sentiment] thresholds must be numbers")
	}
	if t.Positive < t.Negative {
		return fmt.Errorf("[Sentiment] positive threshold %v is below negative threshold %v",
			t.Positive, t.Negative)
	}
	return nil
}

// Scores holds the VADER compound score, its lexicon sub-scores and the
// bucketed label.
type Scores struct {
	Compound float64 `json:"compound"`
	Pos      float64 `json:"pos"`
	Neg      float64 `json:"neg"`
	Neu      float64 `json:"neu"`
	Label    string  `json:"label"`
}

type Labeler struct {
	thresholds  Thresholds
	stripMarkup bool
}

type Option func(*Labeler)

// WithMarkupStripping converts markdown to plain text and drops links before
// scoring.
func WithMarkupStripping(enabled bool) Option {
	return func(l *Labeler) {
		l.stripMarkup = enabled
	}
}

func NewLabeler(t Thresholds, opts ...Option) (*Labeler, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	l := &Labeler{thresholds: t}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *Labeler) Thresholds() Thresholds {
	return l.thresholds
}

// Bucket maps a compound score to a label. Both cutoffs are inclusive.
func (l *Labeler) Bucket(compound float64) string {
	switch {
	case compound >= l.thresholds.Positive:
		return LabelPositive
	case compound <= l.thresholds.Negative:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

func (l *Labeler) Label(text string) Scores {
	if l.stripMarkup {
		text = ConvertMarkdownToText(text)
	}

	var scores Scores
	if strings.TrimSpace(text) != "" {
		sentiment := analyzer.PolarityScores(text)
		scores = Scores{
			Compound: sentiment.Compound,
			Pos:      sentiment.Positive,
			Neg:      sentiment.Negative,
			Neu:      sentiment.Neutral,
		}
	}

	scores.Label = l.Bucket(scores.Compound)
	return scores
}

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plainText := strings.Join(strings.Fields(stripTags(string(output))), " ")

	return RemoveLinks(plainText)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func stripTags(markup string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(markup, " "))
}
