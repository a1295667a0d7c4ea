// Package sentiment turns a pluggable polarity score into the three-way
// label used by triage.
package sentiment

import (
	"context"
	"fmt"

	"github.com/supportdesk/backend/internal/models"
)

const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Scorer returns a compound polarity score in [-1, 1] for text.
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(ctx context.Context, text string) (float64, error)

func (f ScorerFunc) Score(ctx context.Context, text string) (float64, error) {
	return f(ctx, text)
}

type Classifier struct {
	scorer Scorer
}

func NewClassifier(scorer Scorer) *Classifier {
	return &Classifier{scorer: scorer}
}

// Classify scores text and maps the score to a label. Out of range scores
// are clamped before labelling.
func (c *Classifier) Classify(ctx context.Context, text string) (models.Sentiment, float64, error) {
	score, err := c.scorer.Score(ctx, text)
	if err != nil {
		return "", 0, fmt.Errorf("score sentiment: %w", err)
	}
	score = clamp(score)
	return Label(score), score, nil
}

// Label maps a compound score to a sentiment label.
func Label(score float64) models.Sentiment {
	switch {
	case score >= PositiveThreshold:
		return models.SentimentPositive
	case score <= NegativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func clamp(score float64) float64 {
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
