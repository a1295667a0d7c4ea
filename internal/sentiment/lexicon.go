package sentiment

import (
	"context"

	"github.com/jonreiter/govader"
)

// LexiconScorer uses the VADER lexicon and rules.
type LexiconScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (l *LexiconScorer) Score(_ context.Context, text string) (float64, error) {
	return l.analyzer.PolarityScores(text).Compound, nil
}
