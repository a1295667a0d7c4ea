package priority

import (
	"strings"
	"time"

	"github.com/supportdesk/backend/internal/models"
)

// UrgentThreshold is the lowest urgency score labelled Urgent.
const UrgentThreshold = 3

var keywords = []string{
	"urgent", "critical", "immediately", "emergency",
	"cannot access", "blocked", "down", "broken", "not working",
}

// Keywords returns the urgency keywords in evaluation order.
func Keywords() []string {
	return append([]string(nil), keywords...)
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

type Scorer struct {
	clock Clock
}

func NewScorer(clock Clock) *Scorer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scorer{clock: clock}
}

// Score computes the urgency score and label for an email given its
// sentiment.
func (s *Scorer) Score(email models.Email, sentiment models.Sentiment) (int, models.Priority) {
	score := KeywordScore(email.Text()) + SentimentAdjustment(sentiment) + RecencyBonus(s.clock.Now().Sub(email.SentAt))
	return score, Label(score)
}

// KeywordScore counts the distinct urgency keywords present in text.
func KeywordScore(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func SentimentAdjustment(sentiment models.Sentiment) int {
	switch sentiment {
	case models.SentimentNegative:
		return 2
	case models.SentimentPositive:
		return -1
	default:
		return 0
	}
}

// RecencyBonus rewards fresh emails. A negative age (sent in the future
// relative to the clock) counts as fresh.
func RecencyBonus(age time.Duration) int {
	switch {
	case age < time.Hour:
		return 3
	case age < 4*time.Hour:
		return 2
	case age < 12*time.Hour:
		return 1
	default:
		return 0
	}
}

func Label(score int) models.Priority {
	if score >= UrgentThreshold {
		return models.PriorityUrgent
	}
	return models.PriorityNotUrgent
}
