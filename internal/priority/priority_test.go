package priority

import (
	"testing"
	"time"

	"github.com/supportdesk/backend/internal/models"
)

var now = time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC)

func TestScoreUrgentExample(t *testing.T) {
	s := NewScorer(FixedClock{At: now})
	email := models.Email{
		ID:      "email_1",
		Sender:  "sam@example.com",
		Subject: "URGENT: cannot access account",
		Body:    "The dashboard is broken since this morning.",
		SentAt:  now.Add(-30 * time.Minute),
	}
	score, label := s.Score(email, models.SentimentNegative)
	// urgent, cannot access, broken = 3; negative +2; under an hour +3
	if score != 8 {
		t.Fatalf("expected score 8, got %d", score)
	}
	if score < 7 || label != models.PriorityUrgent {
		t.Fatalf("expected urgent with score >= 7, got %d %s", score, label)
	}
}

func TestScoreCanBeNegative(t *testing.T) {
	s := NewScorer(FixedClock{At: now})
	email := models.Email{Subject: "Thanks", Body: "All good", SentAt: now.Add(-48 * time.Hour)}
	score, label := s.Score(email, models.SentimentPositive)
	if score != -1 || label != models.PriorityNotUrgent {
		t.Fatalf("expected -1 not urgent, got %d %s", score, label)
	}
}

func TestRecencyBonus(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want int
	}{
		{-time.Hour, 3},
		{0, 3},
		{59 * time.Minute, 3},
		{time.Hour, 2},
		{4*time.Hour - time.Second, 2},
		{4 * time.Hour, 1},
		{12*time.Hour - time.Second, 1},
		{12 * time.Hour, 0},
		{30 * 24 * time.Hour, 0},
	}
	for _, tt := range tests {
		if got := RecencyBonus(tt.age); got != tt.want {
			t.Fatalf("RecencyBonus(%s): expected %d, got %d", tt.age, tt.want, got)
		}
	}
}

func TestKeywordScoreSubstring(t *testing.T) {
	if got := KeywordScore("Service DOWN and Not Working, critical!"); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := KeywordScore("urgent urgent urgent"); got != 1 {
		t.Fatalf("expected repeated keyword counted once, got %d", got)
	}
}

func TestLabelThreshold(t *testing.T) {
	if Label(2) != models.PriorityNotUrgent {
		t.Fatalf("expected 2 to be not urgent")
	}
	if Label(3) != models.PriorityUrgent {
		t.Fatalf("expected 3 to be urgent")
	}
}

func TestNewScorerDefaultsToSystemClock(t *testing.T) {
	s := NewScorer(nil)
	_, label := s.Score(models.Email{Subject: "hi", SentAt: time.Now()}, models.SentimentNeutral)
	if label != models.PriorityUrgent {
		t.Fatalf("expected fresh email to get the recency bonus, got %s", label)
	}
}
