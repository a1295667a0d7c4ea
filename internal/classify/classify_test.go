package classify

import (
	"testing"

	"github.com/supportdesk/backend/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Category
	}{
		{"account", "Cannot login, password reset does not arrive", models.CategoryAccountIssues},
		{"billing", "I was charged twice, please refund the payment", models.CategoryBilling},
		{"technical", "API integration returns 500 from your server", models.CategoryTechnical},
		{"general", "A quick question, need some information", models.CategoryGeneral},
		{"case insensitive", "INVOICE and BILLING problem", models.CategoryBilling},
		{"no keywords", "hello there", models.CategoryAccountIssues},
		{"tie billing vs technical", "refund for the api", models.CategoryBilling},
		{"tie technical vs general", "server question", models.CategoryTechnical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Fatalf("expected %s, got %s (scores %v)", tt.want, got, Scores(tt.text))
			}
		})
	}
}

func TestScoresCountKeywordsOnce(t *testing.T) {
	s := Scores("refund refund refund")
	if s[models.CategoryBilling] != 1 {
		t.Fatalf("expected billing score 1, got %d", s[models.CategoryBilling])
	}
	if len(s) != len(models.Categories()) {
		t.Fatalf("expected a score for every category, got %v", s)
	}
}

func TestAllZeroTieIsDeterministic(t *testing.T) {
	for i := 0; i < 20; i++ {
		if got := Classify("nothing relevant"); got != models.CategoryAccountIssues {
			t.Fatalf("expected account_issues on all-zero tie, got %s", got)
		}
	}
}

func TestKeywordsReturnsCopy(t *testing.T) {
	kw := Keywords(models.CategoryBilling)
	kw[0] = "mutated"
	if Keywords(models.CategoryBilling)[0] != "billing" {
		t.Fatalf("taxonomy was mutated through Keywords")
	}
}
