package classify

import (
	"strings"

	"github.com/supportdesk/backend/internal/models"
)

var taxonomy = map[models.Category][]string{
	models.CategoryAccountIssues: {"account", "verify", "verification", "login", "password"},
	models.CategoryBilling:       {"billing", "payment", "charge", "refund", "invoice"},
	models.CategoryTechnical:     {"api", "integration", "technical", "server", "system"},
	models.CategoryGeneral:       {"question", "query", "information", "help"},
}

// Keywords returns the keyword set for a category.
func Keywords(c models.Category) []string {
	return append([]string(nil), taxonomy[c]...)
}

// Scores counts, per category, how many of its keywords appear in text.
func Scores(text string) map[models.Category]int {
	lower := strings.ToLower(text)
	out := make(map[models.Category]int, len(taxonomy))
	for c, keywords := range taxonomy {
		n := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				n++
			}
		}
		out[c] = n
	}
	return out
}

// Classify picks the best scoring category. Ties, including no match at
// all, go to the earliest category in models.Categories order, so an email
// with no keywords is account_issues.
func Classify(text string) models.Category {
	scores := Scores(text)
	order := models.Categories()
	best := order[0]
	for _, c := range order[1:] {
		if scores[c] > scores[best] {
			best = c
		}
	}
	return best
}
