// Package extract pulls contact details and stated requirements out of
// free-text support emails.
package extract

import (
	"regexp"
	"strings"

	"github.com/supportdesk/backend/internal/models"
)

const MaxRequirements = 3

var (
	phonePattern    = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	emailPattern    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	sentenceBreaker = regexp.MustCompile(`[.!?]`)
)

var requirementKeywords = []string{"need", "want", "require", "looking for", "help with"}

// Extract returns the signals found in subject and body. Sentiment is left
// for the caller to fill in.
func Extract(subject, body, sender string) models.Signals {
	text := subject + " " + body
	return models.Signals{
		PhoneNumbers:    PhoneNumbers(text),
		AlternateEmails: AlternateEmails(text, sender),
		Requirements:    Requirements(text),
	}
}

func PhoneNumbers(text string) []string {
	found := phonePattern.FindAllString(text, -1)
	if found == nil {
		return []string{}
	}
	return found
}

// AlternateEmails lists addresses mentioned in text other than sender.
func AlternateEmails(text, sender string) []string {
	sender = strings.ToLower(strings.TrimSpace(sender))
	seen := map[string]struct{}{}
	out := []string{}
	for _, addr := range emailPattern.FindAllString(text, -1) {
		key := strings.ToLower(addr)
		if key == sender {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, addr)
	}
	return out
}

// Requirements returns up to MaxRequirements sentences that state a need,
// in the order they appear.
func Requirements(text string) []string {
	out := []string{}
	for _, sentence := range sentenceBreaker.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" || !hasRequirement(sentence) {
			continue
		}
		out = append(out, sentence)
		if len(out) == MaxRequirements {
			break
		}
	}
	return out
}

func hasRequirement(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, kw := range requirementKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
