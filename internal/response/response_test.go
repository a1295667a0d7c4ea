package response

import (
	"strings"
	"testing"

	"github.com/supportdesk/backend/internal/models"
)

var sentiments = []models.Sentiment{models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral}

func TestComposeStructure(t *testing.T) {
	c := NewComposer(DefaultConfig())
	got := c.Compose(models.CategoryBilling, models.SentimentNegative)

	if !strings.HasPrefix(got, "Thank you for bringing this to our attention.") {
		t.Fatalf("expected negative greeting, got %q", got)
	}
	if !strings.Contains(got, "Regarding your billing: Billing issues are handled by our finance team.") {
		t.Fatalf("expected billing knowledge paragraph, got %q", got)
	}
	if !strings.HasSuffix(got, "Best regards,\nSupport Team") {
		t.Fatalf("expected signature, got %q", got)
	}
}

func TestComposeGeneralUsesFallback(t *testing.T) {
	c := NewComposer(DefaultConfig())
	got := c.Compose(models.CategoryGeneral, models.SentimentNeutral)
	if !strings.Contains(got, "Regarding your general: Our team is looking into your request") {
		t.Fatalf("expected fallback knowledge, got %q", got)
	}
}

func TestComposeAccountLabel(t *testing.T) {
	c := NewComposer(DefaultConfig())
	got := c.Compose(models.CategoryAccountIssues, models.SentimentPositive)
	if !strings.Contains(got, "Regarding your account issues: Account verification emails") {
		t.Fatalf("expected account issues paragraph, got %q", got)
	}
}

func TestRoundTrip(t *testing.T) {
	c := NewComposer(DefaultConfig())
	for _, cat := range models.Categories() {
		for _, s := range sentiments {
			p, ok := c.Parse(c.Compose(cat, s))
			if !ok {
				t.Fatalf("failed to parse reply for %s/%s", cat, s)
			}
			if p.Category != cat || p.Sentiment != s {
				t.Fatalf("expected %s/%s, got %s/%s", cat, s, p.Category, p.Sentiment)
			}
		}
	}
}

func TestRoundTripTopics(t *testing.T) {
	c := NewComposer(DefaultConfig())
	topics := []Topic{TopicLoginIssues, TopicPasswordReset, TopicSubscription}
	for _, topic := range topics {
		p, ok := c.Parse(c.ComposeFor(models.CategoryAccountIssues, topic, models.SentimentNeutral))
		if !ok || p.Topic != topic {
			t.Fatalf("expected topic %s, got %+v ok=%v", topic, p, ok)
		}
	}
}

func TestParseRejectsFreeText(t *testing.T) {
	c := NewComposer(DefaultConfig())
	if _, ok := c.Parse("Hi, we fixed it.\n\nCheers"); ok {
		t.Fatalf("expected free text to be rejected")
	}
	if _, ok := c.Parse(""); ok {
		t.Fatalf("expected empty text to be rejected")
	}
}

func TestTopicFor(t *testing.T) {
	c := NewComposer(DefaultConfig())
	tests := []struct {
		cat  models.Category
		text string
		want Topic
	}{
		{models.CategoryAccountIssues, "Cannot login to my account", TopicLoginIssues},
		{models.CategoryAccountIssues, "Password reset link expired, login fails", TopicPasswordReset},
		{models.CategoryAccountIssues, "Please verify my account", TopicAccountVerification},
		{models.CategoryBilling, "Question about my subscription plan", TopicSubscription},
		{models.CategoryBilling, "Wrong charge on invoice", TopicBillingErrors},
		{models.CategoryTechnical, "API down, login broken", TopicAPIIntegration},
		{models.CategoryGeneral, "just a question", ""},
	}
	for _, tt := range tests {
		if got := c.TopicFor(tt.cat, tt.text); got != tt.want {
			t.Fatalf("TopicFor(%s, %q): expected %q, got %q", tt.cat, tt.text, tt.want, got)
		}
	}
}

func TestNewComposerCopiesConfig(t *testing.T) {
	cfg := DefaultConfig()
	c := NewComposer(cfg)
	cfg.Knowledge[TopicBillingErrors] = "changed"
	if strings.Contains(c.Compose(models.CategoryBilling, models.SentimentNeutral), "changed") {
		t.Fatalf("composer observed a change to the caller's config")
	}
}
