// Package response drafts replies from fixed templates keyed on sentiment
// tone and a knowledge base topic.
package response

import (
	"strings"

	"github.com/supportdesk/backend/internal/models"
)

type Topic string

const (
	TopicAccountVerification Topic = "account_verification"
	TopicLoginIssues         Topic = "login_issues"
	TopicBillingErrors       Topic = "billing_errors"
	TopicAPIIntegration      Topic = "api_integration"
	TopicSubscription        Topic = "subscription"
	TopicPasswordReset       Topic = "password_reset"
)

type Tone struct {
	Greeting string
	Empathy  string
}

// Config holds everything a Composer renders from. NewComposer copies it, so
// later changes to the caller's maps are not observed.
type Config struct {
	Tones     map[models.Sentiment]Tone
	Knowledge map[Topic]string
	// Topics maps a category to its default knowledge topic. Categories
	// without an entry use Fallback.
	Topics    map[models.Category]Topic
	Fallback  string
	Closing   string
	Signature string
}

func DefaultConfig() Config {
	return Config{
		Tones: map[models.Sentiment]Tone{
			models.SentimentNegative: {
				Greeting: "Thank you for bringing this to our attention. We sincerely apologize for the inconvenience you've experienced.",
				Empathy:  "We understand your frustration and are committed to resolving this issue promptly.",
			},
			models.SentimentPositive: {
				Greeting: "Thank you for reaching out to us! We appreciate your feedback.",
				Empathy:  "We're glad to hear from you and are happy to assist.",
			},
			models.SentimentNeutral: {
				Greeting: "Thank you for contacting our support team.",
				Empathy:  "We're here to help and will address your inquiry promptly.",
			},
		},
		Knowledge: map[Topic]string{
			TopicAccountVerification: "Account verification emails are sent immediately after registration. If not received, check spam folder or request a new verification link.",
			TopicLoginIssues:         "Common login issues include incorrect passwords, browser cache problems, or account lockouts. Try resetting password or clearing browser cache.",
			TopicBillingErrors:       "Billing issues are handled by our finance team. Refunds typically process within 5-7 business days after approval.",
			TopicAPIIntegration:      "We support REST API integration with comprehensive documentation available at api.docs.example.com.",
			TopicSubscription:        "We offer Basic ($29/mo), Pro ($79/mo), and Enterprise ($199/mo) plans. All include 24/7 support and API access.",
			TopicPasswordReset:       "Password reset links expire after 1 hour. If the link doesn't work, request a new one from the login page.",
		},
		Topics: map[models.Category]Topic{
			models.CategoryAccountIssues: TopicAccountVerification,
			models.CategoryBilling:       TopicBillingErrors,
			models.CategoryTechnical:     TopicAPIIntegration,
		},
		Fallback:  "Our team is looking into your request and will provide assistance shortly.",
		Closing:   "Please don't hesitate to reach out if you need any further assistance.",
		Signature: "Best regards,\nSupport Team",
	}
}

type Composer struct {
	cfg Config
}

func NewComposer(cfg Config) *Composer {
	c := cfg
	c.Tones = make(map[models.Sentiment]Tone, len(cfg.Tones))
	for k, v := range cfg.Tones {
		c.Tones[k] = v
	}
	c.Knowledge = make(map[Topic]string, len(cfg.Knowledge))
	for k, v := range cfg.Knowledge {
		c.Knowledge[k] = v
	}
	c.Topics = make(map[models.Category]Topic, len(cfg.Topics))
	for k, v := range cfg.Topics {
		c.Topics[k] = v
	}
	return &Composer{cfg: c}
}

// Compose drafts a reply using the category's default topic.
func (c *Composer) Compose(category models.Category, sentiment models.Sentiment) string {
	return c.ComposeFor(category, c.cfg.Topics[category], sentiment)
}

// ComposeFor drafts a reply for an explicit topic. An empty or unknown topic
// renders the fallback text.
func (c *Composer) ComposeFor(category models.Category, topic Topic, sentiment models.Sentiment) string {
	tone := c.tone(sentiment)
	knowledge, ok := c.cfg.Knowledge[topic]
	if !ok {
		knowledge = c.cfg.Fallback
	}

	parts := []string{
		tone.Greeting,
		tone.Empathy,
		"Regarding your " + category.Label() + ": " + knowledge,
		c.cfg.Closing,
		c.cfg.Signature,
	}
	return strings.Join(parts, "\n\n")
}

func (c *Composer) tone(sentiment models.Sentiment) Tone {
	if t, ok := c.cfg.Tones[sentiment]; ok {
		return t
	}
	return c.cfg.Tones[models.SentimentNeutral]
}

// TopicFor narrows the category's default topic using words in the email
// text. Only account and billing emails have narrower topics.
func (c *Composer) TopicFor(category models.Category, text string) Topic {
	lower := strings.ToLower(text)
	switch category {
	case models.CategoryAccountIssues:
		switch {
		case strings.Contains(lower, "password"), strings.Contains(lower, "reset"):
			return TopicPasswordReset
		case strings.Contains(lower, "login"):
			return TopicLoginIssues
		}
	case models.CategoryBilling:
		if strings.Contains(lower, "subscription") || strings.Contains(lower, "plan") || strings.Contains(lower, "pricing") {
			return TopicSubscription
		}
	}
	return c.cfg.Topics[category]
}

// Parsed is what can be recovered from a composed reply. Topic is empty when
// the reply carried the fallback text.
type Parsed struct {
	Sentiment models.Sentiment
	Category  models.Category
	Topic     Topic
	Knowledge string
}

const regarding = "Regarding your "

// Parse reads back a reply produced by this composer. It reports false for
// text that does not follow the template, such as an operator rewrite.
func (c *Composer) Parse(text string) (Parsed, bool) {
	parts := strings.Split(strings.TrimSpace(text), "\n\n")
	if len(parts) < 3 {
		return Parsed{}, false
	}

	var p Parsed
	found := false
	for s, tone := range c.cfg.Tones {
		if parts[0] == tone.Greeting && parts[1] == tone.Empathy {
			p.Sentiment = s
			found = true
			break
		}
	}
	if !found {
		return Parsed{}, false
	}

	line, ok := strings.CutPrefix(parts[2], regarding)
	if !ok {
		return Parsed{}, false
	}
	label, knowledge, ok := strings.Cut(line, ": ")
	if !ok {
		return Parsed{}, false
	}
	found = false
	for _, cat := range models.Categories() {
		if cat.Label() == label {
			p.Category = cat
			found = true
			break
		}
	}
	if !found {
		return Parsed{}, false
	}

	p.Knowledge = knowledge
	for topic, snippet := range c.cfg.Knowledge {
		if snippet == knowledge {
			p.Topic = topic
			break
		}
	}
	if p.Topic == "" && knowledge != c.cfg.Fallback {
		return Parsed{}, false
	}
	return p, true
}
