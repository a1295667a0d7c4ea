package models

import "time"

type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

type Priority string

const (
	PriorityUrgent    Priority = "Urgent"
	PriorityNotUrgent Priority = "Not urgent"
)

// Category values are listed in enumeration order. Classification ties
// resolve to the earliest one.
type Category string

const (
	CategoryAccountIssues Category = "account_issues"
	CategoryBilling       Category = "billing"
	CategoryTechnical     Category = "technical"
	CategoryGeneral       Category = "general"
)

// Categories returns the taxonomy in enumeration order.
func Categories() []Category {
	return []Category{CategoryAccountIssues, CategoryBilling, CategoryTechnical, CategoryGeneral}
}

// Label renders a category the way operators read it, e.g. "account issues".
func (c Category) Label() string {
	switch c {
	case CategoryAccountIssues:
		return "account issues"
	case CategoryBilling:
		return "billing"
	case CategoryTechnical:
		return "technical"
	case CategoryGeneral:
		return "general"
	default:
		return string(c)
	}
}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusResolved Status = "Resolved"
)

type Email struct {
	ID      string    `json:"id" validate:"required"`
	Sender  string    `json:"sender" validate:"required,email"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at" validate:"required"`
}

// Text is the combined subject and body every classifier works on.
func (e Email) Text() string {
	return e.Subject + " " + e.Body
}

type Signals struct {
	PhoneNumbers    []string  `json:"phone_numbers"`
	AlternateEmails []string  `json:"alternate_emails"`
	Requirements    []string  `json:"requirements"`
	Sentiment       Sentiment `json:"sentiment"`
}

// Item is a triaged email. Only Response and Status change after insertion.
type Item struct {
	Email
	Sentiment      Sentiment `json:"sentiment"`
	SentimentScore float64   `json:"sentiment_score"`
	UrgencyScore   int       `json:"urgency_score"`
	Priority       Priority  `json:"priority"`
	Category       Category  `json:"category"`
	Signals        Signals   `json:"extracted_info"`
	Response       string    `json:"generated_response"`
	Status         Status    `json:"status"`
	Sequence       uint64    `json:"-"`
	ProcessedAt    time.Time `json:"processed_at"`
}

type Analytics struct {
	Total       int               `json:"total"`
	Resolved    int               `json:"resolved"`
	Pending     int               `json:"pending"`
	BySentiment map[Sentiment]int `json:"by_sentiment"`
	ByPriority  map[Priority]int  `json:"by_priority"`
	ByCategory  map[Category]int  `json:"by_category"`
}
