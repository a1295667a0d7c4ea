package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/supportdesk/backend/internal/classify"
	"github.com/supportdesk/backend/internal/extract"
	"github.com/supportdesk/backend/internal/models"
	"github.com/supportdesk/backend/internal/priority"
	"github.com/supportdesk/backend/internal/queue"
	"github.com/supportdesk/backend/internal/response"
	"github.com/supportdesk/backend/internal/sentiment"
)

var ErrEmptyResponse = errors.New("response text is empty")

// Outcome values reported per email.
const (
	OutcomeProcessed = "processed"
	OutcomeFiltered  = "filtered"
	OutcomeFailed    = "failed"
)

var supportKeywords = []string{"support", "query", "request", "help", "assist", "issue", "problem"}

// Hooks are optional callbacks fired as the service works. Nil fields are
// skipped.
type Hooks struct {
	OnEmail    func(outcome string, item *models.Item, duration float64)
	OnIngest   func(summary IngestSummary, duration float64)
	OnMutation func(op string)
	OnQueueLen func(n int)
}

type Options struct {
	Scorer    sentiment.Scorer
	Clock     priority.Clock
	Responses response.Config
	Logger    zerolog.Logger
	Hooks     Hooks
}

type Failure struct {
	EmailID string `json:"email_id"`
	Reason  string `json:"reason"`
}

type IngestSummary struct {
	Received  int       `json:"received"`
	Processed int       `json:"processed"`
	Filtered  int       `json:"filtered"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
}

type TriageService struct {
	queue      *queue.Queue
	classifier *sentiment.Classifier
	urgency    *priority.Scorer
	composer   *response.Composer
	validate   *validator.Validate
	clock      priority.Clock
	logger     zerolog.Logger
	hooks      Hooks

	// ingestMu serializes batches so sequence order follows batch order.
	ingestMu sync.Mutex
}

func New(opts Options) *TriageService {
	clock := opts.Clock
	if clock == nil {
		clock = priority.SystemClock{}
	}
	scorer := opts.Scorer
	if scorer == nil {
		scorer = sentiment.NewLexiconScorer()
	}
	cfg := opts.Responses
	if cfg.Knowledge == nil {
		cfg = response.DefaultConfig()
	}
	return &TriageService{
		queue:      queue.New(),
		classifier: sentiment.NewClassifier(scorer),
		urgency:    priority.NewScorer(clock),
		composer:   response.NewComposer(cfg),
		validate:   validator.New(),
		clock:      clock,
		logger:     opts.Logger,
		hooks:      opts.Hooks,
	}
}

// Ingest triages emails and appends the results to the queue. A failing
// email is recorded and skipped; only cancellation stops the batch, and the
// emails triaged before it are kept.
func (s *TriageService) Ingest(ctx context.Context, emails []models.Email) (IngestSummary, error) {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	items, summary, err := s.triage(ctx, emails)
	for _, it := range items {
		s.queue.Insert(it)
	}
	s.reportLen()
	return summary, err
}

// Replace triages a fresh batch and swaps it in for the current queue. The
// old queue is kept when the batch is cancelled.
func (s *TriageService) Replace(ctx context.Context, emails []models.Email) (IngestSummary, error) {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	items, summary, err := s.triage(ctx, emails)
	if err != nil {
		return summary, err
	}
	s.queue.Replace(items)
	s.reportLen()
	return summary, nil
}

func (s *TriageService) triage(ctx context.Context, emails []models.Email) ([]*models.Item, IngestSummary, error) {
	start := time.Now()
	summary := IngestSummary{Received: len(emails)}
	items := make([]*models.Item, 0, len(emails))

	for _, e := range emails {
		if err := ctx.Err(); err != nil {
			return items, summary, fmt.Errorf("ingest cancelled after %d emails: %w", summary.Processed+summary.Filtered+summary.Failed, err)
		}

		emailStart := time.Now()
		it, err := s.process(ctx, e)
		elapsed := time.Since(emailStart).Seconds()
		switch {
		case err != nil:
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{EmailID: e.ID, Reason: err.Error()})
			s.logger.Warn().Err(err).Str("email_id", e.ID).Msg("email triage failed")
			s.emit(OutcomeFailed, nil, elapsed)
		case it == nil:
			summary.Filtered++
			s.emit(OutcomeFiltered, nil, elapsed)
		default:
			summary.Processed++
			items = append(items, it)
			s.emit(OutcomeProcessed, it, elapsed)
		}
	}

	s.logger.Info().
		Int("received", summary.Received).
		Int("processed", summary.Processed).
		Int("filtered", summary.Filtered).
		Int("failed", summary.Failed).
		Dur("elapsed", time.Since(start)).
		Msg("ingest complete")
	if s.hooks.OnIngest != nil {
		s.hooks.OnIngest(summary, time.Since(start).Seconds())
	}
	return items, summary, nil
}

// process returns a nil item for emails that are not support requests.
func (s *TriageService) process(ctx context.Context, e models.Email) (*models.Item, error) {
	if err := s.validate.Struct(e); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if !IsSupportRequest(e) {
		return nil, nil
	}

	text := e.Text()
	label, score, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	signals := extract.Extract(e.Subject, e.Body, e.Sender)
	signals.Sentiment = label
	category := classify.Classify(text)
	urgency, prio := s.urgency.Score(e, label)
	topic := s.composer.TopicFor(category, text)

	return &models.Item{
		Email:          e,
		Sentiment:      label,
		SentimentScore: score,
		UrgencyScore:   urgency,
		Priority:       prio,
		Category:       category,
		Signals:        signals,
		Response:       s.composer.ComposeFor(category, topic, label),
		Status:         models.StatusPending,
		ProcessedAt:    s.clock.Now().UTC(),
	}, nil
}

// IsSupportRequest reports whether the subject or body mentions one of the
// support keywords.
func IsSupportRequest(e models.Email) bool {
	subject := strings.ToLower(e.Subject)
	body := strings.ToLower(e.Body)
	for _, kw := range supportKeywords {
		if strings.Contains(subject, kw) || strings.Contains(body, kw) {
			return true
		}
	}
	return false
}

func (s *TriageService) OrderedView() []models.Item {
	return s.queue.OrderedView()
}

func (s *TriageService) FilterByPriority(p models.Priority) []models.Item {
	return s.queue.FilterByPriority(p)
}

func (s *TriageService) ItemAt(rank int) (models.Item, error) {
	return s.queue.ItemAt(rank)
}

func (s *TriageService) Get(id string) (models.Item, bool) {
	return s.queue.Get(id)
}

func (s *TriageService) Len() int {
	return s.queue.Len()
}

func (s *TriageService) MarkResolved(rank int) (models.Item, error) {
	it, err := s.queue.MarkResolved(rank)
	if err != nil {
		return models.Item{}, err
	}
	s.logger.Info().Str("email_id", it.ID).Int("rank", rank).Msg("email resolved")
	s.mutated("resolve")
	return it, nil
}

// EditResponse replaces the drafted reply. Blank text is rejected and the
// existing reply is kept.
func (s *TriageService) EditResponse(rank int, text string) (models.Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Item{}, ErrEmptyResponse
	}
	it, err := s.queue.EditResponse(rank, text)
	if err != nil {
		return models.Item{}, err
	}
	s.logger.Info().Str("email_id", it.ID).Int("rank", rank).Msg("response edited")
	s.mutated("edit_response")
	return it, nil
}

// Analytics summarizes the current queue.
func (s *TriageService) Analytics() models.Analytics {
	a := models.Analytics{
		BySentiment: map[models.Sentiment]int{
			models.SentimentPositive: 0,
			models.SentimentNegative: 0,
			models.SentimentNeutral:  0,
		},
		ByPriority: map[models.Priority]int{
			models.PriorityUrgent:    0,
			models.PriorityNotUrgent: 0,
		},
		ByCategory: map[models.Category]int{},
	}
	for _, c := range models.Categories() {
		a.ByCategory[c] = 0
	}

	for _, it := range s.queue.OrderedView() {
		a.Total++
		if it.Status == models.StatusResolved {
			a.Resolved++
		}
		a.BySentiment[it.Sentiment]++
		a.ByPriority[it.Priority]++
		a.ByCategory[it.Category]++
	}
	a.Pending = a.Total - a.Resolved
	return a
}

func (s *TriageService) emit(outcome string, it *models.Item, duration float64) {
	if s.hooks.OnEmail != nil {
		s.hooks.OnEmail(outcome, it, duration)
	}
}

func (s *TriageService) mutated(op string) {
	if s.hooks.OnMutation != nil {
		s.hooks.OnMutation(op)
	}
}

func (s *TriageService) reportLen() {
	if s.hooks.OnQueueLen != nil {
		s.hooks.OnQueueLen(s.queue.Len())
	}
}
