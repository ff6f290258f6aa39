package feedback

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/feedbackmail/pkg/async"
	"github.com/dmitrymomot/feedbackmail/pkg/email"
	"github.com/dmitrymomot/feedbackmail/pkg/logger"
	"github.com/dmitrymomot/feedbackmail/pkg/validator"
)

// MaxListLimit is the largest page ListRecent returns.
const MaxListLimit = 500

// Mailer delivers one notification email. *email.Service implements it.
type Mailer interface {
	SendOne(ctx context.Context, p email.Payload) error
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service runs the feedback workflow: persist, notify, review, report.
type Service struct {
	storage Storage
	mailer  Mailer
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(storage Storage, mailer Mailer, cfg Config, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		mailer:  mailer,
		cfg:     cfg,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("feedback"))
	return s
}

// Submit validates and stores a submission, then notifies the submitter and
// the recipient concurrently. Notification failures are reported through
// the delivery flags only; an error is returned solely for invalid input or
// when the record cannot be stored, and in that case nothing was sent.
func (s *Service) Submit(ctx context.Context, sub Submission) (SubmissionResult, error) {
	sub = sub.sanitized()
	if err := sub.Validate(); err != nil {
		return SubmissionResult{Message: "Validation failed", Error: err.Error()}, err
	}

	now := s.now().UTC()
	id := uuid.NewString()
	rec := Record{
		ID:         id,
		TrackingID: trackingID(now, id),
		Submitter:  sub.Submitter,
		Recipient:  sub.Recipient,
		Feedback:   sub.Feedback,
		Context:    sub.Context,
		Metadata:   sub.Metadata,
		Status:     StatusNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.storage.Insert(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "failed to store feedback", logger.Error(err))
		return SubmissionResult{Message: "Failed to submit feedback", Error: "internal_error"}, errors.Join(ErrStorage, err)
	}

	s.logger.InfoContext(ctx, "feedback stored",
		logger.FeedbackID(rec.ID),
		logger.TrackingID(rec.TrackingID),
		slog.String("type", string(rec.Feedback.Type)),
		slog.Int("rating", rec.Feedback.Rating),
	)

	estimate := EstimateResponseTime(rec.Feedback)
	sent := s.notify(ctx, rec, estimate)

	return SubmissionResult{
		Success:               true,
		Message:               "Feedback submitted successfully",
		FeedbackID:            rec.ID,
		TrackingID:            rec.TrackingID,
		EstimatedResponseTime: estimate,
		EmailsSent:            sent,
	}, nil
}

// notify sends both notifications and persists the delivery flags once.
// The record is already stored, so the caller's cancellation must not stop it.
func (s *Service) notify(ctx context.Context, rec Record, estimate string) Delivery {
	ctx = context.WithoutCancel(ctx)

	send := func(ctx context.Context, p email.Payload) (struct{}, error) {
		return struct{}{}, s.mailer.SendOne(ctx, p)
	}
	results := async.SettleAll(
		async.Async(ctx, submitterNotification(rec, s.cfg, estimate), send),
		async.Async(ctx, recipientNotification(rec, s.cfg), send),
	)

	sent := Delivery{
		SubmitterNotified: results[0].OK(),
		RecipientNotified: results[1].OK(),
	}
	for i, party := range []string{"submitter", "recipient"} {
		if err := results[i].Err; err != nil {
			s.logger.WarnContext(ctx, "feedback notification failed",
				logger.FeedbackID(rec.ID),
				slog.String("party", party),
				logger.Error(err),
			)
		}
	}

	if !sent.Any() {
		return sent
	}
	if _, err := s.storage.Update(ctx, rec.ID, Update{EmailsSent: &sent, UpdatedAt: s.now().UTC()}); err != nil {
		s.logger.ErrorContext(ctx, "failed to record notification delivery",
			logger.FeedbackID(rec.ID),
			logger.Error(err),
		)
	}
	return sent
}

// Get returns a single record by id.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.storage.FindByID(ctx, id)
}

// UpdateStatus moves a record to status. The review timestamp and reviewer
// are recorded only for StatusReviewed with a non-empty reviewerID.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status, reviewerID string) (Record, error) {
	if !ValidStatus(status) {
		return Record{}, errors.Join(ErrInvalidStatus, validator.ValidationErrors{{
			Field:   "status",
			Rule:    "in_list",
			Message: "must be one of: new, reviewed, in_progress, resolved, dismissed",
		}})
	}

	now := s.now().UTC()
	u := Update{Status: &status, UpdatedAt: now}
	if status == StatusReviewed && reviewerID != "" {
		u.ReviewedAt = &now
		u.ReviewedBy = &reviewerID
	}

	rec, err := s.storage.Update(ctx, id, u)
	if err != nil {
		return Record{}, err
	}

	s.logger.InfoContext(ctx, "feedback status updated",
		logger.FeedbackID(id),
		slog.String("status", string(status)),
	)
	return rec, nil
}

// ListRecent returns the newest records matching f. A zero limit means DefaultListLimit.
func (s *Service) ListRecent(ctx context.Context, f Filter) ([]Record, error) {
	rules := []validator.Rule{
		validator.Between("limit", f.Limit, 0, MaxListLimit),
	}
	rules = append(rules, validator.When(f.Type != "", validator.InList("type", f.Type, Types))...)
	if f.MinRating != nil {
		rules = append(rules, validator.Between("minRating", *f.MinRating, 1, 5))
	}
	if f.MaxRating != nil {
		rules = append(rules, validator.Between("maxRating", *f.MaxRating, 1, 5))
	}
	if err := validator.Apply(rules...); err != nil {
		return nil, errors.Join(ErrInvalidFilter, err)
	}

	if f.Limit == 0 {
		f.Limit = DefaultListLimit
	}
	return s.storage.Find(ctx, f)
}

// Aggregate counts records per type and averages their rating, optionally
// for a single application. No matching records yields zeroed Stats.
func (s *Service) Aggregate(ctx context.Context, applicationName string) (Stats, error) {
	groups, err := s.storage.CountByType(ctx, applicationName)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	ratingSum := 0
	for _, g := range groups {
		stats.TotalFeedbacks += g.Count
		ratingSum += g.RatingSum
		switch g.Type {
		case TypePositive:
			stats.PositiveCount += g.Count
		case TypeNegative:
			stats.NegativeCount += g.Count
		case TypeSuggestion:
			stats.SuggestionCount += g.Count
		case TypeBug:
			stats.BugCount += g.Count
		case TypeFeatureRequest:
			stats.FeatureRequestCount += g.Count
		}
	}
	if stats.TotalFeedbacks > 0 {
		stats.AverageRating = math.Round(float64(ratingSum)/float64(stats.TotalFeedbacks)*10) / 10
	}
	return stats, nil
}
