package feedback

import (
	"errors"
	"maps"

	"github.com/dmitrymomot/feedbackmail/pkg/environment"
	"github.com/dmitrymomot/feedbackmail/pkg/sanitizer"
	"github.com/dmitrymomot/feedbackmail/pkg/validator"
)

const (
	maxNameLength    = 200
	maxContentLength = 10000
	maxFieldLength   = 500
)

// Validate checks the submission and returns every violated rule at once.
func (s Submission) Validate() error {
	rules := []validator.Rule{
		validator.Required("submitter.name", s.Submitter.Name),
		validator.MaxLen("submitter.name", s.Submitter.Name, maxNameLength),
		validator.Required("submitter.email", s.Submitter.Email),
		validator.ValidEmail("submitter.email", s.Submitter.Email),
		validator.Required("recipient.name", s.Recipient.Name),
		validator.MaxLen("recipient.name", s.Recipient.Name, maxNameLength),
		validator.Required("recipient.email", s.Recipient.Email),
		validator.ValidEmail("recipient.email", s.Recipient.Email),
		validator.Required("feedback.content", s.Feedback.Content),
		validator.MaxLen("feedback.content", s.Feedback.Content, maxContentLength),
		validator.Between("feedback.rating", s.Feedback.Rating, 1, 5),
		validator.InList("feedback.type", s.Feedback.Type, Types),
		validator.MaxLen("feedback.category", s.Feedback.Category, maxFieldLength),
		validator.Required("context.applicationName", s.Context.ApplicationName),
		validator.MaxLen("context.applicationName", s.Context.ApplicationName, maxNameLength),
		validator.Required("context.featureName", s.Context.FeatureName),
		validator.MaxLen("context.featureName", s.Context.FeatureName, maxNameLength),
	}
	rules = append(rules, validator.When(s.Feedback.Priority != "",
		validator.InList("feedback.priority", s.Feedback.Priority, Priorities))...)
	rules = append(rules, validator.When(s.Context.Environment != "",
		validator.InList("context.environment", s.Context.Environment, environment.All()))...)
	rules = append(rules, validator.When(s.Context.URL != "",
		validator.ValidURL("context.url", s.Context.URL))...)

	if err := validator.Apply(rules...); err != nil {
		return errors.Join(ErrInvalidSubmission, err)
	}
	return nil
}

// sanitized returns a copy with all markup stripped from free-text fields.
func (s Submission) sanitized() Submission {
	s.Submitter.Name = sanitizer.Label(s.Submitter.Name)
	s.Submitter.Email = sanitizer.NormalizeEmail(s.Submitter.Email)
	s.Submitter.Role = sanitizer.Label(s.Submitter.Role)
	s.Submitter.UserID = sanitizer.Trim(s.Submitter.UserID)

	s.Recipient.Name = sanitizer.Label(s.Recipient.Name)
	s.Recipient.Email = sanitizer.NormalizeEmail(s.Recipient.Email)
	s.Recipient.Role = sanitizer.Label(s.Recipient.Role)
	s.Recipient.Team = sanitizer.Label(s.Recipient.Team)

	s.Feedback.Content = sanitizer.PlainText(s.Feedback.Content)
	s.Feedback.Category = sanitizer.Label(s.Feedback.Category)

	s.Context.ApplicationName = sanitizer.Label(s.Context.ApplicationName)
	s.Context.FeatureName = sanitizer.Label(s.Context.FeatureName)
	s.Context.Version = sanitizer.Label(s.Context.Version)
	s.Context.UserAgent = sanitizer.SingleLine(s.Context.UserAgent)
	s.Context.URL = sanitizer.Trim(s.Context.URL)

	if s.Metadata != nil {
		md := *s.Metadata
		md.Tags = sanitizer.CleanStringSlice(md.Tags, sanitizer.Label)
		md.Attachments = sanitizer.CleanStringSlice(md.Attachments, nil)
		md.SessionID = sanitizer.Trim(md.SessionID)
		md.CustomFields = maps.Clone(md.CustomFields)
		s.Metadata = &md
	}
	return s
}

// ValidStatus reports whether s is one of the lifecycle statuses.
func ValidStatus(s Status) bool {
	return validator.Apply(validator.InList("status", s, Statuses)) == nil
}
