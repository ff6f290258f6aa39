package feedback

import (
	"time"

	"github.com/dmitrymomot/feedbackmail/pkg/environment"
)

// Status is the review lifecycle state of a feedback record.
type Status string

const (
	StatusNew        Status = "new"
	StatusReviewed   Status = "reviewed"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusDismissed  Status = "dismissed"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusNew, StatusReviewed, StatusInProgress, StatusResolved, StatusDismissed}

// Type classifies the feedback content.
type Type string

const (
	TypePositive       Type = "positive"
	TypeNegative       Type = "negative"
	TypeSuggestion     Type = "suggestion"
	TypeBug            Type = "bug"
	TypeFeatureRequest Type = "feature_request"
)

var Types = []Type{TypePositive, TypeNegative, TypeSuggestion, TypeBug, TypeFeatureRequest}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

type Submitter struct {
	Name   string `json:"name" bson:"name"`
	Email  string `json:"email" bson:"email"`
	Role   string `json:"role,omitempty" bson:"role,omitempty"`
	UserID string `json:"userId,omitempty" bson:"userId,omitempty"`
}

type Recipient struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Role  string `json:"role,omitempty" bson:"role,omitempty"`
	Team  string `json:"team,omitempty" bson:"team,omitempty"`
}

// Details is the feedback body itself.
type Details struct {
	Content  string   `json:"content" bson:"content"`
	Rating   int      `json:"rating" bson:"rating"`
	Type     Type     `json:"type" bson:"type"`
	Priority Priority `json:"priority,omitempty" bson:"priority,omitempty"`
	Category string   `json:"category,omitempty" bson:"category,omitempty"`
}

// Origin describes where in which application the feedback was given.
type Origin struct {
	ApplicationName string                  `json:"applicationName" bson:"applicationName"`
	FeatureName     string                  `json:"featureName" bson:"featureName"`
	Version         string                  `json:"version,omitempty" bson:"version,omitempty"`
	Environment     environment.Environment `json:"environment,omitempty" bson:"environment,omitempty"`
	UserAgent       string                  `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	URL             string                  `json:"url,omitempty" bson:"url,omitempty"`
}

type Metadata struct {
	Attachments  []string       `json:"attachments,omitempty" bson:"attachments,omitempty"`
	Tags         []string       `json:"tags,omitempty" bson:"tags,omitempty"`
	CustomFields map[string]any `json:"customFields,omitempty" bson:"customFields,omitempty"`
	SessionID    string         `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	Timestamp    *time.Time     `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// Submission is the request to record a new piece of feedback.
type Submission struct {
	Submitter Submitter `json:"submitter"`
	Recipient Recipient `json:"recipient"`
	Feedback  Details   `json:"feedback"`
	Context   Origin    `json:"context"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// Delivery records which notification emails were sent.
type Delivery struct {
	SubmitterNotified bool `json:"submitterNotified" bson:"submitterNotified"`
	RecipientNotified bool `json:"recipientNotified" bson:"recipientNotified"`
}

// Any reports whether at least one notification went out.
func (d Delivery) Any() bool {
	return d.SubmitterNotified || d.RecipientNotified
}

// Record is a persisted feedback submission.
type Record struct {
	ID         string     `json:"id" bson:"_id"`
	TrackingID string     `json:"trackingId" bson:"trackingId"`
	Submitter  Submitter  `json:"submitter" bson:"submitter"`
	Recipient  Recipient  `json:"recipient" bson:"recipient"`
	Feedback   Details    `json:"feedback" bson:"feedback"`
	Context    Origin     `json:"context" bson:"context"`
	Metadata   *Metadata  `json:"metadata,omitempty" bson:"metadata,omitempty"`
	Status     Status     `json:"status" bson:"status"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty" bson:"reviewedAt,omitempty"`
	ReviewedBy string     `json:"reviewedBy,omitempty" bson:"reviewedBy,omitempty"`
	EmailsSent Delivery   `json:"emailsSent" bson:"emailsSent"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// SubmissionResult is returned by Submit.
type SubmissionResult struct {
	Success               bool     `json:"success"`
	Message               string   `json:"message"`
	FeedbackID            string   `json:"feedbackId,omitempty"`
	TrackingID            string   `json:"trackingId,omitempty"`
	EstimatedResponseTime string   `json:"estimatedResponseTime,omitempty"`
	EmailsSent            Delivery `json:"emailsSent"`
	Error                 string   `json:"error,omitempty"`
}

// Filter narrows ListRecent. Zero values are ignored; the rating bounds are inclusive.
type Filter struct {
	ApplicationName string
	FeatureName     string
	Type            Type
	MinRating       *int
	MaxRating       *int
	Limit           int
}

// Update carries the fields changed on an existing record. Nil fields are left as is.
type Update struct {
	Status     *Status
	ReviewedAt *time.Time
	ReviewedBy *string
	EmailsSent *Delivery
	UpdatedAt  time.Time
}

// TypeStat is one group of the per-type aggregation.
type TypeStat struct {
	Type      Type `bson:"_id"`
	Count     int  `bson:"count"`
	RatingSum int  `bson:"ratingSum"`
}

// Stats summarizes feedback for one application or for all of them.
type Stats struct {
	TotalFeedbacks      int     `json:"totalFeedbacks"`
	AverageRating       float64 `json:"averageRating"`
	PositiveCount       int     `json:"positiveCount"`
	NegativeCount       int     `json:"negativeCount"`
	SuggestionCount     int     `json:"suggestionCount"`
	BugCount            int     `json:"bugCount"`
	FeatureRequestCount int     `json:"featureRequestCount"`
}
