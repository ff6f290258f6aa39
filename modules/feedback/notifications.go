package feedback

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/feedbackmail/pkg/email"
	"github.com/dmitrymomot/feedbackmail/pkg/email/templates"
)

// Variable names shared by both notification templates.
func commonVariables(rec Record, cfg Config) map[string]any {
	return map[string]any{
		"companyName":     cfg.CompanyName,
		"feedbackId":      rec.ID,
		"trackingId":      rec.TrackingID,
		"submitterName":   rec.Submitter.Name,
		"recipientName":   rec.Recipient.Name,
		"rating":          rec.Feedback.Rating,
		"ratingStars":     templates.Stars(rec.Feedback.Rating),
		"content":         rec.Feedback.Content,
		"feedbackType":    string(rec.Feedback.Type),
		"feedbackLabel":   templates.Title(string(rec.Feedback.Type)),
		"applicationName": rec.Context.ApplicationName,
		"featureName":     rec.Context.FeatureName,
		"submittedAt":     rec.CreatedAt,
	}
}

func submitterNotification(rec Record, cfg Config, estimate string) email.Payload {
	vars := commonVariables(rec, cfg)
	vars["confirmationMessage"] = fmt.Sprintf(
		"Thank you for your feedback on %s. Our team will review it and get back to you if needed.",
		rec.Context.FeatureName,
	)
	vars["estimatedResponseTime"] = estimate
	vars["supportEmail"] = cfg.SupportEmail

	return email.Payload{
		To:           rec.Submitter.Email,
		Subject:      fmt.Sprintf("We received your feedback [%s]", rec.TrackingID),
		TemplatePath: cfg.SubmitterTemplate,
		Vendor:       cfg.Vendor,
		Variables:    vars,
		ReplyTo:      cfg.SupportEmail,
	}
}

func recipientNotification(rec Record, cfg Config) email.Payload {
	vars := commonVariables(rec, cfg)
	vars["priority"] = templates.Title(string(rec.Feedback.Priority))
	vars["category"] = rec.Feedback.Category
	vars["submitterEmail"] = rec.Submitter.Email
	vars["submitterRole"] = rec.Submitter.Role
	vars["version"] = rec.Context.Version
	vars["environment"] = rec.Context.Environment.String()
	vars["url"] = rec.Context.URL
	vars["dashboardUrl"] = cfg.DashboardURL
	vars["respondUrl"] = joinURL(cfg.RespondURL, rec.ID)
	if rec.Metadata != nil {
		vars["tags"] = rec.Metadata.Tags
	}

	return email.Payload{
		To: rec.Recipient.Email,
		Subject: fmt.Sprintf("New %s feedback for %s (%d/5)",
			strings.ToLower(templates.Title(string(rec.Feedback.Type))),
			rec.Context.ApplicationName,
			rec.Feedback.Rating,
		),
		TemplatePath: cfg.RecipientTemplate,
		Vendor:       cfg.Vendor,
		Variables:    vars,
		ReplyTo:      rec.Submitter.Email,
	}
}

func joinURL(base, id string) string {
	if base == "" {
		return ""
	}
	u, err := url.JoinPath(base, url.PathEscape(id))
	if err != nil {
		return ""
	}
	return u
}

// trackingID builds the human-facing reference, e.g. FB-1712345678901-3F2A9C1D.
func trackingID(now time.Time, id string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("FB-%d-%s", now.UnixMilli(), suffix)
}
