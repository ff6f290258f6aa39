package feedback_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrymomot/feedbackmail/modules/feedback"
	"github.com/dmitrymomot/feedbackmail/pkg/email"
)

var errTransport = errors.New("smtp: connection reset")

// stubMailer records every payload and fails for addresses listed in failFor.
type stubMailer struct {
	mu      sync.Mutex
	sent    []email.Payload
	failFor map[string]bool
}

func newStubMailer(failFor ...string) *stubMailer {
	m := &stubMailer{failFor: make(map[string]bool)}
	for _, addr := range failFor {
		m.failFor[addr] = true
	}
	return m
}

func (m *stubMailer) SendOne(_ context.Context, p email.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, p)
	if m.failFor[p.To] {
		return errTransport
	}
	return nil
}

func (m *stubMailer) payloads() []email.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]email.Payload(nil), m.sent...)
}

func (m *stubMailer) sentTo(addr string) (email.Payload, bool) {
	for _, p := range m.payloads() {
		if p.To == addr {
			return p, true
		}
	}
	return email.Payload{}, false
}

// failingStorage rejects every write.
type failingStorage struct {
	*feedback.MemoryStorage
}

func (failingStorage) Insert(context.Context, feedback.Record) error {
	return errors.New("connection refused")
}

// clock returns a time source that advances one second per call.
func clock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func testConfig() feedback.Config {
	return feedback.Config{
		CompanyName:       "Acme",
		SupportEmail:      "support@acme.io",
		DashboardURL:      "https://acme.io/dashboard",
		RespondURL:        "https://acme.io/feedback",
		Vendor:            "resend",
		SubmitterTemplate: "feedback/submitter_confirmation.html",
		RecipientTemplate: "feedback/recipient_alert.html",
	}
}

func validSubmission() feedback.Submission {
	return feedback.Submission{
		Submitter: feedback.Submitter{Name: "Ana Lopez", Email: "ana@example.com", Role: "customer"},
		Recipient: feedback.Recipient{Name: "Product Team", Email: "product@acme.io", Team: "checkout"},
		Feedback: feedback.Details{
			Content: "The new checkout flow is great",
			Rating:  5,
			Type:    feedback.TypePositive,
		},
		Context: feedback.Origin{
			ApplicationName: "web",
			FeatureName:     "checkout",
			Environment:     "production",
			URL:             "https://acme.io/checkout",
		},
	}
}
