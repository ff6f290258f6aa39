package email

import (
	"errors"
	"strconv"

	"github.com/dmitrymomot/feedbackmail/pkg/validator"
)

const maxSubjectLen = 998

// Validate checks the payload shape. The returned error wraps
// ErrInvalidPayload and validator.ValidationErrors.
func (p Payload) Validate() error {
	rules := []validator.Rule{
		validator.Required("to", p.To),
		validator.Required("subject", p.Subject),
		validator.MaxLen("subject", p.Subject, maxSubjectLen),
		validator.Required("templatePath", p.TemplatePath),
		validator.Required("vendor", p.Vendor),
	}
	rules = append(rules, validator.When(p.To != "", validator.ValidEmail("to", p.To))...)
	rules = append(rules, validator.ValidEmails("cc", p.CC)...)
	rules = append(rules, validator.ValidEmails("bcc", p.BCC)...)
	rules = append(rules, validator.When(p.ReplyTo != "", validator.ValidEmail("replyTo", p.ReplyTo))...)
	for i, a := range p.Attachments {
		rules = append(rules, validator.Required(attachmentField(i), a.Filename))
	}

	if err := validator.Apply(rules...); err != nil {
		return errors.Join(ErrInvalidPayload, err)
	}
	return nil
}

func attachmentField(i int) string {
	return "attachments[" + strconv.Itoa(i) + "].filename"
}
