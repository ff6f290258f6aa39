package feedback

// Config holds the notification settings of the feedback workflow.
type Config struct {
	CompanyName       string `env:"COMPANY_NAME" envDefault:"Feedback Team"`
	SupportEmail      string `env:"SUPPORT_EMAIL" envDefault:"support@example.com"`
	DashboardURL      string `env:"DASHBOARD_URL" envDefault:"http://localhost:8080/dashboard"`
	RespondURL        string `env:"RESPOND_URL" envDefault:"http://localhost:8080/feedback"`
	Vendor            string `env:"FEEDBACK_EMAIL_VENDOR" envDefault:"resend"`
	SubmitterTemplate string `env:"FEEDBACK_SUBMITTER_TEMPLATE" envDefault:"feedback/submitter_confirmation.html"`
	RecipientTemplate string `env:"FEEDBACK_RECIPIENT_TEMPLATE" envDefault:"feedback/recipient_alert.html"`
	Collection        string `env:"FEEDBACK_COLLECTION" envDefault:"feedbacks"`
}
