package mailer

import (
	"log"
)

// Mailer delivers report emails. Delivery failure during a background
// sweep is logged per station, never fatal to the sweep; a foreground
// request surfaces the error to the caller.
type Mailer interface {
	// SendReport sends an HTML body with one PDF attachment.
	SendReport(to, subject, htmlBody, filename string, pdf []byte) error
	// SendTest sends a plain configuration-check email.
	SendTest(to string) error
}

// MockMailer logs instead of sending. Used when SMTP is not configured
// so the rest of the system stays exercisable in development.
type MockMailer struct{}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) SendReport(to, subject, htmlBody, filename string, pdf []byte) error {
	log.Printf("[Mailer] MOCK report to=%s subject=%q attachment=%s (%d bytes)", to, subject, filename, len(pdf))
	return nil
}

func (m *MockMailer) SendTest(to string) error {
	log.Printf("[Mailer] MOCK test email to=%s", to)
	return nil
}
