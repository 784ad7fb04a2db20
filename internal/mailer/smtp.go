package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"pump-backend/internal/config"
)

// SMTPMailer sends via plain SMTP with STARTTLS auth, building the MIME
// message by hand.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.SMTP.Host,
		port: cfg.SMTP.Port,
		user: cfg.SMTP.User,
		pass: cfg.SMTP.Password,
		from: cfg.SMTP.From,
	}
}

func (m *SMTPMailer) SendReport(to, subject, htmlBody, filename string, pdf []byte) error {
	msg, err := buildMessage(m.from, to, subject, htmlBody, filename, pdf)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}
	return m.send(to, msg)
}

func (m *SMTPMailer) SendTest(to string) error {
	msg, err := buildMessage(m.from, to, "Test email", "<p>SMTP configuration is working.</p>", "", nil)
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}
	return m.send(to, msg)
}

func (m *SMTPMailer) send(to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// buildMessage assembles a multipart/mixed MIME message with an HTML part
// and an optional base64 PDF attachment.
func buildMessage(from, to, subject, htmlBody, filename string, pdf []byte) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%q\r\n", mw.Boundary())
	fmt.Fprintf(&msg, "\r\n")

	htmlPart, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}

	if len(pdf) > 0 {
		attachment, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {"application/pdf"},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", filename)},
		})
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(pdf)
		// RFC 2045 line length limit
		for len(encoded) > 76 {
			if _, err := fmt.Fprintf(attachment, "%s\r\n", encoded[:76]); err != nil {
				return nil, err
			}
			encoded = encoded[76:]
		}
		if _, err := fmt.Fprintf(attachment, "%s\r\n", encoded); err != nil {
			return nil, err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	msg.Write(buf.Bytes())
	return msg.Bytes(), nil
}
