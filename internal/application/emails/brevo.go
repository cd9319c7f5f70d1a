package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest is the Brevo API v3 transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoContact   `json:"sender"`
	To          []BrevoContact `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
	ReplyTo     *BrevoContact  `json:"replyTo,omitempty"`
}

type BrevoContact struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Sender delivers transactional emails. A nil Sender means email is disabled.
type Sender interface {
	SendWelcome(ctx context.Context, toEmail, name string) error
	SendNotification(ctx context.Context, toEmail, name string, n Notice) error
}

// Notice is the bilingual body of a notification email.
type Notice struct {
	Subject   string
	MessageEn string
	MessageAr string
	Link      string
}

// BrevoClient sends emails via the Brevo (Sendinblue) API using SENDINBLUE_API_KEY and MAIL_FROM.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	BaseURL  string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@auditnet.sa"
}

func (c *BrevoClient) endpoint() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return brevoAPI
}

func (c *BrevoClient) send(ctx context.Context, toEmail, toName, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := BrevoSendRequest{
		Sender:      BrevoContact{Email: c.from(), Name: "AuditNet"},
		To:          []BrevoContact{{Email: toEmail, Name: toName}},
		Subject:     subject,
		HTMLContent: html,
		ReplyTo:     &BrevoContact{Email: "support@auditnet.sa", Name: "AuditNet Support"},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendWelcome is sent once when an account is registered.
func (c *BrevoClient) SendWelcome(ctx context.Context, toEmail, name string) error {
	if c.APIKey == "" {
		return nil
	}
	if name == "" {
		name = "there"
	}
	return c.send(ctx, toEmail, name, "Welcome to AuditNet | مرحباً بك في أوديت نت", EmailLayout(welcomeContent(name)))
}

// SendNotification mirrors an in-app notification to the user's inbox.
func (c *BrevoClient) SendNotification(ctx context.Context, toEmail, name string, n Notice) error {
	if c.APIKey == "" {
		return nil
	}
	subject := n.Subject
	if subject == "" {
		subject = "AuditNet notification"
	}
	return c.send(ctx, toEmail, name, subject, EmailLayout(noticeContent(name, n)))
}

func welcomeContent(name string) string {
	return fmt.Sprintf(`
    <h1>Welcome, %s</h1>
    <p>Your AuditNet account is ready. Complete your profile to register your firm or company, or to join an existing one.</p>
    <div dir="rtl" class="ar">
      <p>تم إنشاء حسابك في أوديت نت. أكمل ملفك الشخصي لتسجيل منشأتك أو للانضمام إلى منشأة قائمة.</p>
    </div>
`, EscapeHTML(name))
}

func noticeContent(name string, n Notice) string {
	link := ""
	if n.Link != "" {
		link = fmt.Sprintf(`<center><a href="%s" class="button">Open AuditNet</a></center>`, EscapeHTML(n.Link))
	}
	ar := ""
	if n.MessageAr != "" {
		ar = fmt.Sprintf(`<div dir="rtl" class="ar"><p>%s</p></div>`, EscapeHTML(n.MessageAr))
	}
	return fmt.Sprintf(`
    <p>Hi %s,</p>
    <p>%s</p>
    %s
    %s
`, EscapeHTML(name), EscapeHTML(n.MessageEn), ar, link)
}
