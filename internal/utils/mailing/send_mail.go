package mailing

import (
	"Go-Voting-Backend/entities"
	"Go-Voting-Backend/internal/utils"
	"bytes"
	"context"
	"fmt"
	"gopkg.in/gomail.v2"
	"html/template"
	"strconv"
)

type MailConfig struct {
	AppURL       string
	SMTPHost     string
	SMTPPort     string
	SMTPSender   string
	SMTPEmail    string
	SMTPPassword string
}

func LoadMailConfig(cfg *utils.Config) MailConfig {
	return MailConfig{
		AppURL:       cfg.AppURL,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPSender:   cfg.SMTPSenderName,
		SMTPEmail:    cfg.SMTPAuthEmail,
		SMTPPassword: cfg.SMTPAuthPassword,
	}
}

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	cfg  MailConfig
	send func(m *gomail.Message) error
}

func NewMailer(cfg MailConfig) (*Mailer, error) {
	port, err := strconv.Atoi(cfg.SMTPPort)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", cfg.SMTPPort, err)
	}
	dialer := gomail.NewDialer(
		cfg.SMTPHost,
		port,
		cfg.SMTPEmail,
		cfg.SMTPPassword,
	)
	return &Mailer{
		cfg:  cfg,
		send: func(m *gomail.Message) error { return dialer.DialAndSend(m) },
	}, nil
}

func (m *Mailer) SendMail(toEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	if m.cfg.SMTPSender != "" {
		mailer.SetAddressHeader("From", m.cfg.SMTPEmail, m.cfg.SMTPSender)
	} else {
		mailer.SetHeader("From", m.cfg.SMTPEmail)
	}
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	return m.send(mailer)
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<p>Hi {{.Name}},</p>
<p>Your payment for order <strong>{{.OrderID}}</strong> was received and <strong>{{.Points}} points</strong> have been added to your balance.</p>
<p>Amount paid: Rp {{.Amount}}</p>
{{if .AppURL}}<p><a href="{{.AppURL}}">Start voting</a></p>{{end}}`))

// SendPurchaseReceipt mails the owner of a settled purchase.
func (m *Mailer) SendPurchaseReceipt(ctx context.Context, user *entities.User, purchase *entities.PointPurchase) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := receiptTemplate.Execute(&body, map[string]any{
		"Name":    user.Name,
		"OrderID": purchase.MerchantOrderID,
		"Points":  purchase.Points,
		"Amount":  purchase.Amount,
		"AppURL":  m.cfg.AppURL,
	}); err != nil {
		return err
	}

	subject := fmt.Sprintf("%d points added to your account", purchase.Points)
	return m.SendMail(user.Email, subject, body.String())
}
