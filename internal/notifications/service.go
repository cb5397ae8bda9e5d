// Package notifications delivers alert and digest emails
package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/blurahub/riskwatch/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Service sends notifications over SMTP using the per-cycle settings snapshot
type Service struct{}

var _ Notifier = (*Service)(nil)

// NewService creates a new notification service
func NewService() *Service {
	return &Service{}
}

var alertTemplate = template.Must(template.New("alert").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; }
        .header { background-color: #dc2626; color: white; padding: 20px; }
        .content { padding: 20px; }
        .risk-high { color: #dc2626; font-weight: bold; }
        .risk-medium { color: #f59e0b; font-weight: bold; }
        .info { margin: 10px 0; }
        .label { font-weight: bold; }
    </style>
</head>
<body>
    <div class="header">
        <h1>RiskWatch Security Alert</h1>
    </div>
    <div class="content">
        <h2 class="risk-{{.RiskClass}}">{{.Alert.RiskLevel}} RISK DETECTED</h2>
        <div class="info"><span class="label">Platform:</span> {{.Platform}}</div>
        <div class="info"><span class="label">Author:</span> {{.Alert.Author}}</div>
        <div class="info"><span class="label">Content URL:</span> <a href="{{.Alert.ContentURL}}">{{.Alert.ContentURL}}</a></div>
        <div class="info"><span class="label">Description:</span> {{.Alert.Description}}</div>
        <div class="info"><span class="label">Triggered Keywords:</span> {{.Keywords}}</div>
        <div class="info"><span class="label">Alert Time:</span> {{.CreatedAt}}</div>
        <p style="margin-top: 30px;">
            <strong>Action Required:</strong> Please review this alert in the RiskWatch dashboard immediately.
        </p>
    </div>
</body>
</html>
`))

// SendAlert emails a single risk alert to the configured recipients.
// Delivery is best-effort: the alert record is already persisted before this
// is called, and the caller only logs the returned error.
func (s *Service) SendAlert(alert models.Alert, analysis models.Analysis, settings models.Settings) error {
	recipients := settings.Recipients()
	if len(recipients) == 0 {
		return fmt.Errorf("no alert recipients configured")
	}
	if settings.SMTPHost == "" || settings.SMTPUsername == "" || settings.SMTPPassword == "" {
		return fmt.Errorf("SMTP not configured")
	}

	subject := fmt.Sprintf("[RiskWatch] %s Risk Alert", alert.RiskLevel)

	htmlBody, err := s.buildAlertHTML(alert, analysis)
	if err != nil {
		return fmt.Errorf("failed to build alert email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", settings.SMTPUsername)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(settings.SMTPHost, settings.SMTPPort, settings.SMTPUsername, settings.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	logrus.Infof("Alert email sent to %s", strings.Join(recipients, ", "))
	return nil
}

func (s *Service) buildAlertHTML(alert models.Alert, analysis models.Analysis) (string, error) {
	data := struct {
		Alert     models.Alert
		RiskClass string
		Platform  string
		Keywords  string
		CreatedAt string
	}{
		Alert:     alert,
		RiskClass: strings.ToLower(alert.RiskLevel),
		Platform:  strings.ToUpper(alert.Platform),
		Keywords:  strings.Join(analysis.TriggeredKeywords, ", "),
		CreatedAt: alert.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
	}

	var buf bytes.Buffer
	if err := alertTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendDigest emails the periodic alert summary
func (s *Service) SendDigest(digest *Digest, settings models.Settings) error {
	recipients := settings.Recipients()
	if len(recipients) == 0 {
		return fmt.Errorf("no alert recipients configured")
	}
	if settings.SMTPHost == "" || settings.SMTPUsername == "" || settings.SMTPPassword == "" {
		return fmt.Errorf("SMTP not configured")
	}

	subject := fmt.Sprintf("[RiskWatch] %s Digest (%d alerts)", strings.Title(digest.Period), digest.TotalAlerts)

	m := gomail.NewMessage()
	m.SetHeader("From", settings.SMTPUsername)
	m.SetHeader("To", recipients...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", s.buildDigestText(digest))

	d := gomail.NewDialer(settings.SMTPHost, settings.SMTPPort, settings.SMTPUsername, settings.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}

	logrus.Infof("Digest email sent to %s", strings.Join(recipients, ", "))
	return nil
}

func (s *Service) buildDigestText(digest *Digest) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("RiskWatch %s Digest\n", strings.Title(digest.Period)))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", digest.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("SUMMARY\n")
	text.WriteString("=======\n")
	text.WriteString(fmt.Sprintf("Total Alerts: %d\n", digest.TotalAlerts))
	text.WriteString(fmt.Sprintf("HIGH Risk: %d\n", digest.HighCount))
	text.WriteString(fmt.Sprintf("MEDIUM Risk: %d\n", digest.MediumCount))

	for platform, count := range digest.ByPlatform {
		text.WriteString(fmt.Sprintf("%s: %d\n", strings.ToUpper(platform), count))
	}

	if len(digest.Alerts) > 0 {
		text.WriteString("\nRECENT ALERTS\n")
		text.WriteString("=============\n")

		limit := 10
		if len(digest.Alerts) < limit {
			limit = len(digest.Alerts)
		}

		for i := 0; i < limit; i++ {
			alert := digest.Alerts[i]
			text.WriteString(fmt.Sprintf("\n%d. %s\n", i+1, alert.Title))
			text.WriteString(fmt.Sprintf("   Platform: %s | Status: %s | Created: %s\n",
				alert.Platform, alert.Status, alert.CreatedAt.UTC().Format("Jan 2, 2006 15:04")))
			text.WriteString(fmt.Sprintf("   URL: %s\n", alert.ContentURL))
			if alert.Description != "" {
				text.WriteString(fmt.Sprintf("   %s\n", alert.Description))
			}
		}
	}

	text.WriteString("\n---\nThis digest was generated automatically by RiskWatch.\n")
	return text.String()
}
