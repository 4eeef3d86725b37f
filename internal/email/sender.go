// Package email delivers transactional mail over SMTP.
package email

import (
	"context"

	"leadflow_backend/platform/config"
)

// Sender delivers the notification emails the system sends.
type Sender interface {
	SendLeadAssignedEmail(ctx context.Context, toEmail, agentName, leadName, assignedByName, notes string) error
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendLeadAssignedEmail(ctx context.Context, toEmail, agentName, leadName, assignedByName, notes string) error {
	return nil
}

// NewSender returns an SMTP sender, or a no-op when delivery is disabled.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
