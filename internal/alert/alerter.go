// Package alert notifies the ops channels when the service degrades to
// fallback menus, so stale data does not go unnoticed.
package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"cardapio-service/internal/common/config"
	"cardapio-service/internal/common/errors"
	"cardapio-service/internal/common/logger"
)

// alertCooldown suppresses duplicate alerts for the same kind while an
// outage is ongoing.
const alertCooldown = 30 * time.Minute

// EmailSender is the slice of the SES client the alerter needs.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SMSSender is the slice of the SNS client the alerter needs.
type SMSSender interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Alerter sends fallback-served notifications over the configured channels.
type Alerter struct {
	cfg    config.AlertConfig
	email  EmailSender
	sms    SMSSender
	logger logger.Logger

	mu       sync.Mutex
	lastSent map[string]time.Time
	now      func() time.Time
}

// New creates an alerter. Either sender may be nil when its channel is
// disabled.
func New(cfg config.AlertConfig, email EmailSender, sms SMSSender, log logger.Logger) *Alerter {
	return &Alerter{
		cfg:      cfg,
		email:    email,
		sms:      sms,
		logger:   log,
		lastSent: make(map[string]time.Time),
		now:      time.Now,
	}
}

// FallbackServed reports that a fallback menu of the given kind (daily or
// weekly) was served instead of real data. Delivery failures are logged,
// never propagated: alerting must not break the menu path.
func (a *Alerter) FallbackServed(ctx context.Context, kind, reason string) {
	if !a.shouldSend(kind) {
		return
	}

	subject := fmt.Sprintf("[cardapio-service] Fallback %s menu served", kind)
	message := fmt.Sprintf(
		"The %s menu degraded to fallback data at %s.\nReason: %s",
		kind, a.now().UTC().Format(time.RFC3339), reason)

	if a.cfg.Email.Enabled && a.email != nil {
		if err := a.sendEmail(ctx, subject, message); err != nil {
			a.logger.Error("Fallback alert email failed", map[string]interface{}{
				"kind":  kind,
				"error": err.Error(),
			})
		}
	}

	if a.cfg.SMS.Enabled && a.sms != nil {
		if err := a.sendSMS(ctx, message); err != nil {
			a.logger.Error("Fallback alert SMS failed", map[string]interface{}{
				"kind":  kind,
				"error": err.Error(),
			})
		}
	}
}

// shouldSend enforces the per-kind cooldown.
func (a *Alerter) shouldSend(kind string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if last, ok := a.lastSent[kind]; ok && a.now().Sub(last) < alertCooldown {
		return false
	}
	a.lastSent[kind] = a.now()
	return true
}

func (a *Alerter) sendEmail(ctx context.Context, subject, message string) error {
	input := &ses.SendEmailInput{
		Source: awssdk.String(a.cfg.Email.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{a.cfg.Email.ToEmail},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: awssdk.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: awssdk.String(message)},
			},
		},
	}

	if _, err := a.email.SendEmail(ctx, input); err != nil {
		return errors.NewAlertSendFailedError("email", err)
	}
	return nil
}

func (a *Alerter) sendSMS(ctx context.Context, message string) error {
	input := &sns.PublishInput{
		PhoneNumber: awssdk.String(a.cfg.SMS.PhoneNumber),
		Message:     awssdk.String(message),
	}

	if _, err := a.sms.Publish(ctx, input); err != nil {
		return errors.NewAlertSendFailedError("sms", err)
	}
	return nil
}
