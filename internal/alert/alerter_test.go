// internal/alert/alerter_test.go
package alert

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardapio-service/internal/common/config"
	"cardapio-service/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeEmailSender struct {
	inputs []*ses.SendEmailInput
}

func (f *fakeEmailSender) SendEmail(_ context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, input)
	return &ses.SendEmailOutput{}, nil
}

type fakeSMSSender struct {
	inputs []*sns.PublishInput
}

func (f *fakeSMSSender) Publish(_ context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, input)
	return &sns.PublishOutput{}, nil
}

func alertConfig(emailEnabled, smsEnabled bool) config.AlertConfig {
	var cfg config.AlertConfig
	cfg.Email.Enabled = emailEnabled
	cfg.Email.FromEmail = "alerts@example.com"
	cfg.Email.ToEmail = "ops@example.com"
	cfg.SMS.Enabled = smsEnabled
	cfg.SMS.PhoneNumber = "+5511999999999"
	return cfg
}

// ==========================
// Alert Delivery Tests
// ==========================

func TestFallbackServed_SendsOnEnabledChannels(t *testing.T) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	a := New(alertConfig(true, true), email, sms, logger.NewTestLogger(t))

	a.FallbackServed(context.Background(), "daily", "upstream unavailable")

	require.Len(t, email.inputs, 1)
	assert.Contains(t, *email.inputs[0].Message.Subject.Data, "daily")
	assert.Equal(t, "alerts@example.com", *email.inputs[0].Source)
	require.Len(t, sms.inputs, 1)
	assert.Contains(t, *sms.inputs[0].Message, "upstream unavailable")
}

func TestFallbackServed_DisabledChannelsStaySilent(t *testing.T) {
	email := &fakeEmailSender{}
	sms := &fakeSMSSender{}
	a := New(alertConfig(false, false), email, sms, logger.NewTestLogger(t))

	a.FallbackServed(context.Background(), "weekly", "empty response")

	assert.Empty(t, email.inputs)
	assert.Empty(t, sms.inputs)
}

// ==========================
// Cooldown Tests
// ==========================

func TestFallbackServed_CooldownSuppressesDuplicates(t *testing.T) {
	email := &fakeEmailSender{}
	a := New(alertConfig(true, false), email, nil, logger.NewTestLogger(t))

	current := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return current }

	a.FallbackServed(context.Background(), "daily", "outage")
	a.FallbackServed(context.Background(), "daily", "outage")
	require.Len(t, email.inputs, 1, "repeat within cooldown is suppressed")

	// A different kind alerts independently.
	a.FallbackServed(context.Background(), "weekly", "outage")
	require.Len(t, email.inputs, 2)

	// After the cooldown the same kind alerts again.
	current = current.Add(alertCooldown + time.Minute)
	a.FallbackServed(context.Background(), "daily", "outage")
	assert.Len(t, email.inputs, 3)
}
