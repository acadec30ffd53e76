package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tempus/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestTemplateRenderer(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	subject, html, text, err := r.Render("login_code", &domain.LoginCodeEmailData{Email: "a@example.com", Code: "123456", ExpiresInMinutes: 15})
	require.NoError(t, err)
	assert.Equal(t, "Your Tempus sign-in code: 123456", subject)
	assert.Contains(t, html, "<strong>123456</strong>")
	assert.Contains(t, text, "expires in 15 minutes")

	_, html, _, err = r.Render("welcome", &domain.WelcomeMessageEmailData{Email: "a@example.com", Name: "<b>Eve</b>"})
	require.NoError(t, err)
	assert.Contains(t, html, "&lt;b&gt;Eve&lt;/b&gt;")

	_, _, _, err = r.Render("missing", nil)
	assert.Error(t, err)
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, "noreply@example.com", "Tempus", discardLogger())

	require.NoError(t, m.Send(context.Background(), "a@example.com", "Hi", "<p>hi</p>", ""))
	require.NotNil(t, client.input)
	assert.Equal(t, "Tempus <noreply@example.com>", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"a@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Hi", aws.ToString(client.input.Message.Subject.Data))
	require.NotNil(t, client.input.Message.Body.Html)
	assert.Nil(t, client.input.Message.Body.Text)

	client.err = errors.New("throttled")
	err := m.Send(context.Background(), "a@example.com", "Hi", "", "hi")
	assert.ErrorIs(t, err, client.err)
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: ProviderNoop}, discardLogger())
	require.NoError(t, err)
	assert.NoError(t, m.Send(context.Background(), "a@example.com", "s", "h", "t"))

	m, err = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: ProviderSES}, discardLogger())
	assert.Error(t, err)

	m, err = NewMailer(MailerConfig{Provider: ProviderSES, FromAddress: "noreply@example.com", SES: SESConfig{Region: "eu-west-1"}}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &sesMailer{}, m)
}
