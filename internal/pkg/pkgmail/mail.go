// Package pkgmail delivers transactional email.
package pkgmail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Message is a plain text email.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SESClient is the part of the SES v2 API the mailer needs.
type SESClient interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SES sends email through AWS SES v2.
type SES struct {
	client   SESClient
	fromName string
	from     string
}

// NewSES returns an SES mailer sending as "fromName <from>".
func NewSES(client SESClient, fromName, from string) *SES {
	return &SES{client: client, fromName: fromName, from: from}
}

// Send implements Mailer.
func (s *SES) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("mail: missing recipient")
	}

	from := s.from
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.from)
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("mail: send to %s: %w", msg.To, err)
	}
	return nil
}

// Log writes messages to the structured log instead of sending them.
type Log struct{}

// Send implements Mailer.
func (Log) Send(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "mail not sent, log mailer in use", "to", msg.To, "subject", msg.Subject, "text", msg.Text)
	return nil
}
