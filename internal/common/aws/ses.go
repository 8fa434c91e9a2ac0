// internal/common/aws/ses.go
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"roi-navigator/internal/common/errors"
)

type SESClient struct {
	client    *ses.Client
	fromEmail string
}

func NewSESClient(ctx context.Context, region, fromEmail string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESClient{client: ses.NewFromConfig(cfg), fromEmail: fromEmail}, nil
}

// SendEmail sends a raw SES message from the configured sender.
func (s *SESClient) SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	if input.Source == nil {
		input.Source = aws.String(s.fromEmail)
	}
	return s.client.SendEmail(ctx, input)
}

// SendTemporaryPassword delivers a reset credential to the user's mailbox.
// The credential is never exposed through the API, so email is the only
// delivery channel.
func (s *SESClient) SendTemporaryPassword(ctx context.Context, toEmail, tempPassword string) error {
	body := fmt.Sprintf(
		"Your account password has been reset.\n\n"+
			"Temporary password: %s\n\n"+
			"Your account is disabled until an administrator re-enables it. "+
			"You will be asked to choose a new password on first login.",
		tempPassword,
	)

	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String("Your temporary password"),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data:    aws.String(body),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if _, err := s.SendEmail(ctx, input); err != nil {
		return errors.NewEmailSendFailedError(err)
	}

	return nil
}
