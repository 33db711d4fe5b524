package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESNotifier delivers mail through Amazon SES. The client is built once at
// cold start and reused read-only across invocations.
type SESNotifier struct {
	client *sesv2.Client
	from   string
}

func NewSESNotifier(client *sesv2.Client, from string) *SESNotifier {
	return &SESNotifier{client: client, from: from}
}

// NewSESClient builds the SES client from the ambient AWS configuration.
func NewSESClient(ctx context.Context) (*sesv2.Client, error) {
	awscfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return sesv2.NewFromConfig(awscfg), nil
}

func (n *SESNotifier) Send(ctx context.Context, to, subject, body string) error {
	_, err := n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sending mail via ses: %w", err)
	}
	return nil
}
