// internal/notify/notifier.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	awsclients "recruit-screening/internal/common/aws"
	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/screening"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const EventBulkStatusUpdated = "bulk_status_updated"

// Config selects the channels. Empty TopicARN or addresses disable that channel.
type Config struct {
	Enabled   bool
	TopicARN  string
	FromEmail string
	ToEmail   string
}

// BulkEvent is the SNS message body.
type BulkEvent struct {
	Event      string                 `json:"event"`
	JobID      string                 `json:"jobId,omitempty"`
	Result     *screening.BulkResult  `json:"result"`
	OccurredAt time.Time              `json:"occurredAt"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Notifier reports bulk action outcomes. It never changes the outcome itself.
type Notifier struct {
	config Config
	ses    awsclients.SESAPI
	sns    awsclients.SNSAPI
	logger logger.Logger
}

func NewNotifier(cfg Config, sesClient awsclients.SESAPI, snsClient awsclients.SNSAPI, log logger.Logger) *Notifier {
	return &Notifier{
		config: cfg,
		ses:    sesClient,
		sns:    snsClient,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// BulkCompleted publishes the event and emails the summary. The first failure is returned
// after both channels have been tried.
func (n *Notifier) BulkCompleted(ctx context.Context, jobID string, result *screening.BulkResult) error {
	if n == nil || !n.config.Enabled || result == nil {
		return nil
	}

	var firstErr error

	if n.sns != nil && n.config.TopicARN != "" {
		if err := n.publish(ctx, jobID, result); err != nil {
			n.logger.Warn("bulk event publish failed", map[string]interface{}{"error": err})
			firstErr = errors.NewNotificationSendFailedError("sns", err)
		}
	}

	if n.ses != nil && n.config.FromEmail != "" && n.config.ToEmail != "" {
		if err := n.email(ctx, jobID, result); err != nil {
			n.logger.Warn("bulk summary email failed", map[string]interface{}{"error": err})
			if firstErr == nil {
				firstErr = errors.NewNotificationSendFailedError("ses", err)
			}
		}
	}

	return firstErr
}

func (n *Notifier) publish(ctx context.Context, jobID string, result *screening.BulkResult) error {
	body, err := json.Marshal(BulkEvent{
		Event:      EventBulkStatusUpdated,
		JobID:      jobID,
		Result:     result,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	_, err = n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.config.TopicARN),
		Message:  aws.String(string(body)),
		Subject:  aws.String("Bulk status update"),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"event": {DataType: aws.String("String"), StringValue: aws.String(EventBulkStatusUpdated)},
		},
	})
	return err
}

func (n *Notifier) email(ctx context.Context, jobID string, result *screening.BulkResult) error {
	subject := fmt.Sprintf("Bulk update: %s", result.Notice)
	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{n.config.ToEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(Summary(jobID, result))},
			},
		},
		Source: aws.String(n.config.FromEmail),
	})
	return err
}

// Summary renders the plain-text email body.
func Summary(jobID string, result *screening.BulkResult) string {
	var b strings.Builder
	if jobID != "" {
		fmt.Fprintf(&b, "Job: %s\n", jobID)
	}
	fmt.Fprintf(&b, "Target status: %s\n", result.Target)
	fmt.Fprintf(&b, "%s\n", result.Notice)

	if len(result.Succeeded) > 0 {
		fmt.Fprintf(&b, "\nUpdated (%d):\n", len(result.Succeeded))
		for _, id := range result.Succeeded {
			fmt.Fprintf(&b, "  - %s\n", id)
		}
	}
	if len(result.Failed) > 0 {
		fmt.Fprintf(&b, "\nFailed (%d):\n", len(result.Failed))
		for _, f := range result.Failed {
			fmt.Fprintf(&b, "  - %s: %s\n", f.ApplicationID, f.Message)
		}
	}
	return b.String()
}
