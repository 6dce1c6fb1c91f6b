package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	apperrors "recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/models"
	"recruit-screening/internal/screening"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	return &ses.SendEmailOutput{}, f.err
}

type fakeSNS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	return &sns.PublishOutput{}, f.err
}

func sampleResult() *screening.BulkResult {
	return &screening.BulkResult{
		Target:    models.StatusRejected,
		Succeeded: []string{"a1", "a3"},
		Failed:    []screening.BulkFailure{{ApplicationID: "a2", Code: "API_REQUEST_FAILED", Message: "status 500"}},
		Notice:    "2 application(s) marked as rejected, 1 failed",
	}
}

func enabledConfig() Config {
	return Config{
		Enabled:   true,
		TopicARN:  "arn:aws:sns:eu-west-1:123456789012:screening",
		FromEmail: "noreply@example.com",
		ToEmail:   "recruiters@example.com",
	}
}

func TestBulkCompleted_SendsBothChannels(t *testing.T) {
	sesFake, snsFake := &fakeSES{}, &fakeSNS{}
	n := NewNotifier(enabledConfig(), sesFake, snsFake, logger.NewTestLogger(t))

	require.NoError(t, n.BulkCompleted(context.Background(), "job-1", sampleResult()))

	require.Len(t, snsFake.inputs, 1)
	assert.Equal(t, "arn:aws:sns:eu-west-1:123456789012:screening", *snsFake.inputs[0].TopicArn)

	var event BulkEvent
	require.NoError(t, json.Unmarshal([]byte(*snsFake.inputs[0].Message), &event))
	assert.Equal(t, EventBulkStatusUpdated, event.Event)
	assert.Equal(t, "job-1", event.JobID)
	assert.Equal(t, []string{"a1", "a3"}, event.Result.Succeeded)

	require.Len(t, sesFake.inputs, 1)
	email := sesFake.inputs[0]
	assert.Equal(t, []string{"recruiters@example.com"}, email.Destination.ToAddresses)
	assert.Contains(t, *email.Message.Subject.Data, "1 failed")
	assert.Contains(t, *email.Message.Body.Text.Data, "a2: status 500")
}

func TestBulkCompleted_Disabled(t *testing.T) {
	sesFake, snsFake := &fakeSES{}, &fakeSNS{}
	cfg := enabledConfig()
	cfg.Enabled = false
	n := NewNotifier(cfg, sesFake, snsFake, logger.NewTestLogger(t))

	require.NoError(t, n.BulkCompleted(context.Background(), "job-1", sampleResult()))
	assert.Empty(t, sesFake.inputs)
	assert.Empty(t, snsFake.inputs)

	var nilNotifier *Notifier
	assert.NoError(t, nilNotifier.BulkCompleted(context.Background(), "job-1", sampleResult()))
}

func TestBulkCompleted_FailureStillTriesEmail(t *testing.T) {
	sesFake := &fakeSES{}
	snsFake := &fakeSNS{err: errors.New("throttled")}
	n := NewNotifier(enabledConfig(), sesFake, snsFake, logger.NewTestLogger(t))

	err := n.BulkCompleted(context.Background(), "job-1", sampleResult())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotificationSendFailed, apperrors.AsStandard(err).Code)
	assert.Contains(t, err.Error(), "sns")
	assert.Len(t, sesFake.inputs, 1)
}

func TestSummary(t *testing.T) {
	text := Summary("", sampleResult())

	assert.NotContains(t, text, "Job:")
	assert.Contains(t, text, "Target status: rejected")
	assert.Contains(t, text, "Updated (2):")
	assert.Contains(t, text, "Failed (1):")
}
