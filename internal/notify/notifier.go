package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloudwatch-error-monitor/internal/client"
	"cloudwatch-error-monitor/internal/config"
	"cloudwatch-error-monitor/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/phuslu/log"
)

// SESAPI is the subset of the SES v2 API the notifier uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// previewLimit is how much of the document the fallback email carries inline.
const previewLimit = 2000

// Notifier delivers the error report by email: a multipart message with the
// full report attached, falling back to a truncated inline-text email when
// the primary send fails. Neither path propagates an error to the caller.
type Notifier struct {
	client SESAPI
	cfg    *config.Config
}

// New creates a Notifier.
func New(client SESAPI, cfg *config.Config) *Notifier {
	return &Notifier{client: client, cfg: cfg}
}

// Send attempts delivery. Failures are logged, never returned: a lost email
// must not fail the invocation.
func (n *Notifier) Send(ctx context.Context, document string, start, end time.Time, errorCount int, summary model.Summary) {
	if err := n.sendWithAttachment(ctx, document, start, end, errorCount, summary); err != nil {
		log.Error().Err(err).
			Str("error_code", client.ErrorCode(err)).
			Msg("report email failed, attempting fallback")

		preview := document
		if len(preview) > previewLimit {
			preview = preview[:previewLimit]
		}
		if err := n.sendFallback(ctx, preview, start, end, errorCount); err != nil {
			log.Error().Err(err).
				Str("error_code", client.ErrorCode(err)).
				Msg("fallback email failed")
			return
		}
		log.Info().Int("recipients", len(n.cfg.Recipients)).Msg("fallback email sent")
		return
	}
	log.Info().Int("recipients", len(n.cfg.Recipients)).Msg("report email sent")
}

func (n *Notifier) subject() string {
	return fmt.Sprintf("[%s] ALERT: %s Errors", n.cfg.Environment, n.cfg.ServiceName)
}

// AttachmentFilename returns the report file name for a window starting at
// start: {project}_{serviceType}_errors_{environment}_{YYYYMMDD_HHMM}.txt
// with project and environment lowercased.
func (n *Notifier) AttachmentFilename(start time.Time) string {
	return fmt.Sprintf("%s_%s_errors_%s_%s.txt",
		strings.ToLower(n.cfg.ProjectName),
		n.cfg.ServiceType,
		strings.ToLower(n.cfg.Environment),
		start.Format("20060102_1504"))
}

func (n *Notifier) sendWithAttachment(ctx context.Context, document string, start, end time.Time, errorCount int, summary model.Summary) error {
	body := n.alertBody(start, end, errorCount, summary)
	raw := buildRawMessage(n.cfg.SenderEmail, n.cfg.Recipients, n.subject(), body, document, n.AttachmentFilename(start))

	out, err := n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.cfg.SenderEmail),
		Destination:      &types.Destination{ToAddresses: n.cfg.Recipients},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: []byte(raw)},
		},
	})
	if err != nil {
		return fmt.Errorf("send raw email: %w", err)
	}
	log.Info().Str("message_id", aws.ToString(out.MessageId)).Str("attachment", n.AttachmentFilename(start)).Msg("raw email accepted")
	return nil
}

func (n *Notifier) sendFallback(ctx context.Context, preview string, start, end time.Time, errorCount int) error {
	body := n.fallbackBody(preview, start, end, errorCount)

	out, err := n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(n.cfg.SenderEmail),
		Destination:      &types.Destination{ToAddresses: n.cfg.Recipients},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(n.subject())},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send simple email: %w", err)
	}
	log.Info().Str("message_id", aws.ToString(out.MessageId)).Msg("simple email accepted")
	return nil
}

// alertBody is the plain-text body accompanying the attached report.
func (n *Notifier) alertBody(start, end time.Time, errorCount int, summary model.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, `%s %s Error Alert - %s

================================================================================

MONITORING PERIOD
  Time Range: %s to %s UTC
  Duration: %d minutes

ALERT SUMMARY
  Total Errors Found: %d
  Project: %s
  Environment: %s
  Service: %s
  Affected Log Groups: %d

LOG GROUP BREAKDOWN
`,
		n.cfg.ProjectName, n.cfg.ServiceName, n.cfg.Environment,
		start.Format("2006-01-02 15:04:05"), end.Format("2006-01-02 15:04:05"),
		n.cfg.IntervalMinutes,
		errorCount,
		n.cfg.ProjectName, n.cfg.Environment, n.cfg.ServiceName,
		summary.AffectedLogGroups)

	for _, gc := range summary.BreakdownByCount() {
		fmt.Fprintf(&b, "  - %s: %d errors\n", gc.Group, gc.Count)
	}

	fmt.Fprintf(&b, `
================================================================================

DETAILED INFORMATION
Please review the attached file for complete error logs, timestamps, and
log stream information. The attachment contains full error messages and
context for troubleshooting.

RECOMMENDED ACTIONS
1. Review the attached error report
2. Check CloudWatch Logs for additional context
3. Investigate affected log groups and streams
4. Correlate errors with application deployments or infrastructure changes

================================================================================

This is an automated alert from the %s monitoring system.
Environment: %s
Region: %s
`, n.cfg.ProjectName, n.cfg.Environment, n.cfg.Region)

	return b.String()
}

// fallbackBody carries a preview of the report when it could not be attached.
func (n *Notifier) fallbackBody(preview string, start, end time.Time, errorCount int) string {
	return fmt.Sprintf(`%s %s Error Alert - %s

Time Range: %s to %s UTC
Total Errors Found: %d
Project: %s
Environment: %s
Service: %s

ERROR LOG PREVIEW (First %d characters):
%s

Note: This is a fallback notification. The complete error report could not be attached.
Please check CloudWatch Logs for full details.

This is an automated alert from the %s monitoring system.
Environment: %s
`,
		n.cfg.ProjectName, n.cfg.ServiceName, n.cfg.Environment,
		start.Format("2006-01-02 15:04:05"), end.Format("2006-01-02 15:04:05"),
		errorCount,
		n.cfg.ProjectName, n.cfg.Environment, n.cfg.ServiceName,
		previewLimit, preview,
		n.cfg.ProjectName, n.cfg.Environment)
}
