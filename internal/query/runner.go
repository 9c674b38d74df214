package query

import (
	"context"
	"fmt"
	"time"

	"cloudwatch-error-monitor/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/phuslu/log"
)

// LogsAPI is the subset of the CloudWatch Logs API the runner uses.
type LogsAPI interface {
	StartQuery(ctx context.Context, params *cloudwatchlogs.StartQueryInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.StartQueryOutput, error)
	GetQueryResults(ctx context.Context, params *cloudwatchlogs.GetQueryResultsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetQueryResultsOutput, error)
}

const (
	pollInterval = 2 * time.Second
	maxWait      = 60 * time.Second
)

// Outcome is the tagged result of querying one log group: matched records on
// success, or a reason in Err when the query failed, was cancelled, or timed
// out. A failed group never aborts the run; the caller logs and moves on.
type Outcome struct {
	Group   string
	Records []model.Record
	Err     error
}

// Failed reports whether the query produced no usable result.
func (o Outcome) Failed() bool { return o.Err != nil }

// Runner submits Insights queries and polls them to completion.
type Runner struct {
	client      LogsAPI
	queryString string

	// wait is replaced in tests to avoid real sleeps.
	wait func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a Runner for the given query string.
func NewRunner(client LogsAPI, queryString string) *Runner {
	return &Runner{client: client, queryString: queryString, wait: waitFor}
}

// Run executes one query against the given log group for the [start, end)
// window, polling every 2s up to a 60s ceiling.
func (r *Runner) Run(ctx context.Context, group string, start, end time.Time) Outcome {
	out, err := r.client.StartQuery(ctx, &cloudwatchlogs.StartQueryInput{
		LogGroupName: aws.String(group),
		QueryString:  aws.String(r.queryString),
		StartTime:    aws.Int64(start.UnixMilli()),
		EndTime:      aws.Int64(end.UnixMilli()),
	})
	if err != nil {
		return Outcome{Group: group, Err: fmt.Errorf("start query: %w", err)}
	}
	queryID := aws.ToString(out.QueryId)
	log.Info().Str("log_group", group).Str("query_id", queryID).Msg("query started")

	for elapsed := time.Duration(0); elapsed < maxWait; elapsed += pollInterval {
		res, err := r.client.GetQueryResults(ctx, &cloudwatchlogs.GetQueryResultsInput{
			QueryId: aws.String(queryID),
		})
		if err != nil {
			return Outcome{Group: group, Err: fmt.Errorf("get query results: %w", err)}
		}
		switch res.Status {
		case types.QueryStatusComplete:
			return Outcome{Group: group, Records: toRecords(res.Results)}
		case types.QueryStatusFailed:
			return Outcome{Group: group, Err: fmt.Errorf("query failed (id %s)", queryID)}
		case types.QueryStatusCancelled:
			return Outcome{Group: group, Err: fmt.Errorf("query cancelled (id %s)", queryID)}
		}
		if err := r.wait(ctx, pollInterval); err != nil {
			return Outcome{Group: group, Err: err}
		}
	}
	return Outcome{Group: group, Err: fmt.Errorf("query timeout after %s (id %s)", maxWait, queryID)}
}

// toRecords converts Insights result rows, preserving field order.
func toRecords(rows [][]types.ResultField) []model.Record {
	if len(rows) == 0 {
		return nil
	}
	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(model.Record, 0, len(row))
		for _, f := range row {
			if f.Field == nil {
				continue
			}
			rec = append(rec, model.Field{Name: aws.ToString(f.Field), Value: aws.ToString(f.Value)})
		}
		records = append(records, rec)
	}
	return records
}

func waitFor(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
