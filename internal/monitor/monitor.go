package monitor

import (
	"context"
	"fmt"
	"time"

	"cloudwatch-error-monitor/internal/client"
	"cloudwatch-error-monitor/internal/config"
	"cloudwatch-error-monitor/internal/extract"
	"cloudwatch-error-monitor/internal/model"
	"cloudwatch-error-monitor/internal/query"
	"cloudwatch-error-monitor/internal/report"

	"github.com/phuslu/log"
)

// Response is the invocation result. Every path returns 200; failures in
// collaborators surface only through logs.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// QueryRunner runs one log-group query for the given window.
type QueryRunner interface {
	Run(ctx context.Context, group string, start, end time.Time) query.Outcome
}

// ReportSender delivers a formatted report.
type ReportSender interface {
	Send(ctx context.Context, document string, start, end time.Time, errorCount int, summary model.Summary)
}

// Monitor drives one invocation: query every configured log group for the
// window, and when anything matched, aggregate, format, and send the report.
type Monitor struct {
	cfg    *config.Config
	runner QueryRunner
	sender ReportSender

	// now is replaced in tests for a fixed window.
	now func() time.Time
}

// New creates a Monitor.
func New(cfg *config.Config, runner QueryRunner, sender ReportSender) *Monitor {
	return &Monitor{cfg: cfg, runner: runner, sender: sender, now: time.Now}
}

// Handle runs one monitoring pass. Log groups are queried sequentially; a
// failed group is logged and skipped, never aborting the batch.
func (m *Monitor) Handle(ctx context.Context) Response {
	start, end := m.cfg.Window(m.now())
	log.Info().
		Str("project", m.cfg.ProjectName).
		Str("service", m.cfg.ServiceName).
		Time("window_start", start).
		Time("window_end", end).
		Int("log_groups", len(m.cfg.LogGroups)).
		Msg("monitoring started")

	var results model.GroupResults
	totalErrors := 0
	failedGroups := 0
	for _, group := range m.cfg.LogGroups {
		out := m.runner.Run(ctx, group, start, end)
		if out.Failed() {
			failedGroups++
			log.Error().Err(out.Err).
				Str("log_group", group).
				Str("error_code", client.ErrorCode(out.Err)).
				Msg("query failed, continuing with remaining groups")
			continue
		}
		if len(out.Records) == 0 {
			log.Info().Str("log_group", group).Msg("no errors found")
			continue
		}
		log.Info().Str("log_group", group).Int("errors", len(out.Records)).Msg("errors found")
		results = append(results, model.GroupResult{Group: group, Records: out.Records})
		totalErrors += len(out.Records)
	}

	if len(results) == 0 {
		log.Info().Int("failed_groups", failedGroups).Msg("no errors detected")
		return Response{
			StatusCode: 200,
			Body:       fmt.Sprintf("No errors found in %s %s", m.cfg.ProjectName, m.cfg.ServiceName),
		}
	}

	log.Warn().Int("total_errors", totalErrors).Int("affected_groups", len(results)).Msg("errors detected")

	summary := report.Summarize(results, totalErrors)
	var patterns []extract.PatternCount
	if m.cfg.ErrorPatternPath != "" {
		patterns = extract.CountPatterns(results, m.cfg.ErrorPatternPath)
	}
	formatter := &report.Formatter{
		Project:         m.cfg.ProjectName,
		Environment:     m.cfg.Environment,
		Service:         m.cfg.ServiceName,
		IntervalMinutes: m.cfg.IntervalMinutes,
	}
	document := formatter.Format(results, start, end, summary, patterns)
	log.Info().Int("report_bytes", len(document)).Msg("report formatted")

	m.sender.Send(ctx, document, start, end, totalErrors, summary)

	return Response{
		StatusCode: 200,
		Body:       fmt.Sprintf("Found and reported %d errors in %s %s", totalErrors, m.cfg.ProjectName, m.cfg.ServiceName),
	}
}
