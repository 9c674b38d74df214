package main

import (
	"context"
	"encoding/json"
	"strings"

	"cloudwatch-error-monitor/internal/client"
	"cloudwatch-error-monitor/internal/config"
	"cloudwatch-error-monitor/internal/monitor"
	"cloudwatch-error-monitor/internal/notify"
	"cloudwatch-error-monitor/internal/query"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/phuslu/log"
)

func main() {
	log.DefaultLogger.Level = log.InfoLevel
	log.DefaultLogger.TimeFormat = "2006-01-02 15:04:05"

	cfg := config.Load()
	log.Info().
		Str("project", cfg.ProjectName).
		Str("environment", cfg.Environment).
		Str("service", cfg.ServiceName).
		Str("service_type", cfg.ServiceType).
		Str("log_groups", strings.Join(cfg.LogGroups, ",")).
		Int("recipients", len(cfg.Recipients)).
		Int("interval_minutes", cfg.IntervalMinutes).
		Str("region", cfg.Region).
		Msg("configuration loaded")

	ctx := context.Background()
	cw, err := client.NewCloudWatchLogs(ctx, cfg.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create CloudWatch Logs client")
	}
	ses, err := client.NewSES(ctx, cfg.Region)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create SES client")
	}

	runner := query.NewRunner(cw, query.TemplateFor(cfg.ServiceType))
	notifier := notify.New(ses, cfg)
	mon := monitor.New(cfg, runner, notifier)

	// The triggering event carries no information the monitor uses; the
	// window is derived from the invocation time.
	lambda.Start(func(ctx context.Context, _ json.RawMessage) (monitor.Response, error) {
		return mon.Handle(ctx), nil
	})
}
