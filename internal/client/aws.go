package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

// NewCloudWatchLogs loads AWS configuration for the given region and returns
// a CloudWatch Logs client. region may be empty to use default resolution;
// credentials come from the default chain (the execution role under Lambda).
func NewCloudWatchLogs(ctx context.Context, region string) (*cloudwatchlogs.Client, error) {
	cfg, err := loadConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return cloudwatchlogs.NewFromConfig(cfg), nil
}

// NewSES returns an SES v2 client for the given region.
func NewSES(ctx context.Context, region string) (*sesv2.Client, error) {
	cfg, err := loadConfig(ctx, region)
	if err != nil {
		return nil, err
	}
	return sesv2.NewFromConfig(cfg), nil
}

func loadConfig(ctx context.Context, region string) (aws.Config, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	return config.LoadDefaultConfig(ctx, opts...)
}
