package cloud

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

const localRegion = "us-east-1"

// LoadAWSConfig loads the default AWS config shared by the Secrets Manager,
// CloudWatch and SNS clients. AWS_ENDPOINT points all of them at one URL
// (LocalStack); a missing region then falls back to us-east-1.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}
	return withEndpoint(cfg, os.Getenv("AWS_ENDPOINT")), nil
}

func withEndpoint(cfg sdkaws.Config, endpoint string) sdkaws.Config {
	if endpoint == "" {
		return cfg
	}
	cfg.BaseEndpoint = sdkaws.String(endpoint)
	if cfg.Region == "" {
		cfg.Region = localRegion
	}
	return cfg
}
