package sinks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/samvad-hq/catalog-sdk/pkg/httpclient"
)

// loadAWSConfig resolves credentials from the sink config when both keys are
// set, falling back to the default AWS chain otherwise.
func loadAWSConfig(ctx context.Context, c AWSConfig) (aws.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(c.Region)}
	if c.AccessKeyID != "" && c.SecretAccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, ""),
		))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}

// eventAttributes are copied onto queue/topic messages for filtering.
func eventAttributes(evt httpclient.Event) map[string]string {
	attrs := map[string]string{
		"event_kind": string(evt.Kind),
		"request_id": evt.RequestID,
	}
	if evt.ErrorKind != "" {
		attrs["error_kind"] = string(evt.ErrorKind)
	}
	return attrs
}

func marshalEvent(evt httpclient.Event) (string, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return "", fmt.Errorf("marshal event: %w", err)
	}
	return string(payload), nil
}
