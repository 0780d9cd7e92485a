package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// invoker is the subset of the Bedrock runtime client used here
type invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient implements Provider for Amazon Bedrock
type BedrockClient struct {
	Region string
	Model  string

	svc invoker
}

// NewBedrock initializes a Bedrock client using default AWS config chain
func NewBedrock(ctx context.Context, region, model string, timeout time.Duration) (*BedrockClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("bedrock model is required")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := []func(*awsconfig.LoadOptions) error{}
	if strings.TrimSpace(region) != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if timeout > 0 {
		opts = append(opts, awsconfig.WithHTTPClient(awshttp.NewBuildableClient().WithTimeout(timeout)))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("AWS region not resolved. Set ai-region, AWS_REGION or define region in the selected AWS profile")
	}
	return &BedrockClient{Region: cfg.Region, Model: model, svc: bedrockruntime.NewFromConfig(cfg)}, nil
}

// Name returns provider name
func (b *BedrockClient) Name() string { return "bedrock" }

// Complete invokes an Anthropic model through the messages API
func (b *BedrockClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = b.Model
	}
	if detectBedrockFamily(model) != "anthropic" {
		return "", fmt.Errorf("unsupported Bedrock model family for %q", model)
	}
	modelID := normalizeModelID(model)

	payload := map[string]any{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        req.maxTokens(),
		"temperature":       req.Temperature,
		"messages": []any{
			map[string]any{
				"role":    "user",
				"content": []any{map[string]any{"type": "text", "text": req.UserMessage}},
			},
		},
	}
	if req.SystemPrompt != "" {
		payload["system"] = req.SystemPrompt
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	out, err := b.svc.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		apiErr := &APIError{Provider: b.Name(), Err: annotateBedrockError(err, modelID)}
		var respErr *awshttp.ResponseError
		if errors.As(err, &respErr) {
			apiErr.StatusCode = respErr.HTTPStatusCode()
		}
		return "", apiErr
	}

	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode Anthropic response: %w", err)
	}
	for _, c := range resp.Content {
		if c.Type == "text" && c.Text != "" {
			return c.Text, nil
		}
	}
	return "", ErrEmptyResponse
}

// normalizeModelID appends the revision suffix some integrations need; ARNs and
// inference profiles are left alone.
func normalizeModelID(model string) string {
	lower := strings.ToLower(model)
	if strings.HasPrefix(lower, "arn:") || strings.Contains(lower, "inference-profile/") {
		return model
	}
	if !strings.Contains(model, ":") {
		return model + ":0"
	}
	return model
}

func detectBedrockFamily(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.Contains(m, "anthropic."):
		return "anthropic"
	case strings.Contains(m, "meta."):
		return "meta"
	case strings.Contains(m, "amazon.titan"):
		return "titan"
	default:
		return ""
	}
}

// annotateBedrockError adds common hints for Bedrock model ID issues
func annotateBedrockError(err error, modelID string) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "validationexception") && strings.Contains(msg, "throughput isn't supported") {
		return fmt.Errorf("%w\nHint: this model may require an inference profile. Set ai-model to the profile ID/ARN for %q", err, modelID)
	}
	if strings.Contains(msg, "provided model identifier is invalid") {
		return fmt.Errorf("%w\nHint: verify the exact Bedrock ModelId; regional prefixes (us.) and the revision suffix (:0) may be required", err)
	}
	return err
}
