package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(_ context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestBedrock_Complete(t *testing.T) {
	inv := &fakeInvoker{body: `{"content": [{"type": "text", "text": "Done."}]}`}
	b := &BedrockClient{Model: "anthropic.claude-3-haiku-20240307-v1", svc: inv}

	out, err := b.Complete(context.Background(), NewRequest("", "sys", "user"))
	require.NoError(t, err)
	assert.Equal(t, "Done.", out)
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", *inv.input.ModelId)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(inv.input.Body, &payload))
	assert.Equal(t, "sys", payload["system"])
	assert.EqualValues(t, 1000, payload["max_tokens"])
}

func TestBedrock_UnsupportedFamily(t *testing.T) {
	b := &BedrockClient{Model: "meta.llama3", svc: &fakeInvoker{}}
	_, err := b.Complete(context.Background(), NewRequest("", "", "x"))
	assert.ErrorContains(t, err, "unsupported Bedrock model family")
}

func TestBedrock_InvokeErrorIsAPIError(t *testing.T) {
	b := &BedrockClient{Model: "anthropic.claude", svc: &fakeInvoker{err: assert.AnError}}
	_, err := b.Complete(context.Background(), NewRequest("", "", "x"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bedrock", apiErr.Provider)
	assert.Equal(t, KindFailed, Classify(err))
}

func TestNormalizeModelID(t *testing.T) {
	assert.Equal(t, "anthropic.x:0", normalizeModelID("anthropic.x"))
	assert.Equal(t, "anthropic.x:1", normalizeModelID("anthropic.x:1"))
	arn := "arn:aws:bedrock:us-east-1:1:inference-profile/us.anthropic.x"
	assert.Equal(t, arn, normalizeModelID(arn))
}

func TestNewProviderFromConfig(t *testing.T) {
	_, err := NewProviderFromConfig(context.Background(), Settings{Provider: "openai"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	p, err := NewProviderFromConfig(context.Background(), Settings{APIKey: "sk-x"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	p, err = NewProviderFromConfig(context.Background(), Settings{Provider: "Ollama", Model: "llama3"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	_, err = NewProviderFromConfig(context.Background(), Settings{Provider: "nope"})
	assert.ErrorContains(t, err, "unknown AI provider")
}
