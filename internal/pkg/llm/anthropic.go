package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

const DefaultAnthropicModel = "claude-3-5-haiku-latest"

var ErrEmptyCompletion = errors.New("language model returned no text")

type AnthropicClient struct {
	client anthropic.Client
	model  string
	log    *zap.Logger
}

// NewAnthropicClient builds a Messages API client. SDK-level retries are
// disabled: transport failures surface on first occurrence. Extra options
// are applied last.
func NewAnthropicClient(apiKey, model string, log *zap.Logger, opts ...option.RequestOption) *AnthropicClient {
	if model == "" {
		model = DefaultAnthropicModel
	}
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		model:  model,
		log:    log,
	}
}

func (c *AnthropicClient) SourceName() string { return "Claude" }

func (c *AnthropicClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		c.log.Error("Anthropic request failed", zap.String("model", c.model), zap.Error(err))
		return "", err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyCompletion
	}

	c.log.Debug("Anthropic completion",
		zap.String("model", c.model),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
		zap.String("stop_reason", string(msg.StopReason)))

	return sb.String(), nil
}
