package planner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/aura-dev/jiractl/internal/debug"
	"github.com/aura-dev/jiractl/internal/telemetry"
)

const aiScope = "github.com/aura-dev/jiractl/ai"

// Completer sends one prompt to a language model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AnthropicCompleter is a Completer backed by the Anthropic Messages API.
type AnthropicCompleter struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64

	// RetryMaxElapsed bounds the time spent retrying transient API errors.
	RetryMaxElapsed time.Duration
	// InitialBackoff is the first retry delay.
	InitialBackoff time.Duration

	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
}

// NewAnthropic returns a completer for model. Extra request options are
// passed to the SDK client (tests use option.WithBaseURL). The SDK's own
// retries are disabled; Complete retries with exponential backoff instead.
func NewAnthropic(apiKey, model string, maxTokens int64, opts ...option.RequestOption) *AnthropicCompleter {
	all := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)

	m := telemetry.Meter(aiScope)
	in, _ := m.Int64Counter("jiractl.ai.input_tokens",
		metric.WithDescription("Anthropic API input tokens consumed"),
		metric.WithUnit("{token}"),
	)
	out, _ := m.Int64Counter("jiractl.ai.output_tokens",
		metric.WithDescription("Anthropic API output tokens generated"),
		metric.WithUnit("{token}"),
	)

	return &AnthropicCompleter{
		client:          anthropic.NewClient(all...),
		model:           anthropic.Model(model),
		maxTokens:       maxTokens,
		RetryMaxElapsed: 2 * time.Minute,
		InitialBackoff:  time.Second,
		inputTokens:     in,
		outputTokens:    out,
	}
}

// Complete implements Completer.
func (a *AnthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	ops := telemetry.NewOps(aiScope, "anthropic")
	ctx, span := ops.Start(ctx, "messages.new", attribute.String("ai.model", string(a.model)))

	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = a.InitialBackoff
	bo.MaxElapsedTime = a.RetryMaxElapsed

	attempts := 0
	var text string
	err := backoff.Retry(func() error {
		attempts++
		message, err := a.client.Messages.New(ctx, params)
		if err != nil {
			if ctx.Err() != nil || !isRetryable(err) {
				return backoff.Permanent(err)
			}
			debug.Logf("anthropic: attempt %d failed: %v\n", attempts, err)
			return err
		}

		modelAttr := attribute.String("ai.model", string(a.model))
		a.inputTokens.Add(ctx, message.Usage.InputTokens, metric.WithAttributes(modelAttr))
		a.outputTokens.Add(ctx, message.Usage.OutputTokens, metric.WithAttributes(modelAttr))

		if len(message.Content) == 0 {
			return backoff.Permanent(fmt.Errorf("unexpected response format: no content blocks"))
		}
		content := message.Content[0]
		if content.Type != "text" {
			return backoff.Permanent(fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type))
		}
		text = content.Text
		return nil
	}, backoff.WithContext(bo, ctx))

	span.SetAttributes(attribute.Int("ai.attempts", attempts))
	span.End(err)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}
	return text, nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	return false
}
