package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"worksheet-studio/internal/config"
	"worksheet-studio/internal/domain"
	"worksheet-studio/internal/logger"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ContentPart is one element of a multi-part (vision) payload. Exactly one
// of Text or ImageData is set; image parts are inlined as data URIs.
type ContentPart struct {
	Text      string
	ImageData string // base64-encoded image bytes
	ImageMIME string
}

// Request describes one chat-completion invocation. Text carries a plain
// prompt; when Parts is non-empty it takes precedence and the request is
// sent as a multi-part user message.
type Request struct {
	Operation   string
	Model       string
	Temperature float64
	MaxTokens   int
	Text        string
	Parts       []ContentPart
}

// Result is the raw model output plus usage counters.
type Result struct {
	Content string
	Usage   domain.Usage
	Model   string
}

// Gateway issues outbound calls to the LLM provider and normalizes its
// response and error shapes. Invoke performs exactly one attempt;
// InvokeWithRetry tolerates transient failures and is used by the vision
// grading path only.
type Gateway interface {
	Invoke(ctx context.Context, req Request) (*Result, error)
	InvokeWithRetry(ctx context.Context, req Request) (*Result, error)
}

// Client implements Gateway against an OpenRouter-compatible
// chat-completions endpoint.
type Client struct {
	api           *openai.Client
	attempts      int
	wait          time.Duration
	visionTimeout time.Duration
}

// NewClient creates a Gateway from the OpenRouter configuration.
func NewClient(cfg config.OpenRouterConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{
		Transport: &envelopeTransport{base: http.DefaultTransport},
	}

	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	wait := cfg.RetryWait
	if wait <= 0 {
		wait = 2 * time.Second
	}
	visionTimeout := cfg.VisionTimeout
	if visionTimeout <= 0 {
		visionTimeout = 60 * time.Second
	}

	return &Client{
		api:           openai.NewClientWithConfig(apiCfg),
		attempts:      attempts,
		wait:          wait,
		visionTimeout: visionTimeout,
	}, nil
}

// Invoke sends exactly one user-role message and returns the raw content
// string plus usage counters. A single failed call surfaces as failure.
func (c *Client) Invoke(ctx context.Context, req Request) (*Result, error) {
	l := logger.Get()

	message := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(req.Parts) > 0 {
		// Vision requests get a bounded timeout; text requests rely on
		// the client's defaults.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.visionTimeout)
		defer cancel()

		for _, part := range req.Parts {
			if part.Text != "" {
				message.MultiContent = append(message.MultiContent, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeText,
					Text: part.Text,
				})
				continue
			}
			message.MultiContent = append(message.MultiContent, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", part.ImageMIME, part.ImageData),
				},
			})
		}
	} else {
		message.Content = req.Text
	}

	l.Info("Calling LLM provider",
		zap.String("operation", req.Operation),
		zap.String("model", req.Model),
		zap.Int("parts", len(req.Parts)))

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    []openai.ChatCompletionMessage{message},
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		mapped := classifyError(err)
		l.Warn("LLM call failed",
			zap.String("operation", req.Operation),
			zap.String("model", req.Model),
			zap.Error(mapped))
		return nil, mapped
	}

	if len(resp.Choices) == 0 {
		return nil, &MalformedResponseError{Detail: "no choices in response"}
	}

	result := &Result{
		Content: resp.Choices[0].Message.Content,
		Usage: domain.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Model: resp.Model,
	}

	fields := []zap.Field{
		zap.String("operation", req.Operation),
		zap.String("model", req.Model),
		zap.Int("prompt_tokens", result.Usage.PromptTokens),
		zap.Int("completion_tokens", result.Usage.CompletionTokens),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	}
	if cost := LookupCost(req.Model); cost != nil {
		fields = append(fields, zap.Float64("cost_usd",
			cost.Cost(result.Usage.PromptTokens, result.Usage.CompletionTokens)))
	}
	l.Info("LLM call succeeded", fields...)

	return result, nil
}

// InvokeWithRetry performs up to the configured number of attempts with a
// fixed wait between them. Only transport errors and upstream 429/502/503
// responses are retried; everything else fails immediately.
func (c *Client) InvokeWithRetry(ctx context.Context, req Request) (*Result, error) {
	l := logger.Get()

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			l.Info("Retrying LLM call",
				zap.String("operation", req.Operation),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.attempts))
		}

		result, err := c.Invoke(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}
		if attempt == c.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, &TransportError{Err: ctx.Err()}
		case <-time.After(c.wait):
		}
	}

	l.Error("All LLM retry attempts failed",
		zap.String("operation", req.Operation),
		zap.Int("attempts", c.attempts),
		zap.Error(lastErr))
	return nil, lastErr
}

// errorEnvelope is the error body OpenRouter returns for upstream
// failures, sometimes inside a 200 response.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// envelopeTransport rewrites a 2xx response carrying an error envelope to
// the envelope's status code, so it flows through the SDK's error path and
// surfaces as an UpstreamError with that code. 429/502/503 envelopes then
// get the same retry treatment as their HTTP-status counterparts.
type envelopeTransport struct {
	base http.RoundTripper
}

func (t *envelopeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error.Code != 0 {
		resp.StatusCode = env.Error.Code
		resp.Status = fmt.Sprintf("%d %s", env.Error.Code, http.StatusText(env.Error.Code))
	}
	return resp, nil
}

// classifyError maps SDK errors onto the gateway error taxonomy.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Status: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &UpstreamError{Status: reqErr.HTTPStatusCode, Err: err}
	}
	return &TransportError{Err: err}
}

// isRetryable reports whether a classified error belongs to the transient
// subset the vision path retries.
func isRetryable(err error) bool {
	var transport *TransportError
	if errors.As(err, &transport) {
		return true
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return isRetryableStatus(upstream.Status)
	}
	return false
}
