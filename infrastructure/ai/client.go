// Package ai implements the chat-completion client for rationale generation.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"mapkeeper/application/ports"
	pkgerrors "mapkeeper/pkg/errors"
)

// Client performs chat completions against an OpenAI-compatible endpoint.
// It issues exactly one outbound request per call; retrying is the caller's
// decision and currently nobody retries.
type Client struct {
	api openai.Client
}

// NewClient creates a client for the given credentials. An empty baseURL uses
// the default OpenAI endpoint; a custom one enables local or proxy backends.
func NewClient(apiKey, baseURL string) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{api: openai.NewClient(opts...)}
}

// Complete sends the messages upstream and returns the first completion's
// content. When the user message signals a JSON-format expectation the
// request asks for structured JSON output and the reply is checked to parse
// as JSON before being returned.
func (c *Client) Complete(ctx context.Context, messages []ports.Message, opts ports.CompletionOptions) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(opts.Model),
		Messages:    convertMessages(messages),
		Temperature: openai.Float(opts.Temperature),
		MaxTokens:   openai.Int(opts.MaxTokens),
	}

	wantJSON := expectsJSON(messages)
	if wantJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifyError(err)
	}
	if len(completion.Choices) == 0 {
		return "", pkgerrors.NewUpstreamError("completion returned no choices", nil)
	}

	content := completion.Choices[0].Message.Content
	if wantJSON && !json.Valid([]byte(content)) {
		return "", pkgerrors.NewMalformedError("completion content is not valid JSON", nil)
	}

	return content, nil
}

// convertMessages maps prompt turns to the wire format, system message first.
func convertMessages(messages []ports.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			out = append(out, openai.SystemMessage(msg.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

// expectsJSON reports whether any user message asks for JSON output.
func expectsJSON(messages []ports.Message) bool {
	for _, msg := range messages {
		if msg.Role == "user" && strings.Contains(strings.ToLower(msg.Content), "json") {
			return true
		}
	}
	return false
}

// classifyError maps transport failures onto the engine's error taxonomy.
func classifyError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return pkgerrors.NewUnauthorizedError("upstream rejected credentials").WithCause(err)
		case http.StatusTooManyRequests:
			return (&pkgerrors.AppError{
				Type:       pkgerrors.ErrorTypeRateLimit,
				Message:    "upstream rate limited",
				HTTPStatus: http.StatusTooManyRequests,
			}).WithCause(err)
		}
		return pkgerrors.NewUpstreamError("upstream completion failed", err)
	}
	return pkgerrors.NewUpstreamError("completion request failed", err)
}
