// Package llm wraps the OpenAI-compatible chat endpoint of a local model
// runtime. It is the only component that touches the network; everything else
// sees plain strings, token callbacks, and two distinguishable error kinds.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is the OpenAI-compatible endpoint of a locally running
// runtime.
const DefaultBaseURL = "http://localhost:11434/v1"

var (
	// ErrUnavailable means the runtime could not be reached at all.
	ErrUnavailable = errors.New("completion service unavailable")
	// ErrModelNotFound means the runtime is up but the named model is not
	// installed.
	ErrModelNotFound = errors.New("model not found")
)

// Message is one conversation entry sent to the runtime.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is a thin completion client over the runtime's chat API.
type Client struct {
	api *openai.Client
}

// New builds a client for the given base URL. Local runtimes ignore the API
// key but the transport requires one, so a placeholder is used when none is
// configured.
func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiKey == "" {
		apiKey = "local"
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Client{api: openai.NewClientWithConfig(cfg)}
}

// Complete sends the message list and returns the assistant's full response.
func (c *Client) Complete(ctx context.Context, model string, messages []Message) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAI(messages),
	})
	if err != nil {
		return "", classify(err, model)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteStream sends the message list and delivers tokens to onToken in
// arrival order. The stream is finite and not restartable. The accumulated
// response is returned so callers can sanitize the whole text afterwards. A
// non-nil error from onToken aborts the stream.
func (c *Client) CompleteStream(ctx context.Context, model string, messages []Message, onToken func(string) error) (string, error) {
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: toOpenAI(messages),
		Stream:   true,
	})
	if err != nil {
		return "", classify(err, model)
	}
	defer stream.Close()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return full.String(), nil
		}
		if err != nil {
			return full.String(), classify(err, model)
		}
		if len(resp.Choices) == 0 {
			continue
		}

		token := resp.Choices[0].Delta.Content
		if token == "" {
			continue
		}
		full.WriteString(token)
		if err := onToken(token); err != nil {
			return full.String(), err
		}
	}
}

// ListModels returns the model identifiers installed on the runtime.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	list, err := c.api.ListModels(ctx)
	if err != nil {
		return nil, classify(err, "")
	}

	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.ID)
	}
	return names, nil
}

// HasModel reports whether the named model is installed.
func (c *Client) HasModel(ctx context.Context, model string) (bool, error) {
	names, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == model {
			return true, nil
		}
	}
	return false, nil
}

func toOpenAI(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

// classify converts transport errors into the package's error kinds so
// callers can react with errors.Is instead of string matching.
func classify(err error, model string) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusNotFound {
			if model != "" {
				return fmt.Errorf("%w: %q", ErrModelNotFound, model)
			}
			return fmt.Errorf("%w", ErrModelNotFound)
		}
		return fmt.Errorf("completion request failed: %w", err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
