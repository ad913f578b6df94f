// Package llm is the gateway to the model service. It speaks the Ollama
// /api/chat protocol but tolerates OpenAI-compatible response shapes, so it
// also works against OpenWebUI-style proxies.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sebastianszewc/localchat/internal/chat"
)

// DefaultBaseURL is the local Ollama endpoint.
const DefaultBaseURL = "http://127.0.0.1:11434"

// ErrNoContent means the service answered but no assistant text could be
// extracted from any known response shape.
var ErrNoContent = errors.New("llm: response contained no assistant content")

// RequestError is a transport or HTTP-status failure reaching the service.
type RequestError struct {
	Status int // 0 when the request never got a response
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("llm: request failed with status %d", e.Status)
	}
	return fmt.Sprintf("llm: request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Options are the sampling parameters sent with every chat call.
type Options struct {
	NumPredict    int
	Temperature   float64
	TopP          float64
	RepeatPenalty float64
}

// DefaultOptions match local chat defaults.
func DefaultOptions() Options {
	return Options{
		NumPredict:    2048,
		Temperature:   0.7,
		TopP:          0.9,
		RepeatPenalty: 1.1,
	}
}

// Client sends non-streaming chat requests. Two underlying HTTP clients:
// normal turns may take minutes on local hardware, planner and title calls
// get a short leash so they cannot stall a turn for long.
type Client struct {
	baseURL string
	opts    Options
	slow    *http.Client
	quick   *http.Client
}

// NewClient creates a client for the given base URL ("" uses DefaultBaseURL).
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		opts:    DefaultOptions(),
		slow:    &http.Client{Timeout: 10 * time.Minute},
		quick:   &http.Client{Timeout: 30 * time.Second},
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Model    string         `json:"model"`
	Messages []wireMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

// Chat sends the full history to the model and returns the assistant reply.
// Roles outside system/user/assistant are coerced to user on the wire.
func (c *Client) Chat(ctx context.Context, model string, history []chat.Message) (string, error) {
	return c.send(ctx, c.slow, model, chat.NormalizeRoles(history))
}

// Quick sends a single user prompt on the short-timeout client. Used by the
// query planner and title generator.
func (c *Client) Quick(ctx context.Context, model, prompt string) (string, error) {
	return c.send(ctx, c.quick, model, []chat.Message{{Role: chat.RoleUser, Content: prompt}})
}

func (c *Client) send(ctx context.Context, hc *http.Client, model string, history []chat.Message) (string, error) {
	msgs := make([]wireMessage, len(history))
	for i, m := range history {
		msgs[i] = wireMessage{Role: string(m.Role), Content: m.Content}
	}

	payload := chatPayload{
		Model:    model,
		Messages: msgs,
		Stream:   false,
		Options: map[string]any{
			"num_predict":    c.opts.NumPredict,
			"temperature":    c.opts.Temperature,
			"top_p":          c.opts.TopP,
			"repeat_penalty": c.opts.RepeatPenalty,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &RequestError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &RequestError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return "", &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", &RequestError{Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RequestError{Err: err}
	}

	content := strings.TrimSpace(ExtractContent(raw))
	if content == "" {
		return "", ErrNoContent
	}
	return content, nil
}
