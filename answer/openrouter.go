package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultBaseURL    = "https://openrouter.ai/api/v1"
	defaultModel      = "openai/gpt-4o-mini"
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 2

	systemPrompt = "You are a helpful assistant. Answer the question using only the provided context. " +
		"If the context does not contain the answer, say so."
)

// Config configures the OpenRouter chat-completions client.
type Config struct {
	BaseURL    string        `yaml:"base_url"`
	APIKeyEnv  string        `yaml:"api_key_env"`
	Model      string        `yaml:"model"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// Client answers questions through an OpenRouter-compatible
// chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	client     *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENROUTER_API_KEY"
	}

	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	} else if retries == 0 {
		retries = defaultMaxRetries
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     key,
		model:      cfg.Model,
		maxRetries: retries,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

func (c *Client) Generate(ctx context.Context, question, contextBlock string) (string, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(question, contextBlock)},
		},
	}

	data, err := json.Marshal(&body)
	if err != nil {
		return "", err
	}

	url := c.baseURL + "/chat/completions"

	for attempt := 0; ; attempt++ {
		answer, retryable, err := c.complete(ctx, url, data)
		if err == nil {
			return answer, nil
		}

		if !retryable || attempt >= c.maxRetries {
			return "", err
		}

		if err := sleep(ctx, retryDelay(attempt)); err != nil {
			return "", err
		}
	}
}

func (c *Client) complete(ctx context.Context, url string, data []byte) (answer string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", false, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retryable, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	var out chatResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if len(out.Choices) == 0 {
		return "", false, fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}

	return out.Choices[0].Message.Content, false, nil
}

func buildPrompt(question, contextBlock string) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	b.WriteString(contextBlock)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

func retryDelay(attempt int) time.Duration {
	base := 500 * time.Millisecond

	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}

	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
