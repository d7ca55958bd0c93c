package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pulsefit/pulsefit-backend/internal/httpx"
	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/utils"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "gpt-4o"
	defaultTemperature = 0.2
	defaultTimeoutSec  = 120
	defaultMaxRetries  = 2
)

// Completion is one successful model response.
type Completion struct {
	Text  string
	Model string
	Usage json.RawMessage
}

type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxRetries  int
	httpClient  *http.Client
	log         *logger.Logger
}

func NewClient(baseLog *logger.Logger) (*Client, error) {
	log := baseLog.With("client", "OpenAIClient")

	apiKey := utils.GetEnv("OPENAI_API_KEY", "", log)
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	temperature := defaultTemperature
	if raw := utils.GetEnv("OPENAI_TEMPERATURE", "", log); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			temperature = parsed
		} else {
			log.Warn("invalid OPENAI_TEMPERATURE, using default", "value", raw, "default", defaultTemperature)
		}
	}

	timeout := time.Duration(utils.GetEnvAsInt("OPENAI_TIMEOUT_SEC", defaultTimeoutSec, log)) * time.Second

	return &Client{
		apiKey:      apiKey,
		baseURL:     utils.GetEnv("OPENAI_BASE_URL", defaultBaseURL, log),
		model:       utils.GetEnv("OPENAI_MODEL", defaultModel, log),
		temperature: temperature,
		maxRetries:  utils.GetEnvAsInt("OPENAI_MAX_RETRIES", defaultMaxRetries, log),
		httpClient:  &http.Client{Timeout: timeout},
		log:         log,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage json.RawMessage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("openai: status %d: %s", e.status, e.message)
}

func (e *apiError) HTTPStatusCode() int { return e.status }

// Complete sends the prompt as a single user message to the chat
// completions endpoint, retrying transient failures with backoff.
func (c *Client) Complete(ctx context.Context, prompt string) (*Completion, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			sleep := httpx.JitterSleep(time.Duration(attempt) * 2 * time.Second)
			c.log.Warn("retrying completion call", "attempt", attempt, "sleep", sleep, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(sleep):
			}
		}

		completion, err := c.doComplete(ctx, body)
		if err == nil {
			return completion, nil
		}
		lastErr = err
		if !httpx.IsRetryableError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) doComplete(ctx context.Context, body []byte) (*Completion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var parsed chatResponse
		message := string(respBody)
		if json.Unmarshal(respBody, &parsed) == nil && parsed.Error != nil {
			message = parsed.Error.Message
		}
		return nil, &apiError{status: resp.StatusCode, message: message}
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, &apiError{status: http.StatusBadGateway, message: "response contained no choices"}
	}

	c.log.Debug("completion call finished",
		"model", parsed.Model,
		"finish_reason", parsed.Choices[0].FinishReason,
		"elapsed", time.Since(start),
	)

	return &Completion{
		Text:  parsed.Choices[0].Message.Content,
		Model: parsed.Model,
		Usage: parsed.Usage,
	}, nil
}
