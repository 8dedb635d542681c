package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	openAIAPIURL      = "https://api.openai.com/v1/chat/completions"
	llmRequestTimeout = 30 * time.Second
	llmMaxTries       = 3
)

type OpenAIClient struct {
	apiKey     string
	apiURL     string
	model      string
	httpClient *http.Client
	logger     *zap.Logger
}

type openAIRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenAIClient creates a chat-completions client. An empty API key
// leaves the client disabled; callers fall back to canned explanations.
func NewOpenAIClient(apiKey, model string, logger *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		apiKey: apiKey,
		apiURL: openAIAPIURL,
		model:  model,
		httpClient: &http.Client{
			Timeout: llmRequestTimeout,
		},
		logger: logger,
	}
}

func (c *OpenAIClient) Enabled() bool {
	return c.apiKey != ""
}

// Generate envía el prompt al modelo y devuelve el texto de la primera
// respuesta. Reintenta con backoff exponencial ante errores transitorios.
func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("AI client is disabled")
	}

	operation := func() (string, error) {
		return c.call(ctx, systemPrompt, prompt)
	}

	notify := func(err error, duration time.Duration) {
		c.logger.Info("reintentando llamada al modelo",
			zap.Error(err), zap.Duration("backoff", duration))
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(llmMaxTries),
		backoff.WithNotify(notify))
}

func (c *OpenAIClient) call(ctx context.Context, systemPrompt, prompt string) (string, error) {
	reqBody := openAIRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", backoff.Permanent(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", backoff.Permanent(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		apiErr := fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
		// los errores del cliente no se reintentan
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", backoff.Permanent(apiErr)
		}
		return "", apiErr
	}

	var openAIResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return "", err
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	return openAIResp.Choices[0].Message.Content, nil
}
