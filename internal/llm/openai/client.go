package openai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"kb-backend/internal/llm"
	"kb-backend/internal/shared/telemetry"
)

const defaultEmbedMaxChars = 8000

// Config captures the knobs for the OpenAI-backed clients.
type Config struct {
	APIKey         string
	BaseURL        string
	EmbeddingModel string
	ChatModel      string
	EmbedMaxChars  int
}

// Client implements llm.Embedder and llm.Completer using the OpenAI API.
type Client struct {
	api            *openai.Client
	embeddingModel string
	chatModel      string
	embedMaxChars  int
}

// NewClient constructs a new OpenAI client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(cfg.EmbeddingModel) == "" {
		return nil, fmt.Errorf("EMBEDDING_MODEL is required")
	}
	if strings.TrimSpace(cfg.ChatModel) == "" {
		return nil, fmt.Errorf("CHAT_MODEL is required")
	}

	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		apiCfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}

	maxChars := cfg.EmbedMaxChars
	if maxChars <= 0 {
		maxChars = defaultEmbedMaxChars
	}

	return &Client{
		api:            openai.NewClientWithConfig(apiCfg),
		embeddingModel: cfg.EmbeddingModel,
		chatModel:      cfg.ChatModel,
		embedMaxChars:  maxChars,
	}, nil
}

// Embed returns the embedding vector for text. Input longer than the
// configured character budget is truncated to that prefix before submission,
// so long documents are embedded only by their leading portion.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	input := truncateChars(text, c.embedMaxChars)

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.embeddingModel),
		Input: []string{input},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", llm.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", llm.ErrEmbeddingUnavailable)
	}

	raw := resp.Data[0].Embedding
	vector := make([]float64, len(raw))
	for i, v := range raw {
		vector[i] = float64(v)
	}

	telemetry.Info("llm.embed", map[string]any{
		"model":       c.embeddingModel,
		"input_chars": len(input),
		"dimension":   len(vector),
	})
	return vector, nil
}

// Complete issues one chat completion and returns its primary text output verbatim.
func (c *Client) Complete(ctx context.Context, messages []llm.Message, temperature float32) (string, error) {
	reqMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		reqMessages = append(reqMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    reqMessages,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", llm.ErrCompletionUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response missing choices", llm.ErrCompletionUnavailable)
	}

	if resp.Usage.TotalTokens > 0 {
		telemetry.Info("llm.complete", map[string]any{
			"model":             c.chatModel,
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
			"total_tokens":      resp.Usage.TotalTokens,
		})
	}

	return resp.Choices[0].Message.Content, nil
}

// truncateChars cuts s to at most max characters without splitting a rune.
func truncateChars(s string, max int) string {
	if max <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

var (
	_ llm.Embedder  = (*Client)(nil)
	_ llm.Completer = (*Client)(nil)
)
