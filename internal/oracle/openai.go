package oracle

import (
	"canirun/internal/config"
	"canirun/internal/extract"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

// ErrRejected marks oracle failures that will not succeed on retry, such as
// a bad API key or an unknown model.
var ErrRejected = errors.New("oracle rejected request")

// OpenAI talks to any OpenAI-compatible chat completion endpoint. The default
// configuration points at Google's compatibility endpoint for Gemma.
type OpenAI struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

func NewOpenAI(cfg *config.Config, logger zerolog.Logger) (*OpenAI, error) {
	if cfg.OracleAPIKey == "" {
		return nil, fmt.Errorf("ORACLE_API_KEY is required for the %s oracle (or use the %s oracle)", config.OracleProviderOpenAI, config.OracleProviderRules)
	}

	oc := openai.DefaultConfig(cfg.OracleAPIKey)
	if cfg.OracleBaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.OracleBaseURL, "/")
	}

	logger.Debug().Str("model", cfg.OracleModel).Str("base_url", oc.BaseURL).Msg("initializing oracle client")

	return &OpenAI{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.OracleModel,
		logger: logger,
	}, nil
}

// Extract sends the rendered prompt as a single user message. Gemma models
// on the Gemini API reject system messages, so none is sent.
func (o *OpenAI) Extract(ctx context.Context, req extract.Request) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && isPermanentStatus(apiErr.HTTPStatusCode) {
			return "", fmt.Errorf("%w: %w", ErrRejected, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) && isPermanentStatus(reqErr.HTTPStatusCode) {
			return "", fmt.Errorf("%w: %w", ErrRejected, err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	o.logger.Debug().
		Str("kind", string(req.Kind)).
		Str("finish_reason", string(resp.Choices[0].FinishReason)).
		Str("reply", resp.Choices[0].Message.Content).
		Msg("oracle replied")

	return resp.Choices[0].Message.Content, nil
}

func isPermanentStatus(code int) bool {
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests && code != http.StatusRequestTimeout
}
