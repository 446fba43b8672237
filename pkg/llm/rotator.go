package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/contentforge/contentforge/pkg/config"
)

// ErrExhausted indicates that every credential in the rotation failed for a
// single generate call. The caller decides whether to abandon the keyword,
// the rotator never retries past one full wrap-around.
var ErrExhausted = errors.New("all credentials exhausted")

// Rotator distributes generation calls across multiple API credentials.
// Each call starts at the cursor and tries credentials in order, wrapping
// around the set at most once. On success the cursor advances to the
// credential after the one that succeeded, so load spreads round-robin
// instead of hammering the first key.
type Rotator struct {
	clients []*openai.Client
	cfg     config.LLMConfig
	cursor  int
}

// NewRotator creates a rotator over the given ordered credential set.
// An empty set is a setup-fatal condition.
func NewRotator(cfg config.LLMConfig, creds []string) (*Rotator, error) {
	if len(creds) == 0 {
		return nil, errors.New("no valid credentials provided")
	}

	// the default http client has no timeout, a hung completion request
	// would block the single-threaded run forever
	httpClient := &http.Client{Timeout: cfg.Timeout}

	clients := make([]*openai.Client, len(creds))
	for i, key := range creds {
		clientConfig := openai.DefaultConfig(key)
		clientConfig.HTTPClient = httpClient
		if cfg.Endpoint != "" {
			clientConfig.BaseURL = cfg.Endpoint
		}
		clients[i] = openai.NewClientWithConfig(clientConfig)
	}

	return &Rotator{clients: clients, cfg: cfg}, nil
}

// Size returns the number of credentials in the rotation
func (r *Rotator) Size() int { return len(r.clients) }

// Generate sends the prompt through the rotation and returns the raw model
// output. Individual credential failures are classified for logging and the
// next credential is tried; once all fail the call returns ErrExhausted.
func (r *Rotator) Generate(ctx context.Context, prompt string) (string, error) {
	n := len(r.clients)

	for attempt := 0; attempt < n; attempt++ {
		idx := (r.cursor + attempt) % n

		resp, err := r.clients[idx].CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       r.cfg.Model,
			Temperature: float32(r.cfg.Temperature),
			MaxTokens:   r.cfg.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lgr.Printf("[WARN] credential %d/%d failed (%s): %v", idx+1, n, classifyError(err), err)
			continue
		}

		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			lgr.Printf("[WARN] credential %d/%d returned empty response", idx+1, n)
			continue
		}

		r.cursor = (idx + 1) % n
		return resp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w after %d attempts", ErrExhausted, n)
}

// classifyError maps a provider error to a coarse category for diagnostics.
// The category never changes control flow, rotation continues regardless.
func classifyError(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return "rate-limit"
		case http.StatusUnauthorized:
			return "invalid-credential"
		case http.StatusForbidden:
			return "permission-denied"
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit"):
		return "rate-limit"
	case strings.Contains(msg, "api key") || strings.Contains(msg, "unauthorized"):
		return "invalid-credential"
	case strings.Contains(msg, "permission"):
		return "permission-denied"
	}
	return "other"
}
