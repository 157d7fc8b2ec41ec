// Package advisor generates personalized financial coaching text from batch
// analytics via the Gemini API. The pipeline never depends on the concrete
// client: callers hold a Generator, so analytics run with zero network
// dependency and tests substitute a mock.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Generator produces advice text for an opaque prompt. Implementations must
// return classified, user-facing error strings rather than raw transport
// errors.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Default request policy. The request is attempted at most twice: a single
// retry after retryDelay on generic failure, never on timeout.
const (
	DefaultModelName = "gemini-2.5-flash"

	requestTimeout = 15 * time.Second
	maxRetries     = 1
	retryDelay     = 2 * time.Second

	maxOutputTokens = 500
	temperature     = 0.7
)

// Classified user-facing failure messages.
var (
	errNotConfigured = errors.New("AI Coach unavailable. Please configure API key.")
	errTimeout       = errors.New("AI Coach taking longer than expected. Using basic analysis.")
	errConnection    = errors.New("AI Coach unavailable. Please check connection.")
	errGeneric       = errors.New("AI Coach unavailable. Using basic analysis.")
)

// GeminiClient is the Gemini-backed Generator.
type GeminiClient struct {
	apiKey string
	model  string
	sleep  func(time.Duration)
}

// NewGeminiClient reads the API key from the GEMINI_API_KEY environment
// variable. A missing key is not an error here; Generate degrades gracefully
// so the analytics surface keeps working without advice.
func NewGeminiClient() *GeminiClient {
	return &GeminiClient{
		apiKey: os.Getenv("GEMINI_API_KEY"),
		model:  DefaultModelName,
		sleep:  time.Sleep,
	}
}

// IsConfigured reports whether an API key is available.
func (c *GeminiClient) IsConfigured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

// Generate requests advice for the prompt, retrying once on generic failure.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", errNotConfigured
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		text, err := c.generateOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		// A timeout already cost the full request budget; don't retry it.
		if errors.Is(err, context.DeadlineExceeded) || attempt == maxRetries {
			break
		}
		c.sleep(retryDelay)
	}

	return "", classify(lastErr)
}

func (c *GeminiClient) generateOnce(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      c.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("advisor: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](temperature),
		MaxOutputTokens: maxOutputTokens,
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("advisor: empty response from model")
	}
	return text, nil
}

// classify maps a transport or API failure to its user-facing message.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errTimeout
	case isConnectionError(err):
		return errConnection
	default:
		return errGeneric
	}
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
