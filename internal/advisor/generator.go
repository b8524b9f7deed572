package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/artur-t-96/MINDY/internal/parser"
)

// ErrUnavailable is returned by generators without credentials.
var ErrUnavailable = errors.New("text generation is not configured")

// DefaultModel is used when the configuration names none.
const DefaultModel = "claude-sonnet-4-20250514"

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	_ parser.Interpreter = (*Anthropic)(nil)
	_ parser.Interpreter = Unavailable{}
)

// Unavailable is the generator used when no API key is configured.
type Unavailable struct{}

// Generate always fails with ErrUnavailable.
func (Unavailable) Generate(context.Context, string) (string, error) {
	return "", ErrUnavailable
}

// Anthropic generates text with the Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropic creates a generator. Requests are not retried.
func NewAnthropic(apiKey, model string, maxTokens int) *Anthropic {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = 500
	}
	return &Anthropic{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0)),
		model:     model,
		maxTokens: int64(maxTokens),
	}
}

// NewGenerator returns an Anthropic generator, or Unavailable when apiKey is
// empty.
func NewGenerator(apiKey, model string, maxTokens int) Generator {
	if strings.TrimSpace(apiKey) == "" {
		return Unavailable{}
	}
	return NewAnthropic(apiKey, model, maxTokens)
}

// Generate sends prompt as a single user message and joins the text blocks
// of the reply.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", errors.New("anthropic reply carried no text")
	}
	return text, nil
}
