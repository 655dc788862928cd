package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	// DefaultSourceLanguage and DefaultTargetLanguage are used when no
	// languages are configured.
	DefaultSourceLanguage = "English"
	DefaultTargetLanguage = "French"

	// DefaultTimeout bounds a single model request made by NewOpenAI models.
	DefaultTimeout = 120 * time.Second
)

// ErrNoModel is returned when a ChatTranslator has no chat model.
var ErrNoModel = errors.New("translate: no chat model configured")

// ChatOption configures a ChatTranslator.
type ChatOption func(*ChatTranslator)

// WithLanguages sets the source and target language names used in prompts.
func WithLanguages(source, target string) ChatOption {
	return func(c *ChatTranslator) {
		if source != "" {
			c.source = source
		}
		if target != "" {
			c.target = target
		}
	}
}

// WithContext adds a short description of the material, for example
// "dialogue from a webtoon", to the system prompt.
func WithContext(description string) ChatOption {
	return func(c *ChatTranslator) {
		c.context = description
	}
}

// WithSystemPrompt replaces the generated system prompt entirely.
func WithSystemPrompt(prompt string) ChatOption {
	return func(c *ChatTranslator) {
		c.systemPrompt = prompt
	}
}

// ChatTranslator translates through an eino chat model.
type ChatTranslator struct {
	model        model.BaseChatModel
	source       string
	target       string
	context      string
	systemPrompt string
}

var _ Translator = (*ChatTranslator)(nil)

// NewChatTranslator creates a translator backed by m.
func NewChatTranslator(m model.BaseChatModel, opts ...ChatOption) *ChatTranslator {
	c := &ChatTranslator{
		model:  m,
		source: DefaultSourceLanguage,
		target: DefaultTargetLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate sends text with the prior dialogue and returns the model's
// answer with reasoning spans removed.
func (c *ChatTranslator) Translate(ctx context.Context, text string, history []string) (string, error) {
	if c.model == nil {
		return "", ErrNoModel
	}

	resp, err := c.model.Generate(ctx, c.Messages(text, history))
	if err != nil {
		return "", fmt.Errorf("translate: generate: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyTranslation
	}

	out := StripThinking(resp.Content)
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}

// Messages builds the chat input for one request.
func (c *ChatTranslator) Messages(text string, history []string) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(c.buildSystemPrompt()),
		schema.UserMessage(buildUserPrompt(text, history)),
	}
}

func (c *ChatTranslator) buildSystemPrompt() string {
	if c.systemPrompt != "" {
		return c.systemPrompt
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "You translate %s into %s.", c.source, c.target)
	if c.context != "" {
		fmt.Fprintf(&sb, " Context: %s.", c.context)
	}
	sb.WriteString(" Keep the tone and register of the original.")
	sb.WriteString(" Answer with the translation only, without quotes, notes or explanations.")
	return sb.String()
}

func buildUserPrompt(text string, history []string) string {
	var sb strings.Builder
	if len(history) > 0 {
		sb.WriteString("Previous lines, already translated:\n")
		for _, line := range history {
			sb.WriteString("- ")
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("Translate:\n")
	sb.WriteString(text)
	return sb.String()
}

// OpenAIConfig configures an OpenAI-compatible chat model. BaseURL may point
// at any compatible server, such as a local Ollama instance
// (http://localhost:11434/v1).
type OpenAIConfig struct {
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewOpenAI creates an eino chat model for an OpenAI-compatible endpoint.
func NewOpenAI(ctx context.Context, cfg OpenAIConfig) (model.BaseChatModel, error) {
	if cfg.Model == "" {
		return nil, errors.New("translate: model name is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	chatModelConfig := &openai.ChatModelConfig{
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	}
	if cfg.BaseURL != "" {
		chatModelConfig.BaseURL = cfg.BaseURL
	}

	chatModel, err := openai.NewChatModel(ctx, chatModelConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return chatModel, nil
}
