package assist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// ErrNoAPIKey is returned when no API key is configured for direct access.
var ErrNoAPIKey = errors.New("ANTHROPIC_API_KEY environment variable is not set")

// Translator turns a question into a filter.
type Translator interface {
	Translate(ctx context.Context, question string) (*Filter, error)
}

// Completer makes a single text completion.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ClientConfig contains configuration for creating a Claude client.
type ClientConfig struct {
	// Model is the Claude model to use; empty selects the default.
	Model string
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY.
	APIKey string
	// UseAWSBedrock routes requests through AWS Bedrock.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
}

// DefaultModel is used when ClientConfig.Model is empty.
const DefaultModel = anthropic.ModelClaudeSonnet4_20250514

// ClaudeClient is a Completer backed by the Anthropic API.
type ClaudeClient struct {
	inner anthropic.Client
	model anthropic.Model
}

// NewClaudeClient creates a client using an API key or AWS Bedrock.
func NewClaudeClient(cfg ClientConfig) (*ClaudeClient, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}
		opts = append(opts, bedrock.WithLoadDefaultConfig(context.Background(), loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, ErrNoAPIKey
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	model := anthropic.Model(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	if cfg.UseAWSBedrock {
		model = bedrockModel(model)
	}

	return &ClaudeClient{inner: anthropic.NewClient(opts...), model: model}, nil
}

// bedrockModel converts a model name to its Bedrock cross-region inference
// profile. Unknown names are returned unchanged.
func bedrockModel(model anthropic.Model) anthropic.Model {
	profiles := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:         "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.Model("claude-sonnet-4-5-20250929"): "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.Model("claude-haiku-4-5-20251001"):  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaudeOpus4_1_20250805:         "us.anthropic.claude-opus-4-1-20250805-v1:0",
	}
	if p, ok := profiles[model]; ok {
		return anthropic.Model(p)
	}
	return model
}

// Model returns the configured model name.
func (c *ClaudeClient) Model() string {
	return string(c.model)
}

// Complete makes a single API call without tools.
func (c *ClaudeClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", err
	}

	var result strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			result.WriteString(variant.Text)
		}
	}
	return result.String(), nil
}

// ModelTranslator asks a Completer to write a filter.
type ModelTranslator struct {
	completer Completer
}

// NewTranslator creates a translator over c.
func NewTranslator(c Completer) *ModelTranslator {
	return &ModelTranslator{completer: c}
}

// Translate asks the model for a filter answering question.
func (t *ModelTranslator) Translate(ctx context.Context, question string) (*Filter, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: empty question", ErrInvalidFilter)
	}

	reply, err := t.completer.Complete(ctx, SystemPrompt(), question)
	if err != nil {
		return nil, fmt.Errorf("translate question: %w", err)
	}
	f, err := ParseFilter(reply)
	if err != nil {
		return nil, fmt.Errorf("model reply: %w", err)
	}
	return f, nil
}

// SystemPrompt describes the tables and the filter format to the model.
func SystemPrompt() string {
	var b strings.Builder
	b.WriteString("You translate questions about a resource-allocation data set into a JSON row filter.\n\n")
	b.WriteString("Tables and their fields:\n")
	for _, t := range models.Tables() {
		fmt.Fprintf(&b, "- %s: %s\n", t, strings.Join(t.Fields(), ", "))
	}
	b.WriteString("\nSkills and RequiredSkills are comma-separated lists. AvailableSlots and PreferredPhases are JSON arrays of phase numbers.\n")
	b.WriteString("\nReply with one JSON object and nothing else:\n")
	b.WriteString(`{"table": "<table>", "match": "all" | "any", "conditions": [{"field": "<field>", "op": "<op>", "value": <value>}]}`)
	b.WriteString("\n\nOperators: ")
	ops := make([]string, 0, len(Ops()))
	for _, op := range Ops() {
		ops = append(ops, string(op))
	}
	b.WriteString(strings.Join(ops, ", "))
	b.WriteString(". Use includes for list and array membership and empty for blank cells.\n")
	return b.String()
}
