package document

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/invoicehub/invoice-audit/internal/models"
)

// ProcessorConfig holds model endpoint configuration. BaseURL allows
// any OpenAI-compatible provider.
type ProcessorConfig struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	VisionModel string
	MaxTokens   int
	Temperature float32
}

// Processor turns an uploaded document into the two model outputs the
// audit engine consumes: a human-readable description and a structured
// JSON string. Both are untrusted text.
type Processor struct {
	client *openai.Client
	cfg    ProcessorConfig
	logger *zap.Logger
}

// NewProcessor creates a document processor.
func NewProcessor(cfg ProcessorConfig, logger *zap.Logger) *Processor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Processor{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: logger,
	}
}

// Process runs the description and structured-extraction calls for the
// given file content. fileType comes from DetectFileType.
func (p *Processor) Process(ctx context.Context, content []byte, fileType string) (description, structured string, err error) {
	if fileType == models.FileTypeImage {
		return p.processImage(ctx, content)
	}
	return p.processText(ctx, content)
}

// processImage sends the image to the vision model twice: once for the
// readable description, once for the structured JSON.
func (p *Processor) processImage(ctx context.Context, content []byte) (string, string, error) {
	base64Image := base64.StdEncoding.EncodeToString(content)
	imageURL := fmt.Sprintf("data:image/jpeg;base64,%s", base64Image)

	description, err := p.completeVision(ctx, describeImagePrompt, imageURL, p.cfg.MaxTokens)
	if err != nil {
		return "", "", fmt.Errorf("image description failed: %w", err)
	}

	structured, err := p.completeVision(ctx, structuredPrompt, imageURL, p.cfg.MaxTokens/2)
	if err != nil {
		return "", "", fmt.Errorf("structured extraction failed: %w", err)
	}

	p.logger.Info("Image processed",
		zap.Int("description_length", len(description)),
		zap.Int("structured_length", len(structured)))

	return description, structured, nil
}

// processText extracts the text layer and sends it to the text model.
// Content is truncated so oversized documents stay within token limits.
func (p *Processor) processText(ctx context.Context, content []byte) (string, string, error) {
	text := ExtractText(content)

	description, err := p.complete(ctx, p.cfg.TextModel,
		fmt.Sprintf(describeTextPrompt, truncate(text, 4000)), p.cfg.MaxTokens)
	if err != nil {
		return "", "", fmt.Errorf("document description failed: %w", err)
	}

	structured, err := p.complete(ctx, p.cfg.TextModel,
		fmt.Sprintf(structuredTextPrompt, truncate(text, 2000)), p.cfg.MaxTokens/2)
	if err != nil {
		return "", "", fmt.Errorf("structured extraction failed: %w", err)
	}

	p.logger.Info("Text document processed",
		zap.Int("text_length", len(text)),
		zap.Int("description_length", len(description)))

	return description, structured, nil
}

// complete runs a single text completion and returns the raw content.
func (p *Processor) complete(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: p.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		p.logger.Error("Model call failed", zap.String("model", model), zap.Error(err))
		return "", fmt.Errorf("model call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model %s", model)
	}
	return resp.Choices[0].Message.Content, nil
}

// completeVision runs a single vision completion over one image.
func (p *Processor) completeVision(ctx context.Context, prompt, imageURL string, maxTokens int) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.cfg.VisionModel,
		MaxTokens:   maxTokens,
		Temperature: p.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: imageURL},
					},
				},
			},
		},
	})
	if err != nil {
		p.logger.Error("Vision model call failed", zap.String("model", p.cfg.VisionModel), zap.Error(err))
		return "", fmt.Errorf("vision model call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model %s", p.cfg.VisionModel)
	}
	return resp.Choices[0].Message.Content, nil
}

// truncate limits text to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
