package image

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultGeminiImageModel = "gemini-2.5-flash-image"

// geminiModels is the slice of genai.Models used for image generation.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiOptions struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiGenerator renders through Gemini's native image output. The selfie, when present,
// travels as an inline part next to the prompt.
type GeminiGenerator struct {
	models  geminiModels
	model   string
	timeout time.Duration
}

// NewGeminiGenerator builds a generator backed by the Gemini API. Without a key it returns a
// generator that reports missing_api_key on every call.
func NewGeminiGenerator(ctx context.Context, opts GeminiOptions) (*GeminiGenerator, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return newGeminiGenerator(nil, opts), nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newGeminiGenerator(client.Models, opts), nil
}

func newGeminiGenerator(models geminiModels, opts GeminiOptions) *GeminiGenerator {
	return &GeminiGenerator{
		models:  models,
		model:   coalesce(opts.Model, defaultGeminiImageModel),
		timeout: opts.Timeout,
	}
}

func (g *GeminiGenerator) String() string {
	return "gemini"
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) Result {
	if g.models == nil {
		return none(ReasonMissingAPIKey)
	}
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.HasImage() {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: coalesce(req.ImageMIME, "image/png"),
			Data:     req.Image,
		}})
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	})
	if err != nil {
		return none(failureReason(err))
	}
	return fromGeminiResponse(resp)
}

func fromGeminiResponse(resp *genai.GenerateContentResponse) Result {
	if resp == nil {
		return none(ReasonMissingOutput)
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			return Result{
				Kind:    KindInlineBytes,
				Payload: base64.StdEncoding.EncodeToString(part.InlineData.Data),
				MIME:    coalesce(part.InlineData.MIMEType, "image/png"),
			}
		}
	}
	return none(ReasonMissingOutput)
}

var _ Generator = (*GeminiGenerator)(nil)
