package image

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIImageModel = "gpt-image-1"

// openAIImageClient is the slice of the go-openai client used for image calls.
type openAIImageClient interface {
	CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error)
	CreateEditImage(ctx context.Context, req openai.ImageEditRequest) (openai.ImageResponse, error)
}

type OpenAIOptions struct {
	APIKey       string
	BaseURL      string
	Organization string
	Model        string
	Timeout      time.Duration
}

// OpenAIGenerator edits the uploaded selfie when one is present and generates from text
// otherwise.
type OpenAIGenerator struct {
	client  openAIImageClient
	hasKey  bool
	model   string
	timeout time.Duration
}

func NewOpenAIGenerator(opts OpenAIOptions) *OpenAIGenerator {
	cfg := openai.DefaultConfig(strings.TrimSpace(opts.APIKey))
	if base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); base != "" {
		cfg.BaseURL = base
	}
	cfg.OrgID = strings.TrimSpace(opts.Organization)
	return newOpenAIGenerator(openai.NewClientWithConfig(cfg), opts)
}

func newOpenAIGenerator(client openAIImageClient, opts OpenAIOptions) *OpenAIGenerator {
	return &OpenAIGenerator{
		client:  client,
		hasKey:  strings.TrimSpace(opts.APIKey) != "",
		model:   coalesce(opts.Model, defaultOpenAIImageModel),
		timeout: opts.Timeout,
	}
}

func (g *OpenAIGenerator) String() string {
	return "openai"
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) Result {
	if !g.hasKey {
		return none(ReasonMissingAPIKey)
	}
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	size := coalesce(req.Size, DefaultSize)
	var (
		resp openai.ImageResponse
		err  error
	)
	if req.HasImage() {
		resp, err = g.edit(ctx, req, size)
	} else {
		imgReq := openai.ImageRequest{
			Prompt: req.Prompt,
			Model:  g.model,
			N:      1,
			Size:   size,
		}
		if g.acceptsResponseFormat() {
			imgReq.ResponseFormat = openai.CreateImageResponseFormatB64JSON
		}
		resp, err = g.client.CreateImage(ctx, imgReq)
	}
	if err != nil {
		return none(failureReason(err))
	}
	return fromOpenAIResponse(resp)
}

// edit uploads the selfie with a filename and content type so the API can detect its format.
func (g *OpenAIGenerator) edit(ctx context.Context, req Request, size string) (openai.ImageResponse, error) {
	mime := coalesce(req.ImageMIME, "image/png")
	editReq := openai.ImageEditRequest{
		Image:  openai.WrapReader(bytes.NewReader(req.Image), "selfie"+extensionFor(mime), mime),
		Prompt: req.Prompt,
		Model:  g.model,
		N:      1,
		Size:   size,
	}
	if g.acceptsResponseFormat() {
		editReq.ResponseFormat = openai.CreateImageResponseFormatB64JSON
	}
	return g.client.CreateEditImage(ctx, editReq)
}

// gpt-image models always answer with base64 and reject response_format.
func (g *OpenAIGenerator) acceptsResponseFormat() bool {
	return strings.HasPrefix(g.model, "dall-e")
}

func fromOpenAIResponse(resp openai.ImageResponse) Result {
	if len(resp.Data) == 0 {
		return none(ReasonMissingOutput)
	}
	first := resp.Data[0]
	switch {
	case strings.TrimSpace(first.URL) != "":
		return Result{Kind: KindURL, Payload: first.URL}
	case strings.TrimSpace(first.B64JSON) != "":
		return Result{Kind: KindInlineBytes, Payload: first.B64JSON, MIME: "image/png"}
	}
	return none(ReasonMissingOutput)
}

var _ Generator = (*OpenAIGenerator)(nil)
