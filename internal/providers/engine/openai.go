package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	"silorealm/internal/domain"
	"silorealm/internal/domain/silo"
)

const defaultOpenAIModel = "gpt-4.1-mini"

const analysisTemperature = 0.7

// chatClient is the slice of the go-openai client the analyzer needs.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	Catalog      *silo.Catalog
	Fallback     Analyzer
	OnFallback   func(reason string, err error)
}

// OpenAIAnalyzer asks a chat model for the structured analysis and falls back to a
// deterministic result on any failure.
type OpenAIAnalyzer struct {
	client     chatClient
	hasKey     bool
	model      string
	catalog    *silo.Catalog
	fallback   Analyzer
	onFallback func(reason string, err error)
}

// NewOpenAIAnalyzer never fails: without a key every call takes the fallback path.
func NewOpenAIAnalyzer(opts OpenAIOptions) *OpenAIAnalyzer {
	cfg := openai.DefaultConfig(strings.TrimSpace(opts.APIKey))
	if base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); base != "" {
		cfg.BaseURL = base
	}
	cfg.OrgID = strings.TrimSpace(opts.Organization)
	return newOpenAIAnalyzer(openai.NewClientWithConfig(cfg), opts)
}

func newOpenAIAnalyzer(client chatClient, opts OpenAIOptions) *OpenAIAnalyzer {
	catalog := opts.Catalog
	if catalog == nil {
		catalog = silo.Default()
	}
	fallback := opts.Fallback
	if fallback == nil {
		fallback = NewStaticAnalyzer(catalog)
	}
	return &OpenAIAnalyzer{
		client:     client,
		hasKey:     strings.TrimSpace(opts.APIKey) != "",
		model:      coalesce(opts.Model, defaultOpenAIModel),
		catalog:    catalog,
		fallback:   fallback,
		onFallback: opts.OnFallback,
	}
}

type modelPayload struct {
	SiloPrediction struct {
		PrimarySilo    string   `json:"primary_silo"`
		Confidence     *float64 `json:"confidence"`
		SecondarySilos []string `json:"secondary_silos"`
	} `json:"silo_prediction"`
	ColorProfile      ColorProfile      `json:"color_profile"`
	FrequencyAnalysis FrequencyAnalysis `json:"frequency_analysis"`
	PersonalityNotes  string            `json:"personality_notes"`
}

func (o *OpenAIAnalyzer) Analyze(ctx context.Context, req domain.GenerationRequest) (*Result, error) {
	if !o.hasKey {
		return o.useFallback(ctx, req, "missing_api_key", domain.ErrMissingAPIKey)
	}
	userPrompt, err := buildUserPrompt(req)
	if err != nil {
		return o.useFallback(ctx, req, "encode_request", err)
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: analysisTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSchemaPrompt(o.catalog.Names())},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return o.useFallback(ctx, req, "http_request", err)
	}
	if len(resp.Choices) == 0 {
		return o.useFallback(ctx, req, "empty_choices", errors.New("no choices"))
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return o.useFallback(ctx, req, "empty_response", errors.New("empty response"))
	}
	parsed, err := parseModelPayload[modelPayload](text)
	if err != nil {
		res, ferr := o.useFallback(ctx, req, "parse_payload", err)
		if res != nil {
			res.PersonalityNotes = truncateRunes(text, rawNotesLimit)
		}
		return res, ferr
	}
	return o.merge(req, parsed), nil
}

// merge fills gaps in the model output from the catalog so the result is always complete.
func (o *OpenAIAnalyzer) merge(req domain.GenerationRequest, parsed modelPayload) *Result {
	profile, ok := o.catalog.Resolve(parsed.SiloPrediction.PrimarySilo)
	if !ok {
		profile = o.catalog.Lookup(req.CategoryHint)
	}
	confidence := 0.5
	if parsed.SiloPrediction.Confidence != nil {
		confidence = clamp01(*parsed.SiloPrediction.Confidence)
	}
	var secondary []string
	for _, name := range parsed.SiloPrediction.SecondarySilos {
		if p, ok := o.catalog.Resolve(name); ok && p.Name != profile.Name {
			secondary = append(secondary, p.Name)
		}
	}

	palette := paletteProfile(profile)
	color := ColorProfile{
		PrimaryHex:     coalesce(parsed.ColorProfile.PrimaryHex, palette.PrimaryHex),
		SecondaryHexes: normalizeWords(parsed.ColorProfile.SecondaryHexes, palette.SecondaryHexes),
		VibeWords:      normalizeWords(parsed.ColorProfile.VibeWords, palette.VibeWords),
	}

	freq := parsed.FrequencyAnalysis
	if req.HasFrequency() {
		local := analyzeFrequency(req.FrequencyHz)
		if freq.InterpretedFrequencyHz == nil {
			freq.InterpretedFrequencyHz = local.InterpretedFrequencyHz
		}
		freq.HasInput = true
		if _, known := BandColor(freq.Band); !known {
			freq.Band = local.Band
		}
	}
	if freq.Band == "" {
		freq.Band, freq.BandColorHex = neutralBand, coalesce(freq.BandColorHex, neutralColor)
	}
	if freq.BandColorHex == "" {
		c, known := BandColor(freq.Band)
		if !known {
			c = neutralColor
		}
		freq.BandColorHex = c
	}

	return &Result{
		SiloPrediction: SiloPrediction{
			PrimarySilo:    profile.Name,
			Confidence:     confidence,
			SecondarySilos: normalizeWords(secondary, []string{}),
		},
		ColorProfile:      color,
		FrequencyAnalysis: freq,
		PersonalityNotes:  coalesce(parsed.PersonalityNotes, profile.Personality),
		Provider:          openAIProviderName,
		Metadata:          map[string]string{"model": o.model},
	}
}

func (o *OpenAIAnalyzer) useFallback(ctx context.Context, req domain.GenerationRequest, reason string, fallbackErr error) (*Result, error) {
	if o.onFallback != nil {
		o.onFallback(reason, fallbackErr)
	}
	res, err := o.fallback.Analyze(ctx, req)
	if res != nil {
		if res.Provider == "" {
			res.Provider = staticProviderName
		}
		if res.Metadata == nil {
			res.Metadata = map[string]string{}
		}
		res.Metadata["fallback_reason"] = reason
	}
	return res, err
}

var _ Analyzer = (*OpenAIAnalyzer)(nil)
