package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"silorealm/internal/domain"
)

type stubChatClient struct {
	resp  openai.ChatCompletionResponse
	err   error
	calls int
	last  openai.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.calls++
	s.last = req
	return s.resp, s.err
}

func reply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{
		Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
	}}}
}

func TestOpenAIAnalyzerParsesModelReply(t *testing.T) {
	stub := &stubChatClient{resp: reply("```json\n" + `{
		"silo_prediction": {"primary_silo": "Cosmic", "confidence": 1.4, "secondary_silos": ["metallic", "Cosmics", "unknown"]},
		"color_profile": {"primary_hex": "#112233", "secondary_hexes": [], "vibe_words": ["stormy", "electric", "Stormy"]},
		"frequency_analysis": {"has_input": false, "interpreted_frequency_hz": null, "band": "", "band_color_hex": ""},
		"personality_notes": "You chase lightning."
	}` + "\n```")}
	a := newOpenAIAnalyzer(stub, OpenAIOptions{APIKey: "sk-test"})

	hz := 432.0
	res, err := a.Analyze(context.Background(), domain.GenerationRequest{
		Mode:        domain.ModeFrequency,
		FreeText:    "thunderstorms",
		FrequencyHz: &hz,
	})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("calls = %d, want 1", stub.calls)
	}
	if stub.last.Model != defaultOpenAIModel {
		t.Fatalf("model = %q, want %q", stub.last.Model, defaultOpenAIModel)
	}
	if stub.last.ResponseFormat == nil || stub.last.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Fatalf("response format not requested as json object: %+v", stub.last.ResponseFormat)
	}
	if !strings.Contains(stub.last.Messages[1].Content, "thunderstorms") {
		t.Fatalf("user prompt missing description: %s", stub.last.Messages[1].Content)
	}
	if res.Provider != openAIProviderName {
		t.Fatalf("Provider = %q", res.Provider)
	}
	if res.SiloPrediction.PrimarySilo != "Cosmics" {
		t.Fatalf("PrimarySilo = %q, want Cosmics", res.SiloPrediction.PrimarySilo)
	}
	if res.SiloPrediction.Confidence != 1 {
		t.Fatalf("Confidence = %v, want clamped 1", res.SiloPrediction.Confidence)
	}
	if got := res.SiloPrediction.SecondarySilos; len(got) != 1 || got[0] != "Metallics" {
		t.Fatalf("SecondarySilos = %v, want [Metallics]", got)
	}
	if res.ColorProfile.PrimaryHex != "#112233" {
		t.Fatalf("PrimaryHex = %q", res.ColorProfile.PrimaryHex)
	}
	if len(res.ColorProfile.SecondaryHexes) == 0 {
		t.Fatal("SecondaryHexes should be filled from the catalog palette")
	}
	if got := res.ColorProfile.VibeWords; len(got) != 2 {
		t.Fatalf("VibeWords = %v, want deduplicated pair", got)
	}
	fa := res.FrequencyAnalysis
	if !fa.HasInput || fa.InterpretedFrequencyHz == nil || *fa.InterpretedFrequencyHz != 432 {
		t.Fatalf("frequency analysis not filled from request: %+v", fa)
	}
	if fa.Band != "mid" || fa.BandColorHex == "" {
		t.Fatalf("band = %q color = %q", fa.Band, fa.BandColorHex)
	}
	if res.PersonalityNotes != "You chase lightning." {
		t.Fatalf("PersonalityNotes = %q", res.PersonalityNotes)
	}
}

func TestOpenAIAnalyzerFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		stub      *stubChatClient
		reason    string
		wantCalls int
	}{
		{name: "missing key", key: "", stub: &stubChatClient{}, reason: "missing_api_key", wantCalls: 0},
		{name: "transport error", key: "sk", stub: &stubChatClient{err: errors.New("boom")}, reason: "http_request", wantCalls: 1},
		{name: "no choices", key: "sk", stub: &stubChatClient{}, reason: "empty_choices", wantCalls: 1},
		{name: "blank content", key: "sk", stub: &stubChatClient{resp: reply("   ")}, reason: "empty_response", wantCalls: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured string
			a := newOpenAIAnalyzer(tc.stub, OpenAIOptions{
				APIKey:     tc.key,
				OnFallback: func(reason string, err error) { captured = reason },
			})
			res, err := a.Analyze(context.Background(), domain.GenerationRequest{CategoryHint: "Royals"})
			if err != nil {
				t.Fatalf("Analyze returned error: %v", err)
			}
			if tc.stub.calls != tc.wantCalls {
				t.Fatalf("calls = %d, want %d", tc.stub.calls, tc.wantCalls)
			}
			if res.Provider != staticProviderName {
				t.Fatalf("Provider = %q, want static", res.Provider)
			}
			if res.Metadata["fallback_reason"] != tc.reason || captured != tc.reason {
				t.Fatalf("fallback reason = %q / %q, want %q", res.Metadata["fallback_reason"], captured, tc.reason)
			}
			if res.SiloPrediction.PrimarySilo != "Royals" {
				t.Fatalf("PrimarySilo = %q, want hint Royals", res.SiloPrediction.PrimarySilo)
			}
		})
	}
}

func TestOpenAIAnalyzerKeepsRawNotesOnNonJSONReply(t *testing.T) {
	raw := strings.Repeat("é", rawNotesLimit+50)
	a := newOpenAIAnalyzer(&stubChatClient{resp: reply(raw)}, OpenAIOptions{APIKey: "sk"})

	res, err := a.Analyze(context.Background(), domain.GenerationRequest{})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if res.Metadata["fallback_reason"] != "parse_payload" {
		t.Fatalf("fallback_reason = %q", res.Metadata["fallback_reason"])
	}
	if got := len([]rune(res.PersonalityNotes)); got != rawNotesLimit {
		t.Fatalf("notes length = %d, want %d", got, rawNotesLimit)
	}
	if res.SiloPrediction.PrimarySilo != "Ethereal" {
		t.Fatalf("PrimarySilo = %q, want Ethereal", res.SiloPrediction.PrimarySilo)
	}
}

func TestOpenAIAnalyzerUnknownSiloUsesHint(t *testing.T) {
	a := newOpenAIAnalyzer(&stubChatClient{resp: reply(`{"silo_prediction":{"primary_silo":"Dragons"}}`)}, OpenAIOptions{APIKey: "sk"})
	res, err := a.Analyze(context.Background(), domain.GenerationRequest{CategoryHint: "Naturalists"})
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if res.SiloPrediction.PrimarySilo != "Naturalists" {
		t.Fatalf("PrimarySilo = %q, want Naturalists", res.SiloPrediction.PrimarySilo)
	}
	if res.SiloPrediction.Confidence != 0.5 {
		t.Fatalf("Confidence = %v, want 0.5", res.SiloPrediction.Confidence)
	}
	if res.FrequencyAnalysis.Band != "mid" || res.FrequencyAnalysis.BandColorHex != neutralColor {
		t.Fatalf("frequency analysis = %+v", res.FrequencyAnalysis)
	}
}
