package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"silorealm/internal/domain"
)

const (
	staticProviderName = "static"
	openAIProviderName = "openai"
)

// rawNotesLimit bounds how much of an unparseable reply is kept as personality notes.
const rawNotesLimit = 400

func buildSchemaPrompt(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	sb := &strings.Builder{}
	sb.WriteString("You are the ColorHackers Engine. Respond with STRICT JSON only.\n\nFields:\n")
	sb.WriteString("- silo_prediction:\n")
	fmt.Fprintf(sb, "    - primary_silo: one of [%s]\n", strings.Join(quoted, ","))
	sb.WriteString("    - confidence: number 0-1\n")
	sb.WriteString("    - secondary_silos: string[]\n")
	sb.WriteString("- color_profile:\n")
	sb.WriteString("    - primary_hex: string (like \"#AABBCC\")\n")
	sb.WriteString("    - secondary_hexes: string[]\n")
	sb.WriteString("    - vibe_words: string[] // 3-7 short descriptors\n")
	sb.WriteString("- frequency_analysis:\n")
	sb.WriteString("    - has_input: boolean\n")
	sb.WriteString("    - interpreted_frequency_hz: number | null\n")
	sb.WriteString("    - band: \"infra-low\" | \"low\" | \"mid\" | \"high\" | \"ultra\"\n")
	sb.WriteString("    - band_color_hex: string\n")
	sb.WriteString("- personality_notes: string   // 2-5 sentences, friendly, no line breaks")
	return sb.String()
}

type userSummary struct {
	Mode            domain.Mode `json:"mode"`
	TextDescription string      `json:"textDescription"`
	FrequencyHz     *float64    `json:"frequencyHz"`
	UserNotes       *string     `json:"userNotes"`
	SiloHint        *string     `json:"siloHint"`
}

func buildUserPrompt(req domain.GenerationRequest) (string, error) {
	summary := userSummary{
		Mode:            req.Mode,
		TextDescription: req.FreeText,
		FrequencyHz:     req.FrequencyHz,
		UserNotes:       optional(req.Notes),
		SiloHint:        optional(req.CategoryHint),
	}
	raw, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", err
	}
	return "Analyze this ColorHackers user input and respond with JSON matching the schema:\n\n" + string(raw), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func coalesce(values ...string) string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			return v
		}
	}
	return ""
}

func normalizeWords(words []string, fallback []string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		key := strings.ToLower(w)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, w)
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// parseModelPayload decodes the JSON object embedded in a chat reply. Code fences and chatter
// around the object are ignored; a reply without an object is an error.
func parseModelPayload[T any](raw string) (T, error) {
	var decoded T
	object := extractJSONObject(raw)
	if object == "" {
		return decoded, errors.New("no json object in reply")
	}
	if err := json.Unmarshal([]byte(object), &decoded); err != nil {
		var zero T
		return zero, err
	}
	return decoded, nil
}

// extractJSONObject returns the outermost {...} span of raw, or "".
func extractJSONObject(raw string) string {
	text := trimCodeFence(raw)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}

// trimCodeFence strips a surrounding markdown fence with any language tag.
func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 && !strings.ContainsAny(trimmed[:nl], "{[") {
		trimmed = trimmed[nl+1:]
	}
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
