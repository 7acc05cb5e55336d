package imagegen

import (
	"fmt"
	"strconv"
	"strings"

	"silorealm/internal/domain"
	"silorealm/internal/domain/silo"
)

const realismRules = "STYLE RULES: MUST BE ULTRA REALISTIC. NEVER cartoon, illustration, CGI, 3D, or animated. " +
	"Use cinematic photography lighting. NO distortion. NO abstraction. " +
	"The final output must look like a real editorial fashion photo."

// Mood carries optional colour direction from the analysis engine.
type Mood struct {
	Words     []string
	LeadColor string
}

// BuildInstruction renders the provider prompt for a request in the given category.
func BuildInstruction(req domain.GenerationRequest, profile silo.Profile) string {
	return BuildInstructionWithMood(req, profile, Mood{})
}

// BuildInstructionWithMood is BuildInstruction with mood words and a lead colour folded into the
// thematic portrait. Output depends only on its arguments.
func BuildInstructionWithMood(req domain.GenerationRequest, profile silo.Profile, mood Mood) string {
	parts := []string{}
	if req.HasImage() {
		parts = append(parts,
			fmt.Sprintf("Transform this selfie into their %s realm.", profile.Name),
			"Preserve the person's real facial identity, facial features and proportions exactly. Do not replace the face.",
			"Maintain real human skin texture with no smoothing.",
		)
	} else {
		parts = append(parts,
			fmt.Sprintf("Ultra realistic thematic portrait representing the %q ColorHackers silo.", profile.Name),
			"The subject is not a likeness of any real person; keep the face in soft focus.",
		)
		if words := joinNonEmpty(mood.Words); words != "" {
			parts = append(parts, "Mood: "+words+".")
		}
		if lead := strings.TrimSpace(mood.LeadColor); lead != "" {
			parts = append(parts, "Color palette led by "+lead+".")
		} else if len(profile.Palette) > 0 {
			parts = append(parts, "Color palette: "+strings.Join(profile.Palette, ", ")+".")
		}
		if text := strings.TrimSpace(req.FreeText); text != "" && !req.Placeholder {
			parts = append(parts, fmt.Sprintf("Theme inspiration: %q.", text))
		}
		if req.HasFrequency() {
			parts = append(parts, "Let the atmosphere echo a resonant frequency of "+
				strconv.FormatFloat(*req.FrequencyHz, 'f', -1, 64)+" Hz.")
		}
		parts = append(parts, "No text, no words, no logos in the image.")
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		parts = append(parts, fmt.Sprintf("Personal notes: %q.", notes))
	}
	parts = append(parts, realismRules)
	if style := strings.TrimSpace(profile.Style); style != "" {
		parts = append(parts, "Theme: "+style+".")
	}
	return strings.Join(parts, " ")
}

func joinNonEmpty(words []string) string {
	var kept []string
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, ", ")
}
