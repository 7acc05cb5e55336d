package domain

// Mode selects which flavour of the pipeline handles a request.
type Mode string

const (
	ModeAuto      Mode = "auto"
	ModeText      Mode = "text"
	ModePhoto     Mode = "photo"
	ModeFrequency Mode = "frequency"
)

// ParseMode returns the mode named by s, or false when s is not a known mode.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case ModeAuto, ModeText, ModePhoto, ModeFrequency:
		return m, true
	}
	return "", false
}

// UsesEngine reports whether the analysis engine runs before image generation.
func (m Mode) UsesEngine() bool {
	return m != ModePhoto
}

// GenerationRequest is the canonical, request-scoped input of the pipeline.
type GenerationRequest struct {
	Mode         Mode
	ImageBytes   []byte
	ImageMIME    string
	CategoryHint string
	FreeText     string
	Notes        string
	FrequencyHz  *float64
	WantsImage   bool
	// Placeholder is set when FreeText was injected because the caller supplied nothing usable.
	Placeholder bool
}

// HasImage reports whether an uploaded image is attached.
func (r GenerationRequest) HasImage() bool {
	return len(r.ImageBytes) > 0
}

// HasFrequency reports whether a usable frequency hint is attached.
func (r GenerationRequest) HasFrequency() bool {
	return r.FrequencyHz != nil
}
