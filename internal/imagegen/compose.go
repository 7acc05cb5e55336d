package imagegen

import (
	"net/http"

	"silorealm/internal/domain"
	"silorealm/internal/domain/silo"
	"silorealm/internal/providers/engine"
	"silorealm/internal/providers/image"
)

const inlineImagePrefix = "data:image/png;base64,"

// ImageBlock reports the prompt sent to the provider and whichever form the image came back in.
type ImageBlock struct {
	Prompt string  `json:"prompt"`
	URL    *string `json:"url"`
	Base64 *string `json:"base64"`
}

// Envelope is the success body of the generation endpoint.
type Envelope struct {
	OK          bool           `json:"ok"`
	Success     bool           `json:"success"`
	Mode        domain.Mode    `json:"mode"`
	Silo        string         `json:"silo"`
	Description string         `json:"description"`
	Palette     []string       `json:"palette"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	Engine      *engine.Result `json:"engine,omitempty"`
	Image       ImageBlock     `json:"image"`
}

// ErrorEnvelope is the failure body of every endpoint.
type ErrorEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Outcome gathers everything the pipeline produced for one request.
type Outcome struct {
	Mode    domain.Mode
	Profile silo.Profile
	Engine  *engine.Result
	Prompt  string
	Image   image.Result
	// Skipped is set when the caller asked for no image and the provider was never called.
	Skipped bool
}

// Compose maps a pipeline outcome to an HTTP status and body.
func Compose(o Outcome) (int, any) {
	env := Envelope{
		OK:          true,
		Mode:        o.Mode,
		Silo:        o.Profile.Name,
		Description: o.Profile.Personality,
		Palette:     o.Profile.Palette,
		Engine:      o.Engine,
		Image:       ImageBlock{Prompt: o.Prompt},
	}
	if env.Palette == nil {
		env.Palette = []string{}
	}

	switch o.Image.Kind {
	case image.KindURL:
		url := o.Image.Payload
		env.Success = true
		env.ImageURL = url
		env.Image.URL = &url
		return http.StatusOK, env
	case image.KindInlineBytes:
		b64 := o.Image.Payload
		env.Success = true
		env.ImageURL = inlineImagePrefix + b64
		env.Image.Base64 = &b64
		return http.StatusOK, env
	}

	if o.Engine != nil || o.Skipped {
		return http.StatusOK, env
	}
	return http.StatusInternalServerError, Failure("image generation failed")
}

// Failure builds the uniform error body.
func Failure(msg string) ErrorEnvelope {
	return ErrorEnvelope{OK: false, Error: msg}
}
