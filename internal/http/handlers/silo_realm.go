package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"silorealm/internal/domain"
	"silorealm/internal/domain/silo"
	"silorealm/internal/imagegen"
	"silorealm/internal/middleware"
	"silorealm/internal/providers/engine"
	"silorealm/internal/providers/image"
)

// GenerateSiloRealm runs the whole pipeline for one upload or description.
func (a *App) GenerateSiloRealm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := a.Logger.With().Str("request_id", middleware.RequestIDFromContext(ctx)).Logger()

	req, err := imagegen.Normalize(r.Body, r.Header.Get("Content-Type"), a.maxUpload())
	if err != nil {
		var verr *imagegen.ValidationError
		msg := "invalid request body"
		if errors.As(err, &verr) {
			msg = verr.Msg
		}
		log.Debug().Err(err).Msg("rejecting request")
		a.error(w, http.StatusBadRequest, msg)
		return
	}
	if req.Mode == domain.ModePhoto && !req.HasImage() {
		a.error(w, http.StatusBadRequest, domain.ErrImageRequired.Error())
		return
	}

	var (
		analysis *engine.Result
		mood     imagegen.Mood
		profile  = a.Catalog.Lookup(req.CategoryHint)
	)
	if req.Mode.UsesEngine() {
		analysis = a.analyze(ctx, req)
		profile = a.predictedProfile(analysis, req)
		mood = imagegen.Mood{Words: analysis.ColorProfile.VibeWords, LeadColor: analysis.ColorProfile.PrimaryHex}
	}

	outcome := imagegen.Outcome{
		Mode:    req.Mode,
		Profile: profile,
		Engine:  analysis,
		Image:   image.Result{Kind: image.KindNone},
	}
	if !req.WantsImage {
		outcome.Skipped = true
	} else {
		outcome.Prompt = imagegen.BuildInstructionWithMood(req, profile, mood)
		outcome.Image = a.Generator.Generate(ctx, image.Request{
			Prompt:    outcome.Prompt,
			Image:     req.ImageBytes,
			ImageMIME: req.ImageMIME,
			Size:      a.imageSize(),
		})
		if outcome.Image.Kind == image.KindNone {
			log.Warn().
				Err(fmt.Errorf("%w: %s", domain.ErrProviderFailure, outcome.Image.Reason)).
				Str("provider", a.providerName()).
				Str("reason", outcome.Image.Reason).
				Str("mode", string(req.Mode)).
				Msg("image generation returned no image")
		}
	}

	status, body := imagegen.Compose(outcome)
	a.json(w, status, body)
}

// analyze never fails the request: an analyzer error degrades to the static result.
func (a *App) analyze(ctx context.Context, req domain.GenerationRequest) *engine.Result {
	res, err := a.Analyzer.Analyze(ctx, req)
	if err == nil && res != nil {
		return res
	}
	a.Logger.Warn().Err(err).Msg("analysis failed, using static result")
	res, _ = engine.NewStaticAnalyzer(a.Catalog).Analyze(ctx, req)
	if res.Metadata == nil {
		res.Metadata = map[string]string{}
	}
	res.Metadata["fallback_reason"] = "analyzer_error"
	return res
}

func (a *App) predictedProfile(res *engine.Result, req domain.GenerationRequest) silo.Profile {
	if p, ok := a.Catalog.Resolve(res.SiloPrediction.PrimarySilo); ok {
		return p
	}
	return a.Catalog.Lookup(req.CategoryHint)
}

func (a *App) maxUpload() int64 {
	if a.Config != nil && a.Config.MaxUploadBytes > 0 {
		return a.Config.MaxUploadBytes
	}
	return 10 << 20
}

func (a *App) imageSize() string {
	if a.Config != nil && a.Config.ImageSize != "" {
		return a.Config.ImageSize
	}
	return image.DefaultSize
}
