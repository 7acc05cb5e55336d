package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"silorealm/internal/domain/silo"
	"silorealm/internal/imagegen"
	"silorealm/internal/infra"
	"silorealm/internal/providers/engine"
	"silorealm/internal/providers/image"
)

type App struct {
	Config    *infra.Config
	Logger    infra.Logger
	Catalog   *silo.Catalog
	Analyzer  engine.Analyzer
	Generator image.Generator
}

func NewApp(cfg *infra.Config, logger infra.Logger, catalog *silo.Catalog, analyzer engine.Analyzer, generator image.Generator) *App {
	if catalog == nil {
		catalog = silo.Default()
	}
	if analyzer == nil {
		analyzer = engine.NewStaticAnalyzer(catalog)
	}
	return &App{
		Config:    cfg,
		Logger:    logger,
		Catalog:   catalog,
		Analyzer:  analyzer,
		Generator: generator,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, imagegen.Failure(msg))
}

func (a *App) providerName() string {
	if s, ok := a.Generator.(fmt.Stringer); ok {
		return s.String()
	}
	return "unknown"
}
