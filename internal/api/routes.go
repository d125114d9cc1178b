package api

import (
	"net/http"

	"github.com/desistd/desist/internal/config"
	"github.com/desistd/desist/internal/pipeline"
	"github.com/desistd/desist/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	intake := pipeline.NewHandler(
		domain.Pipeline,
		runtime.Logger,
		cfg.API.MaxUploadSizeBytes(),
	)
	recs := domain.Records.Handler()

	routes.Register(
		mux,
		intake.Routes(),
		recs.AuditRoutes(),
		recs.CaseRoutes(),
	)
}
