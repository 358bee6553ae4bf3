package handler

import (
	"html/template"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docgen/internal/service"
)

// Deps are the collaborators the routes need. DB and Artifacts are nil
// when persistence is not configured.
type Deps struct {
	DB        Pinger
	Generator service.Generator
	Artifacts service.ArtifactService
	Page      *template.Template
	Gatherer  prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return renderPage(c, d.Page, fiber.StatusOK, FormPage{})
	})

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Post("/proposals", CreateProposal(d.Generator, d.Page))
	app.Post("/contracts", CreateContract(d.Generator, d.Page))
	app.Get("/templates/:kind/placeholders", TemplatePlaceholders(d.Generator))

	app.Get("/artifacts", ListArtifacts(d.Artifacts))
	app.Get("/artifacts/:id", GetArtifact(d.Artifacts))
	app.Get("/artifacts/:id/download", DownloadArtifact(d.Artifacts, false))
	app.Get("/artifacts/:id/view", DownloadArtifact(d.Artifacts, true))
	app.Get("/artifacts/:id/link", ArtifactLink(d.Artifacts))
	app.Delete("/artifacts/:id", DeleteArtifact(d.Artifacts))
}
