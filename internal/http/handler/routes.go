package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"facilitydocs/internal/http/middleware"
	"facilitydocs/internal/service"
)

// Deps are the collaborators the routes are bound to.
type Deps struct {
	DB         Pinger
	Documents  service.DocumentLibrary
	Facilities service.FacilityCatalog
	Verifier   middleware.TokenVerifier
	Limiter    *middleware.RateLimiter
	Metrics    prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Mutating routes require a bearer token and are rate limited per client.
func RegisterRoutes(app *fiber.App, d Deps) {
	if d.Metrics != nil {
		app.Get(middleware.MetricsPath, middleware.MetricsHandler(d.Metrics))
	}

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	mutate := []fiber.Handler{middleware.RequireAuth()}
	if d.Limiter != nil {
		mutate = append([]fiber.Handler{d.Limiter.Handler()}, mutate...)
	}
	guarded := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, mutate...), h)
	}

	api := app.Group("", middleware.Authenticate(d.Verifier))

	docs := api.Group("/documents")
	docs.Get("/", ListDocuments(d.Documents))
	docs.Post("/reload", ReloadDocuments(d.Documents))
	docs.Post("/", guarded(AddDocument(d.Documents))...)
	docs.Delete("/:id", guarded(RemoveDocument(d.Documents))...)

	fac := api.Group("/facilities")
	fac.Get("/", ListFacilities(d.Facilities))
	fac.Get("/stats", FacilityStats(d.Facilities))
	fac.Get("/markers", FacilityMarkers(d.Facilities))
	fac.Get("/:id", GetFacility(d.Facilities))
	fac.Get("/:id/documents", FacilityDocuments(d.Documents))
	fac.Post("/", guarded(CreateFacility(d.Facilities))...)
	fac.Put("/:id", guarded(UpdateFacility(d.Facilities))...)
	fac.Delete("/:id", guarded(DeleteFacility(d.Facilities))...)
}
