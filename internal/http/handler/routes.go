package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "awdtrack/docs"
	"awdtrack/internal/events"
	"awdtrack/internal/http/middleware"
	"awdtrack/internal/model"
	"awdtrack/internal/service"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	DB        Pinger
	Documents service.DocumentService
	Accounts  service.AccountService
	Sessions  service.SessionService
	Dashboard service.DashboardService
	Reports   service.ReportService
	Events    events.Subscriber
	// Metrics is served on /metrics. Nil disables the endpoint.
	Metrics prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay free of business logic; sessions are verified at the
// perimeter and passed explicitly into every service call.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}
	// The API document leaves host and schemes empty so the UI calls whichever
	// origin served it, proxies included.
	app.Get("/swagger/*", swagger.HandlerDefault)

	authn := middleware.Authenticate(d.Sessions)
	adminOnly := middleware.RequireRoles(model.RoleAdmin)

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/login", Login(d.Sessions))
	auth.Post("/logout", authn, Logout(d.Sessions))
	auth.Get("/verify", authn, VerifySession())

	accounts := api.Group("/accounts", authn, adminOnly)
	accounts.Get("/", ListAccounts(d.Accounts))
	accounts.Post("/", CreateAccount(d.Accounts))
	accounts.Get("/:id", GetAccount(d.Accounts))
	accounts.Put("/:id", UpdateAccount(d.Accounts))
	accounts.Delete("/:id", DeleteAccount(d.Accounts))

	docs := api.Group("/documents", authn)
	docs.Get("/", ListDocuments(d.Documents))
	docs.Post("/", adminOnly, CreateDocument(d.Documents))
	docs.Get("/next-reference", adminOnly, NextReference(d.Documents))
	docs.Post("/return", ReturnDocuments(d.Documents))
	docs.Post("/purge", adminOnly, PurgeDocuments(d.Documents))
	docs.Get("/:id", GetDocument(d.Documents))
	docs.Get("/:id/history", DocumentHistory(d.Documents))
	docs.Post("/:id/actions", ApplyAction(d.Documents))
	docs.Get("/:id/attachments", ListAttachments(d.Documents))
	docs.Post("/:id/attachments", UploadAttachment(d.Documents))
	docs.Get("/:id/attachments/:attachmentId", DownloadAttachment(d.Documents))
	docs.Delete("/:id/attachments/:attachmentId", DeleteAttachment(d.Documents))

	api.Get("/dashboard", authn, Dashboard(d.Dashboard))
	api.Get("/reports/mandays.xlsx", authn, MandayReport(d.Reports))
	api.Get("/reports/documents.xlsx", authn, DocumentReport(d.Reports))
	if d.Events != nil {
		api.Get("/events", authn, Events(d.Events))
	}
}
