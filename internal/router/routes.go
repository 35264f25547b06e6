package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/provisionexpertax/taxportal/internal/config"
	"github.com/provisionexpertax/taxportal/internal/entity"
	"github.com/provisionexpertax/taxportal/internal/handler"
	middlewarepkg "github.com/provisionexpertax/taxportal/internal/middleware"
)

// uploadBodyLimit leaves room for multipart framing around a 10MB file.
const uploadBodyLimit = "11M"

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth         *handler.AuthHandler
	Contacts     *handler.ContactsHandler
	Agents       *handler.AgentsHandler
	Appointments *handler.AppointmentsHandler
	Calendar     *handler.CalendarHandler
	Documents    *handler.DocumentsHandler
	Blog         *handler.BlogHandler
	Testimonials *handler.TestimonialsHandler
}

// Register wires all HTTP routes for the API. Identity must already be
// resolved by middleware.Authenticate.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	api := e.Group("/api")
	submit := middlewarepkg.SubmissionRateLimiter(cfg.RateLimitSubmit)
	signedIn := middlewarepkg.RequireAuth()
	admin := middlewarepkg.RequireRole(entity.RoleAdmin)

	api.POST("/register", handlers.Auth.Register, submit)
	api.POST("/login", handlers.Auth.Login, submit)
	api.POST("/logout", handlers.Auth.Logout)
	api.GET("/user", handlers.Auth.User, signedIn)

	api.POST("/contacts", handlers.Contacts.Create, submit)
	api.GET("/contacts", handlers.Contacts.List, admin)

	api.GET("/agents", handlers.Agents.List)

	api.POST("/appointments", handlers.Appointments.Create, submit)
	api.GET("/appointments", handlers.Appointments.List, admin)
	api.GET("/appointments/agent/:agentId", handlers.Appointments.ListByAgent, admin)
	api.PATCH("/appointments/:id/status", handlers.Appointments.UpdateStatus, admin)

	api.GET("/calendar", handlers.Calendar.Entries, admin)
	api.GET("/calendly/user", handlers.Calendar.User, admin)
	api.GET("/calendly/events", handlers.Calendar.Events, admin)
	api.GET("/calendly/events/:eventId/invitees", handlers.Calendar.Invitees, admin)

	api.POST("/documents", handlers.Documents.Upload, signedIn, echoMiddleware.BodyLimit(uploadBodyLimit))
	api.GET("/documents", handlers.Documents.List, signedIn)
	api.GET("/documents/:id/download", handlers.Documents.Download, signedIn)
	api.PATCH("/documents/:id/status", handlers.Documents.UpdateStatus, signedIn)

	api.GET("/blog", handlers.Blog.List)
	api.GET("/blog/:slug", handlers.Blog.GetBySlug)
	api.POST("/blog", handlers.Blog.Create, admin)
	api.PATCH("/blog/:id", handlers.Blog.Update, admin)
	api.PATCH("/blog/:id/publish", handlers.Blog.Publish, admin)

	api.POST("/testimonials", handlers.Testimonials.Create, submit)
	api.GET("/testimonials", handlers.Testimonials.List)
	api.PATCH("/testimonials/:id/approve", handlers.Testimonials.Approve, admin)
	api.PATCH("/testimonials/:id/feature", handlers.Testimonials.Feature, admin)
}
