package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes groups the handlers mounted by NewRouter.
type Routes struct {
	Base        *Handler
	Contact     *ContactHandler
	Diagnostics *DiagnosticsHandler
	// ContactLimiter throttles POST /api/contact. Nil disables rate limiting.
	ContactLimiter *RateLimiter
}

// NewRouter builds the HTTP routing tree.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(CORS)

	r.Get("/", rt.Base.Root)
	r.Get("/api/hello", rt.Base.Hello)
	r.Get("/api/health", rt.Base.Health)
	r.Get("/test", rt.Diagnostics.Get)

	contact := http.Handler(http.HandlerFunc(rt.Contact.Submit))
	if rt.ContactLimiter != nil {
		contact = rt.ContactLimiter.Middleware(contact)
	}
	r.Method(http.MethodPost, "/api/contact", contact)

	return r
}
