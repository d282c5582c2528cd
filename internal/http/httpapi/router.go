package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"getmeachai/internal/http/handlers"
	"getmeachai/internal/middleware"
)

// NewRouter wires the full HTTP surface. countryLookup may be nil when no
// GeoIP database is configured.
func NewRouter(app *handlers.App, countryLookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/auth/{provider}", func(r chi.Router) {
		r.Get("/login", app.AuthLogin)
		r.Get("/callback", app.AuthCallback)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/me", func(r chi.Router) {
			r.Use(middleware.AuthJWT(app.Config.JWTSecret))
			r.Get("/", app.Me)
			r.Put("/", app.UpdateMe)
		})

		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/", app.CreatorProfile)
			r.Get("/payments", app.CreatorPayments)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
			r.Use(middleware.Country(countryLookup))
			r.Post("/payments/initiate", app.PaymentsInitiate)
			r.Post("/razorpay", app.PaymentsVerify)
		})
	})

	return r
}
