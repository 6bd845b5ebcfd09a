package server

import (
	"net/http"

	"haven-planner/internal/app"
	"haven-planner/internal/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Server exposes the app over HTTP.
type Server struct {
	app      *app.App
	logger   *zap.Logger
	validate *Validator
}

// New creates a Server for a.
func New(a *app.App, logger *zap.Logger) *Server {
	return &Server{app: a, logger: logger, validate: NewValidator()}
}

// Handler returns the router with all middleware and routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(observeRequests(s.app.Metrics()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(auth.Middleware(s.app.Tokens(), s.logger))

	r.Get("/health", s.health)
	r.Handle("/metrics", s.app.Metrics().Handler())

	r.Post("/signup", s.signup)
	r.Post("/child", s.addChild)

	r.Post("/plan/day", s.planDay)
	r.Post("/activities/suggest", s.suggestActivities)
	r.Post("/story/generate", s.generateStory)
	r.Post("/session/start", s.startSession)

	r.Route("/mealplan", func(r chi.Router) {
		r.Post("/generate", s.generateMealPlan)
		r.Post("/groceries.txt", s.groceriesText)
		r.Post("/print", s.printMealPlan)
	})

	r.Get("/metrics/timesaved", s.timeSaved)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/health", s.adminHealth)
		r.Get("/metrics/aggregate", s.aggregate)
		r.Get("/metrics/timeseries", s.timeSeries)
		r.Get("/metrics/llm", s.llmUsage)
		r.Get("/events/counts", s.eventCounts)
		r.Post("/orgs", s.createOrg)
	})

	r.Route("/privacy", func(r chi.Router) {
		r.Get("/export", s.exportData)
		r.Delete("/child/{name}", s.deleteChild)
		r.Delete("/wipe", s.wipe)
		r.Post("/maintenance", s.maintenance)
	})

	r.Get("/sso/mock/login", s.mockLogin)
	r.Get("/me", s.me)

	r.Route("/integrations", func(r chi.Router) {
		r.Post("/calendar/ics", s.calendarICS)
		r.Get("/google/auth-url", s.googleAuthURL)
		r.Get("/google/callback", s.googleCallback)
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
