package httpd

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/prezadito/data-detective-sub001/internal/engine"
	"github.com/prezadito/data-detective-sub001/internal/metrics"
	"github.com/prezadito/data-detective-sub001/internal/models"
	"github.com/prezadito/data-detective-sub001/internal/service"
	"github.com/prezadito/data-detective-sub001/internal/session"
)

type SessionManager interface {
	Snapshot() session.Snapshot
	Sync(ctx context.Context) error
	Login(ctx context.Context, creds models.LoginRequest) (*models.User, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, data models.RegisterRequest) (*models.User, error)
	Refresh(ctx context.Context) (*models.User, error)
}

type QueryEngine interface {
	Status() engine.Status
	IsReady() bool
	ExecuteQuery(ctx context.Context, sql string) (*models.QueryResult, error)
	History() []models.QueryHistoryEntry
	ClearHistory()
	Tables(ctx context.Context) ([]models.TableSchema, error)
}

type Connectivity interface {
	Online() bool
	Banner() bool
}

type Handler struct {
	services     *service.Services
	session      SessionManager
	engine       QueryEngine
	connectivity Connectivity
	metrics      *metrics.Metrics
	validate     *validator.Validate
	logger       zerolog.Logger
}

func NewHandler(
	services *service.Services,
	sessions SessionManager,
	queryEngine QueryEngine,
	connectivity Connectivity,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		services:     services,
		session:      sessions,
		engine:       queryEngine,
		connectivity: connectivity,
		metrics:      m,
		validate:     newValidator(),
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.HealthCheck)
	if h.metrics != nil {
		router.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	router.Get("/", h.Home)
	router.Get("/login", h.LoginPage)
	router.Post("/login", h.Login)
	router.Post("/register", h.Register)

	router.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Post("/logout", h.Logout)
		r.Post("/session/refresh", h.RefreshSession)

		r.Route("/practice", func(r chi.Router) {
			r.Get("/", h.PracticePage)
			r.Post("/query", h.ExecuteQuery)
			r.Get("/history", h.GetHistory)
			r.Delete("/history", h.ClearHistory)
		})

		r.Route("/challenges", func(r chi.Router) {
			r.Get("/", h.ChallengesPage)
			r.Get("/{unit}", h.UnitPage)
			r.Get("/{unit}/{challenge}", h.ChallengePage)
			r.Post("/{unit}/{challenge}/hints", h.AccessHint)
		})

		r.Get("/progress", h.ProgressPage)
		r.Get("/profile", h.ProfilePage)
		r.Put("/profile", h.UpdateProfile)
	})

	router.Route("/teacher", func(r chi.Router) {
		r.Use(h.RequireRole(models.RoleTeacher))

		r.Get("/dashboard", h.DashboardPage)
		r.Get("/reports/weekly", h.WeeklyReportPage)

		r.Get("/students", h.StudentsPage)
		r.Get("/students/{id}", h.StudentPage)

		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", h.DatasetsPage)
			r.Post("/", h.CreateDataset)
			r.Get("/{id}", h.DatasetPage)
			r.Put("/{id}", h.UpdateDataset)
			r.Delete("/{id}", h.DeleteDataset)
		})

		r.Route("/challenges", func(r chi.Router) {
			r.Get("/", h.CustomChallengesPage)
			r.Post("/", h.CreateCustomChallenge)
			r.Get("/{id}", h.CustomChallengePage)
			r.Put("/{id}", h.UpdateCustomChallenge)
			r.Delete("/{id}", h.DeleteCustomChallenge)
		})
	})
}

// page fills the fields shared by every page and writes it.
func (h *Handler) page(w http.ResponseWriter, r *http.Request, status int, p Page) {
	p.Offline = !h.connectivity.Banner()
	if p.User == nil {
		p.User = userFromContext(r.Context())
	}
	if p.Breadcrumbs == nil {
		p.Breadcrumbs = []Breadcrumb{}
	}
	writeData(w, status, p)
}
