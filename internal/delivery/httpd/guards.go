package httpd

import (
	"context"
	"net/http"

	"github.com/prezadito/data-detective-sub001/internal/models"
	"github.com/prezadito/data-detective-sub001/internal/session"
)

const (
	LoginPath   = "/login"
	DefaultPath = "/practice"
)

type Decision int

const (
	DecisionAllow Decision = iota
	DecisionSpinner
	DecisionRedirect
)

type GuardResult struct {
	Decision Decision
	Location string
}

// Evaluate decides what a guarded page shows for the given session. An
// empty role means any authenticated user.
func Evaluate(snap session.Snapshot, role models.UserRole) GuardResult {
	switch {
	case snap.Status == session.StatusLoading:
		return GuardResult{Decision: DecisionSpinner}
	case !snap.Authenticated():
		return GuardResult{Decision: DecisionRedirect, Location: LoginPath}
	case role != "" && snap.User.Role != role:
		return GuardResult{Decision: DecisionRedirect, Location: DefaultPath}
	default:
		return GuardResult{Decision: DecisionAllow}
	}
}

type userCtxKey struct{}

func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

func userFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userCtxKey{}).(*models.User)
	return user
}

// RequireAuth lets authenticated users through.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return h.guard("")(next)
}

// RequireRole additionally requires the user to hold role.
func (h *Handler) RequireRole(role models.UserRole) func(http.Handler) http.Handler {
	return h.guard(role)
}

func (h *Handler) guard(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			snap := h.session.Snapshot()
			if snap.Status != session.StatusLoading {
				// Pick up a token dropped by the API client after a 401.
				if err := h.session.Sync(r.Context()); err != nil {
					h.logger.Warn().Err(err).Msg("Failed to sync session")
				}
				snap = h.session.Snapshot()
			}

			result := Evaluate(snap, role)
			switch result.Decision {
			case DecisionSpinner:
				writeSuccess(w, map[string]string{"view": "spinner"})
			case DecisionRedirect:
				http.Redirect(w, r, result.Location, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r.WithContext(withUser(r.Context(), snap.User)))
			}
		}
		return http.HandlerFunc(fn)
	}
}
