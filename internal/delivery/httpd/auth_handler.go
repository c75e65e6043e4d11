package httpd

import (
	"net/http"

	"github.com/prezadito/data-detective-sub001/internal/models"
)

func landingPath(role models.UserRole) string {
	if role == models.RoleTeacher {
		return "/teacher/dashboard"
	}
	return DefaultPath
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	snap := h.session.Snapshot()
	if snap.Authenticated() {
		http.Redirect(w, r, landingPath(snap.User.Role), http.StatusSeeOther)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title:       "Log in",
		Breadcrumbs: []Breadcrumb{{Label: "Log in"}},
	})
}

// Login signs a user in. A live session must log out first, so a signed-in
// user is sent to their landing page instead.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Sync(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to sync session")
	}
	if snap := h.session.Snapshot(); snap.Authenticated() {
		h.logger.Info().Str("email", snap.User.Email).Msg("Login attempted over a live session")
		http.Redirect(w, r, landingPath(snap.User.Role), http.StatusSeeOther)
		return
	}

	var req models.LoginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	user, err := h.session.Login(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"user":     user,
		"redirect": landingPath(user.Role),
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	user, err := h.session.Register(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, map[string]interface{}{
		"user":     user,
		"redirect": LoginPath,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Failed to clear stored tokens")
	}

	writeSuccess(w, map[string]string{"redirect": LoginPath})
}

func (h *Handler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	user, err := h.session.Refresh(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeSuccess(w, map[string]interface{}{"user": user})
}
