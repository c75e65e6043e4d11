package httpd

import (
	"net/http"

	"github.com/prezadito/data-detective-sub001/internal/models"
)

func (h *Handler) ProgressPage(w http.ResponseWriter, r *http.Request) {
	progress, err := h.services.Progress.Me(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title:       "My Progress",
		Breadcrumbs: []Breadcrumb{{Label: "Progress", Path: "/progress"}},
		Content:     progress,
	})
}

func (h *Handler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.Users.Me(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title:       "Profile",
		Breadcrumbs: []Breadcrumb{{Label: "Profile", Path: "/profile"}},
		Content:     user,
	})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateUserRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	if req.Name == nil && req.Email == nil {
		writeError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	user, err := h.services.Users.UpdateMe(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeSuccess(w, user)
}
