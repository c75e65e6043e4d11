package httpd

import (
	"net/http"
	"time"
)

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "datadetective",
		"engine":    h.engine.Status(),
		"session":   h.session.Snapshot().Status,
		"online":    h.connectivity.Online(),
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

// Home sends users to their landing page.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	snap := h.session.Snapshot()
	if !snap.Authenticated() {
		http.Redirect(w, r, LoginPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, landingPath(snap.User.Role), http.StatusSeeOther)
}
