package httpd

import (
	"errors"
	"net/http"

	"github.com/prezadito/data-detective-sub001/internal/apperr"
	"github.com/prezadito/data-detective-sub001/internal/engine"
	"github.com/prezadito/data-detective-sub001/internal/middleware"
	"github.com/prezadito/data-detective-sub001/internal/service"
	"github.com/prezadito/data-detective-sub001/internal/session"
)

// handleError renders any failure from a form, a service or the engine.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := middleware.LoggerFromContext(r.Context(), h.logger)

	switch {
	case errors.Is(err, errInvalidBody):
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	case errors.Is(err, service.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid id")
		return
	case errors.Is(err, service.ErrInvalidUserListRole):
		writeError(w, http.StatusBadRequest, "Invalid role filter")
		return
	case errors.Is(err, session.ErrNoRefreshToken):
		writeError(w, http.StatusUnauthorized, apperr.MsgSessionExpired)
		return
	case errors.Is(err, engine.ErrNotInitialized):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	classified := apperr.Classify(err, h.connectivity.Online())
	status := classified.HTTPStatus()

	if classified.Status == http.StatusUnauthorized {
		// The API client already dropped the token.
		if syncErr := h.session.Sync(r.Context()); syncErr != nil {
			log.Warn().Err(syncErr).Msg("Failed to sync session")
		}
	}

	event := log.Warn()
	if classified.Kind == apperr.KindUnknown || status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("kind", classified.Kind.String()).
		Int("status", status).
		Msg("Request failed")

	if classified.Kind == apperr.KindValidation {
		writeFieldErrors(w, status, classified.Message, classified.Fields)
		return
	}

	writeError(w, status, classified.Message)
}
