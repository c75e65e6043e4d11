package httpd

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prezadito/data-detective-sub001/internal/apperr"
	"github.com/prezadito/data-detective-sub001/internal/models"
)

type Breadcrumb struct {
	Label string `json:"label"`
	Path  string `json:"path,omitempty"`
}

// Page is the model every page renders to.
type Page struct {
	Title       string       `json:"title"`
	Breadcrumbs []Breadcrumb `json:"breadcrumbs"`
	Offline     bool         `json:"offline"`
	User        *models.User `json:"user,omitempty"`
	Content     interface{}  `json:"content,omitempty"`
}

func getIntQueryParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getIntURLParam returns 0 for a missing or non-numeric parameter.
func getIntURLParam(r *http.Request, key string) int {
	value, err := strconv.Atoi(chi.URLParam(r, key))
	if err != nil {
		return 0
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"code":    status,
			"message": message,
			"type":    http.StatusText(status),
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeFieldErrors(w http.ResponseWriter, status int, message string, fields []apperr.FieldError) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error": map[string]interface{}{
			"code":    status,
			"message": message,
			"type":    http.StatusText(status),
			"fields":  fields,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeData(w, http.StatusOK, data)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}
