package httpd

import (
	"errors"
	"net/http"

	"github.com/prezadito/data-detective-sub001/internal/engine"
	"github.com/prezadito/data-detective-sub001/internal/models"
)

type practiceContent struct {
	Engine  engine.Status              `json:"engine"`
	Ready   bool                       `json:"ready"`
	Tables  []models.TableSchema       `json:"tables"`
	History []models.QueryHistoryEntry `json:"history"`
}

type queryResponse struct {
	Result  *models.QueryResult        `json:"result,omitempty"`
	Error   string                     `json:"error,omitempty"`
	History []models.QueryHistoryEntry `json:"history"`
}

var practiceCrumbs = []Breadcrumb{{Label: "Practice", Path: "/practice"}}

func (h *Handler) PracticePage(w http.ResponseWriter, r *http.Request) {
	content := practiceContent{
		Engine:  h.engine.Status(),
		Ready:   h.engine.IsReady(),
		Tables:  []models.TableSchema{},
		History: h.engine.History(),
	}

	if content.Ready {
		tables, err := h.engine.Tables(r.Context())
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		content.Tables = tables
	}

	h.page(w, r, http.StatusOK, Page{
		Title:       "SQL Practice",
		Breadcrumbs: practiceCrumbs,
		Content:     content,
	})
}

// ExecuteQuery runs the submitted SQL on the embedded engine. A failing
// query is a normal outcome and answers 400 with the engine's message.
func (h *Handler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	if !h.engine.IsReady() {
		h.handleError(w, r, engine.ErrNotInitialized)
		return
	}

	result, err := h.engine.ExecuteQuery(r.Context(), req.SQL)
	if errors.Is(err, engine.ErrNotInitialized) {
		h.handleError(w, r, err)
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"data": queryResponse{
				Error:   err.Error(),
				History: h.engine.History(),
			},
		})
		return
	}

	writeSuccess(w, queryResponse{
		Result:  result,
		History: h.engine.History(),
	})
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, h.engine.History())
}

func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	h.engine.ClearHistory()
	writeSuccess(w, []models.QueryHistoryEntry{})
}
