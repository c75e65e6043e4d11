package httpd

import (
	"fmt"
	"net/http"

	"github.com/prezadito/data-detective-sub001/internal/models"
)

var challengesCrumb = Breadcrumb{Label: "Challenges", Path: "/challenges"}

func (h *Handler) ChallengesPage(w http.ResponseWriter, r *http.Request) {
	units, err := h.services.Challenges.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title:       "Challenges",
		Breadcrumbs: []Breadcrumb{challengesCrumb},
		Content:     units,
	})
}

func (h *Handler) UnitPage(w http.ResponseWriter, r *http.Request) {
	unitID := getIntURLParam(r, "unit")

	unit, err := h.services.Challenges.Unit(r.Context(), unitID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title: unit.Title,
		Breadcrumbs: []Breadcrumb{
			challengesCrumb,
			{Label: unitLabel(unitID, unit.Title)},
		},
		Content: unit,
	})
}

func (h *Handler) ChallengePage(w http.ResponseWriter, r *http.Request) {
	unitID := getIntURLParam(r, "unit")
	challengeID := getIntURLParam(r, "challenge")

	detail, err := h.services.Challenges.Get(r.Context(), unitID, challengeID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title: detail.Title,
		Breadcrumbs: []Breadcrumb{
			challengesCrumb,
			{Label: unitLabel(unitID, ""), Path: fmt.Sprintf("/challenges/%d", unitID)},
			{Label: detail.Title},
		},
		Content: detail,
	})
}

type hintRequest struct {
	HintLevel int `json:"hint_level"`
}

func (h *Handler) AccessHint(w http.ResponseWriter, r *http.Request) {
	var body hintRequest
	if err := h.decodeAndValidate(r, &body); err != nil {
		h.handleError(w, r, err)
		return
	}

	req := models.HintAccessRequest{
		UnitID:      getIntURLParam(r, "unit"),
		ChallengeID: getIntURLParam(r, "challenge"),
		HintLevel:   body.HintLevel,
	}
	if err := h.validateStruct(req); err != nil {
		h.handleError(w, r, err)
		return
	}

	resp, err := h.services.Challenges.AccessHint(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeSuccess(w, resp)
}

func unitLabel(unitID int, title string) string {
	if title == "" {
		return fmt.Sprintf("Unit %d", unitID)
	}
	return fmt.Sprintf("Unit %d: %s", unitID, title)
}
