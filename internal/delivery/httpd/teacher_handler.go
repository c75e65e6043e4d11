package httpd

import (
	"net/http"

	"github.com/prezadito/data-detective-sub001/internal/models"
)

var teacherCrumb = Breadcrumb{Label: "Teacher", Path: "/teacher/dashboard"}

func (h *Handler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.services.Analytics.Class(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title:       "Class Dashboard",
		Breadcrumbs: []Breadcrumb{teacherCrumb, {Label: "Dashboard"}},
		Content:     analytics,
	})
}

func (h *Handler) WeeklyReportPage(w http.ResponseWriter, r *http.Request) {
	report, err := h.services.Reports.Weekly(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title:       "Weekly Report",
		Breadcrumbs: []Breadcrumb{teacherCrumb, {Label: "Weekly Report"}},
		Content:     report,
	})
}

func (h *Handler) StudentsPage(w http.ResponseWriter, r *http.Request) {
	params := models.UserListParams{
		Role:   models.RoleStudent,
		Search: r.URL.Query().Get("search"),
		Offset: getIntQueryParam(r, "offset", 0),
		Limit:  getIntQueryParam(r, "limit", 50),
	}

	students, err := h.services.Users.List(r.Context(), params)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title:       "Students",
		Breadcrumbs: []Breadcrumb{teacherCrumb, {Label: "Students", Path: "/teacher/students"}},
		Content:     students,
	})
}

func (h *Handler) StudentPage(w http.ResponseWriter, r *http.Request) {
	student, err := h.services.Users.Get(r.Context(), getIntURLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title: student.Name,
		Breadcrumbs: []Breadcrumb{
			teacherCrumb,
			{Label: "Students", Path: "/teacher/students"},
			{Label: student.Name},
		},
		Content: student,
	})
}

var datasetsCrumb = Breadcrumb{Label: "Datasets", Path: "/teacher/datasets"}

func (h *Handler) DatasetsPage(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.services.Datasets.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title:       "Datasets",
		Breadcrumbs: []Breadcrumb{teacherCrumb, datasetsCrumb},
		Content:     datasets,
	})
}

func (h *Handler) DatasetPage(w http.ResponseWriter, r *http.Request) {
	dataset, err := h.services.Datasets.Get(r.Context(), getIntURLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title:       dataset.Name,
		Breadcrumbs: []Breadcrumb{teacherCrumb, datasetsCrumb, {Label: dataset.Name}},
		Content:     dataset,
	})
}

func (h *Handler) CreateDataset(w http.ResponseWriter, r *http.Request) {
	var req models.DatasetRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	dataset, err := h.services.Datasets.Create(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, dataset)
}

func (h *Handler) UpdateDataset(w http.ResponseWriter, r *http.Request) {
	var req models.DatasetRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	dataset, err := h.services.Datasets.Update(r.Context(), getIntURLParam(r, "id"), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeSuccess(w, dataset)
}

func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := getIntURLParam(r, "id")
	if err := h.services.Datasets.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeSuccess(w, map[string]int{"id": id})
}

var customChallengesCrumb = Breadcrumb{Label: "Custom Challenges", Path: "/teacher/challenges"}

func (h *Handler) CustomChallengesPage(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.services.CustomChallenges.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title:       "Custom Challenges",
		Breadcrumbs: []Breadcrumb{teacherCrumb, customChallengesCrumb},
		Content:     challenges,
	})
}

func (h *Handler) CustomChallengePage(w http.ResponseWriter, r *http.Request) {
	challenge, err := h.services.CustomChallenges.Get(r.Context(), getIntURLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.page(w, r, http.StatusOK, Page{
		Title:       challenge.Title,
		Breadcrumbs: []Breadcrumb{teacherCrumb, customChallengesCrumb, {Label: challenge.Title}},
		Content:     challenge,
	})
}

func (h *Handler) CreateCustomChallenge(w http.ResponseWriter, r *http.Request) {
	var req models.CustomChallengeRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	challenge, err := h.services.CustomChallenges.Create(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeData(w, http.StatusCreated, challenge)
}

func (h *Handler) UpdateCustomChallenge(w http.ResponseWriter, r *http.Request) {
	var req models.CustomChallengeRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	challenge, err := h.services.CustomChallenges.Update(r.Context(), getIntURLParam(r, "id"), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeSuccess(w, challenge)
}

func (h *Handler) DeleteCustomChallenge(w http.ResponseWriter, r *http.Request) {
	id := getIntURLParam(r, "id")
	if err := h.services.CustomChallenges.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeSuccess(w, map[string]int{"id": id})
}
