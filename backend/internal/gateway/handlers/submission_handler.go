package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"neurocampus/backend/internal/gateway/util"
	"neurocampus/backend/internal/grading"
	"neurocampus/backend/internal/storage"
	"neurocampus/backend/internal/submission"
)

// SubmissionHandler exposes submission and grading endpoints.
type SubmissionHandler struct {
	Submissions *submission.Service
	Grading     *grading.Orchestrator
	Store       *storage.DiskStore
	MaxUpload   int64
}

// RESTSubmitRequest mirrors the JSON input for POST /api/assignments/{assignment_id}/submit
type RESTSubmitRequest struct {
	Content string `json:"content"`
}

// RESTGradeRequest mirrors the JSON input for POST /api/submissions/{submission_id}/grade
type RESTGradeRequest struct {
	Grade    int32  `json:"grade"`
	Feedback string `json:"feedback"`
}

// Submit handles POST /api/assignments/{assignment_id}/submit (student only).
// Accepts either a JSON body with content or a multipart form with content
// and an optional submissionFile upload.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	assignmentID := chi.URLParam(r, "assignment_id")
	if assignmentID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "assignment_id is required")
		return
	}

	var content, fileURL string

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.MaxUpload); err != nil {
			util.WriteJSONError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		content = r.FormValue("content")

		if files := r.MultipartForm.File["submissionFile"]; len(files) > 0 {
			url, err := h.Store.Save("submissionFile", files[0])
			if err != nil {
				util.HandleServiceError(w, err)
				return
			}
			fileURL = url
		}
	} else {
		var req RESTSubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		content = req.Content
	}

	created, err := h.Submissions.Submit(r.Context(), p, assignmentID, content, fileURL)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, created)
}

// ListForAssignment handles GET /api/assignments/{assignment_id}/submissions
// (owning teacher only).
func (h *SubmissionHandler) ListForAssignment(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	assignmentID := chi.URLParam(r, "assignment_id")
	if assignmentID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "assignment_id is required")
		return
	}

	submissions, err := h.Submissions.ListForAssignment(r.Context(), p, assignmentID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, submissions)
}

// ListMine handles GET /api/submissions/mine (student only).
func (h *SubmissionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	submissions, err := h.Submissions.ListMine(r.Context(), p)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, submissions)
}

// Grade handles POST /api/submissions/{submission_id}/grade (owning teacher
// only).
func (h *SubmissionHandler) Grade(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	submissionID := chi.URLParam(r, "submission_id")
	if submissionID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "submission_id is required")
		return
	}

	var req RESTGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	graded, err := h.Grading.GradeManual(r.Context(), p, submissionID, req.Grade, req.Feedback)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, graded)
}

// GradeWithAI handles POST /api/submissions/{submission_id}/grade/ai (owning
// teacher only). The provider's verdict is persisted through the same path
// as a manual grade.
func (h *SubmissionHandler) GradeWithAI(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	submissionID := chi.URLParam(r, "submission_id")
	if submissionID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "submission_id is required")
		return
	}

	var req grading.DelegatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, graded, err := h.Grading.GradeDelegated(r.Context(), p, submissionID, req)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success":    true,
		"result":     result,
		"submission": graded,
	}

	util.WriteJSON(w, http.StatusOK, response)
}
