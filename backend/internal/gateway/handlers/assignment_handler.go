package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"neurocampus/backend/internal/assignment"
	"neurocampus/backend/internal/gateway/util"
)

// AssignmentHandler exposes assignment CRUD endpoints.
type AssignmentHandler struct {
	Assignments *assignment.Service
}

// ListAssignments handles GET /api/assignments?course_id=...
func (h *AssignmentHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("course_id")

	assignments, err := h.Assignments.List(r.Context(), courseID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, assignments)
}

// ListForCourse handles GET /api/courses/{course_id}/assignments
func (h *AssignmentHandler) ListForCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "course_id")
	if courseID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "course_id is required")
		return
	}

	assignments, err := h.Assignments.List(r.Context(), courseID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, assignments)
}

// GetAssignment handles GET /api/assignments/{assignment_id}
func (h *AssignmentHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "assignment_id")
	if assignmentID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "assignment_id is required")
		return
	}

	asg, err := h.Assignments.Get(r.Context(), assignmentID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, asg)
}

// CreateAssignment handles POST /api/assignments (owning teacher only)
func (h *AssignmentHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	var req assignment.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.Assignments.Create(r.Context(), p, req)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, created)
}

// UpdateAssignment handles PUT /api/assignments/{assignment_id}
func (h *AssignmentHandler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	assignmentID := chi.URLParam(r, "assignment_id")
	if assignmentID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "assignment_id is required")
		return
	}

	var req assignment.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.Assignments.Update(r.Context(), p, assignmentID, req)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, updated)
}

// DeleteAssignment handles DELETE /api/assignments/{assignment_id}
func (h *AssignmentHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	assignmentID := chi.URLParam(r, "assignment_id")
	if assignmentID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "assignment_id is required")
		return
	}

	if err := h.Assignments.Delete(r.Context(), p, assignmentID); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "Assignment deleted",
	}

	util.WriteJSON(w, http.StatusOK, response)
}
