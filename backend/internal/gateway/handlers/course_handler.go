package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"neurocampus/backend/internal/course"
	"neurocampus/backend/internal/gateway/util"
	"neurocampus/backend/internal/shared"
)

// CourseHandler exposes the course catalog and enrollment endpoints.
type CourseHandler struct {
	Courses *course.Service
}

// helper to get the authenticated principal from the request context
func getPrincipal(w http.ResponseWriter, r *http.Request) (shared.Principal, bool) {
	p, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "authentication required")
	}
	return p, ok
}

// ListCourses handles GET /api/courses
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Courses.List(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, courses)
}

// CreateCourse handles POST /api/courses (teacher only)
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	var req course.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.Courses.Create(r.Context(), p, req)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, created)
}

// GetCourse handles GET /api/courses/{course_id}
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "course_id")
	if courseID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "course_id is required")
		return
	}

	details, err := h.Courses.Get(r.Context(), courseID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, details)
}

// Enroll handles POST /api/courses/{course_id}/enroll (student only)
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	courseID := chi.URLParam(r, "course_id")
	if courseID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "course_id is required")
		return
	}

	enrolled, err := h.Courses.Enroll(r.Context(), p, courseID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"message": "Enrolled successfully",
		"course":  enrolled,
	}

	util.WriteJSON(w, http.StatusOK, response)
}

// ListMyCourses handles GET /api/courses/mine
// Teachers get the courses they own; students get their enrollments.
func (h *CourseHandler) ListMyCourses(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	courses, err := h.Courses.ListEnrolled(r.Context(), p)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, courses)
}
