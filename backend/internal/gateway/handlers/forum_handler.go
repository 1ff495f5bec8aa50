package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"neurocampus/backend/internal/forum"
	"neurocampus/backend/internal/gateway/util"
)

// ForumHandler exposes course discussion endpoints.
type ForumHandler struct {
	Forum *forum.Service
}

// RESTReplyRequest mirrors the JSON input for POST /api/forum/posts/{post_id}/replies
type RESTReplyRequest struct {
	Content string `json:"content"`
}

// ListPosts handles GET /api/forum/posts?course_id=...
func (h *ForumHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	courseID := r.URL.Query().Get("course_id")

	posts, err := h.Forum.ListPosts(r.Context(), courseID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, posts)
}

// CreatePost handles POST /api/forum/posts
func (h *ForumHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	var req forum.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.Forum.CreatePost(r.Context(), p, req)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, created)
}

// AddReply handles POST /api/forum/posts/{post_id}/replies
func (h *ForumHandler) AddReply(w http.ResponseWriter, r *http.Request) {
	p, ok := getPrincipal(w, r)
	if !ok {
		return
	}

	postID := chi.URLParam(r, "post_id")
	if postID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "post_id is required")
		return
	}

	var req RESTReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.Forum.AddReply(r.Context(), p, postID, req.Content)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, post)
}
