package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"neurocampus/backend/internal/ai"
	"neurocampus/backend/internal/gateway/util"
	"neurocampus/backend/internal/storage"
)

// AIHandler exposes the tutor chat and document summarizer endpoints.
type AIHandler struct {
	AI        *ai.Service
	Store     *storage.DiskStore
	MaxUpload int64
}

// RESTChatRequest mirrors the JSON input for POST /api/ai/chat
type RESTChatRequest struct {
	CourseID string `json:"course_id"`
	Question string `json:"question"`
}

// Chat handles POST /api/ai/chat
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if _, ok := getPrincipal(w, r); !ok {
		return
	}

	var req RESTChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	answer, err := h.AI.Chat(r.Context(), req.CourseID, req.Question)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"answer":  answer,
	}

	util.WriteJSON(w, http.StatusOK, response)
}

// Summarize handles POST /api/ai/summarize. The document arrives as a
// multipart upload, is stored then read back for text extraction, and the
// extracted text is summarized by the provider.
func (h *AIHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	if _, ok := getPrincipal(w, r); !ok {
		return
	}

	if err := r.ParseMultipartForm(h.MaxUpload); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	files := r.MultipartForm.File["document"]
	if len(files) == 0 {
		util.WriteJSONError(w, http.StatusBadRequest, "document file is required")
		return
	}

	fileURL, err := h.Store.Save("document", files[0])
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	path, err := h.Store.Resolve(fileURL)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	defer os.Remove(path)

	text, err := ai.ExtractText(path)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	summary, err := h.AI.Summarize(r.Context(), text)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"summary": summary,
	}

	util.WriteJSON(w, http.StatusOK, response)
}
