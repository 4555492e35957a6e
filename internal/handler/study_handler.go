// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"pdf-study-assistant/internal/domain"

	"github.com/gorilla/mux"
)

// multipart overhead allowed on top of the file size limit
const multipartSlack = 1 << 20

// StudyHandler serves PDF extraction and study-session endpoints
type StudyHandler struct {
	studyService domain.StudyService
	logger       domain.Logger
	maxFileSize  int64
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(studyService domain.StudyService, logger domain.Logger, maxFileSize int64) *StudyHandler {
	return &StudyHandler{
		studyService: studyService,
		logger:       logger,
		maxFileSize:  maxFileSize,
	}
}

// extractionResponse is an extraction result with its outcome spelled out
type extractionResponse struct {
	OriginalName string                   `json:"original_name"`
	Outcome      domain.ExtractionOutcome `json:"outcome"`
	*domain.ExtractionResult
}

type quizRequest struct {
	NumQuestions int `json:"num_questions"`
}

// Extract handles stateless text extraction
func (h *StudyHandler) Extract(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.studyService.Extract(r.Context(), header.Filename, file, header.Size)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, extractionResponse{
		OriginalName:     header.Filename,
		Outcome:          result.Outcome(),
		ExtractionResult: result,
	})
}

// CreateSession handles a PDF upload and starts a study session owned by
// the authenticated user
func (h *StudyHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	session, err := h.studyService.Upload(r.Context(), requestOwner(r), header.Filename, file, header.Size)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// GetSession returns a study session
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	session, err := h.studyService.GetSession(requestOwner(r), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// DeleteSession handles session deletion
func (h *StudyHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		writeError(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	if err := h.studyService.DeleteSession(requestOwner(r), id); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session deleted successfully"})
}

// Summarize generates a summary of the session's text
func (h *StudyHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.studyService.Summarize(r.Context(), requestOwner(r), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": session.ID,
		"summary":    session.Summary,
	})
}

// GenerateQuiz generates multiple choice questions from the session's text.
// An empty body asks for the default number of questions.
func (h *StudyHandler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req quizRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quiz, err := h.studyService.GenerateQuiz(r.Context(), requestOwner(r), id, req.NumQuestions)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

// readUpload reads the multipart "file" field, writing an error response and
// returning ok=false when there is none
func (h *StudyHandler) readUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	if h.maxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartSlack)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeAppError(w, domain.ErrFileTooLarge)
			return nil, nil, false
		}
		writeError(w, http.StatusBadRequest, "File is required")
		return nil, nil, false
	}
	return file, header, true
}
