package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pdf-study-assistant/internal/domain"
	"pdf-study-assistant/internal/service"
)

type mockStudyService struct {
	result    *domain.ExtractionResult
	session   *domain.StudySession
	quiz      *domain.Quiz
	err       error
	lastName  string
	lastBody  string
	lastCount int
	lastOwner string
	deleted   string
}

func (m *mockStudyService) Extract(_ context.Context, name string, payload io.ReadSeeker, _ int64) (*domain.ExtractionResult, error) {
	m.lastName = name
	data, _ := io.ReadAll(payload)
	m.lastBody = string(data)
	return m.result, m.err
}

func (m *mockStudyService) Upload(_ context.Context, ownerID, name string, payload io.ReadSeeker, _ int64) (*domain.StudySession, error) {
	m.lastOwner = ownerID
	m.lastName = name
	data, _ := io.ReadAll(payload)
	m.lastBody = string(data)
	return m.session, m.err
}

func (m *mockStudyService) GetSession(ownerID, id string) (*domain.StudySession, error) {
	m.lastOwner = ownerID
	if m.err != nil {
		return nil, m.err
	}
	return m.session, nil
}

func (m *mockStudyService) DeleteSession(ownerID, id string) error {
	m.lastOwner = ownerID
	m.deleted = id
	return m.err
}

func (m *mockStudyService) Summarize(_ context.Context, ownerID, id string) (*domain.StudySession, error) {
	m.lastOwner = ownerID
	return m.session, m.err
}

func (m *mockStudyService) GenerateQuiz(_ context.Context, ownerID, id string, n int) (*domain.Quiz, error) {
	m.lastOwner = ownerID
	m.lastCount = n
	return m.quiz, m.err
}

func (m *mockStudyService) RequireAgent() error {
	return nil
}

func newTestRouter(svc *mockStudyService, maxFileSize int64) http.Handler {
	return NewRouter(NewStudyHandler(svc, NewMockHandlerLogger(), maxFileSize), passThrough, nil)
}

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, mw.FormDataContentType()
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestStudyHandler_Extract(t *testing.T) {
	svc := &mockStudyService{result: &domain.ExtractionResult{
		Text:      "Hello from page one",
		Tier:      domain.TierOCR,
		PageCount: 1,
	}}
	body, contentType := multipartUpload(t, "file", "notes.pdf", "%PDF-1.7 body")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	newTestRouter(svc, 1<<20).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	if resp["outcome"] != string(domain.OutcomeText) {
		t.Fatalf("expected outcome text, got %v", resp["outcome"])
	}
	if resp["tier"] != string(domain.TierOCR) || resp["text"] != "Hello from page one" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if resp["original_name"] != "notes.pdf" {
		t.Fatalf("unexpected original name %v", resp["original_name"])
	}
	if svc.lastName != "notes.pdf" || svc.lastBody != "%PDF-1.7 body" {
		t.Fatalf("service got %q / %q", svc.lastName, svc.lastBody)
	}
}

func TestStudyHandler_ExtractEmptyOutcome(t *testing.T) {
	svc := &mockStudyService{result: &domain.ExtractionResult{Text: " \n", Tier: domain.TierDirect}}
	body, contentType := multipartUpload(t, "file", "blank.pdf", "%PDF")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	newTestRouter(svc, 1<<20).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if resp := decodeBody(t, rr); resp["outcome"] != string(domain.OutcomeEmpty) {
		t.Fatalf("expected outcome empty, got %v", resp["outcome"])
	}
}

func TestStudyHandler_ExtractMalformed(t *testing.T) {
	svc := &mockStudyService{err: fmt.Errorf("%w: no header", domain.ErrMalformedDocument)}
	body, contentType := multipartUpload(t, "file", "broken.pdf", "garbage")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	newTestRouter(svc, 1<<20).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, rr.Code)
	}
	if resp := decodeBody(t, rr); resp["type"] != "processing" {
		t.Fatalf("expected processing error, got %v", resp)
	}
}

func TestStudyHandler_MissingFile(t *testing.T) {
	body, contentType := multipartUpload(t, "document", "notes.pdf", "%PDF")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	newTestRouter(&mockStudyService{}, 1<<20).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "File is required") {
		t.Fatalf("unexpected response body: %s", rr.Body.String())
	}
}

func TestStudyHandler_UploadTooLarge(t *testing.T) {
	body, contentType := multipartUpload(t, "file", "big.pdf", strings.Repeat("x", 2<<20))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	newTestRouter(&mockStudyService{}, 1024).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if resp := decodeBody(t, rr); resp["type"] != "validation" {
		t.Fatalf("expected validation error, got %v", resp)
	}
}

func TestStudyHandler_CreateSession(t *testing.T) {
	svc := &mockStudyService{session: &domain.StudySession{ID: "abc", Outcome: domain.OutcomeText, Text: "notes"}}
	body, contentType := multipartUpload(t, "file", "notes.pdf", "%PDF")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	newTestRouter(svc, 1<<20).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}
	if resp := decodeBody(t, rr); resp["id"] != "abc" || resp["outcome"] != "text" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestStudyHandler_GetSessionNotFound(t *testing.T) {
	svc := &mockStudyService{err: domain.ErrSessionNotFound}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/missing", nil)
	rr := httptest.NewRecorder()
	newTestRouter(svc, 1<<20).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestStudyHandler_DeleteSession(t *testing.T) {
	svc := &mockStudyService{}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/abc", nil)
	rr := httptest.NewRecorder()
	newTestRouter(svc, 1<<20).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if svc.deleted != "abc" {
		t.Fatalf("expected session abc deleted, got %q", svc.deleted)
	}
}

func TestStudyHandler_Summarize(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &mockStudyService{session: &domain.StudySession{ID: "abc", Summary: "- point"}}

		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/summary", nil)
		rr := httptest.NewRecorder()
		newTestRouter(svc, 1<<20).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
		if resp := decodeBody(t, rr); resp["summary"] != "- point" {
			t.Fatalf("unexpected response: %v", resp)
		}
	})

	t.Run("Agent unavailable", func(t *testing.T) {
		svc := &mockStudyService{err: domain.ErrAgentUnavailable}

		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/summary", nil)
		rr := httptest.NewRecorder()
		newTestRouter(svc, 1<<20).ServeHTTP(rr, req)

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
		}
	})

	t.Run("No text", func(t *testing.T) {
		svc := &mockStudyService{err: domain.ErrNoExtractableText}

		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/summary", nil)
		rr := httptest.NewRecorder()
		newTestRouter(svc, 1<<20).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status %d, got %d", http.StatusUnprocessableEntity, rr.Code)
		}
	})
}

func TestStudyHandler_GenerateQuiz(t *testing.T) {
	quiz := &domain.Quiz{SessionID: "abc", Questions: []domain.QuizQuestion{{Question: "q", Options: []string{"A. a"}, Answer: "A"}}}

	t.Run("Explicit count", func(t *testing.T) {
		svc := &mockStudyService{quiz: quiz}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/quiz", strings.NewReader(`{"num_questions":3}`))
		rr := httptest.NewRecorder()
		newTestRouter(svc, 1<<20).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
		if svc.lastCount != 3 {
			t.Fatalf("expected 3 questions requested, got %d", svc.lastCount)
		}
	})

	t.Run("Empty body uses default", func(t *testing.T) {
		svc := &mockStudyService{quiz: quiz}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/quiz", nil)
		rr := httptest.NewRecorder()
		newTestRouter(svc, 1<<20).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
		}
		if svc.lastCount != 0 {
			t.Fatalf("expected zero (service default), got %d", svc.lastCount)
		}
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/quiz", strings.NewReader(`{"num_questions":`))
		rr := httptest.NewRecorder()
		newTestRouter(&mockStudyService{}, 1<<20).ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
		}
	})

	t.Run("Count out of range", func(t *testing.T) {
		svc := &mockStudyService{err: domain.ErrInvalidQuestionCount}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/quiz", strings.NewReader(`{"num_questions":50}`))
		rr := httptest.NewRecorder()
		newTestRouter(svc, 1<<20).ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
		}
	})
}

// tokenAuthService resolves each bearer token to its own user
type tokenAuthService map[string]string

func (m tokenAuthService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	id, ok := m[token]
	if !ok {
		return nil, domain.ErrInvalidToken
	}
	return &domain.SupabaseUser{ID: id}, nil
}

type staticAgent struct{}

func (staticAgent) Summarize(context.Context, string) (string, error) { return "- cells", nil }

func (staticAgent) GenerateQuiz(context.Context, string, int) ([]domain.QuizQuestion, error) {
	return []domain.QuizQuestion{}, nil
}

type staticExtractor struct{}

func (staticExtractor) Extract(context.Context, io.ReadSeeker) (*domain.ExtractionResult, error) {
	return &domain.ExtractionResult{Text: "Cells are the unit of life.", Tier: domain.TierDirect, PageCount: 1}, nil
}

func TestStudyHandler_CreateSessionRecordsOwner(t *testing.T) {
	svc := &mockStudyService{session: &domain.StudySession{ID: "abc"}}
	auth := NewAuthMiddleware(tokenAuthService{"alice-token": "alice"}, NewMockHandlerLogger())
	router := NewRouter(NewStudyHandler(svc, NewMockHandlerLogger(), 1<<20), auth.Middleware, nil)

	body, contentType := multipartUpload(t, "file", "notes.pdf", "%PDF")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer alice-token")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, rr.Code)
	}
	if svc.lastOwner != "alice" {
		t.Fatalf("expected owner alice, got %q", svc.lastOwner)
	}
}

func TestStudyHandler_SessionsAreScopedToOwner(t *testing.T) {
	logger := NewMockHandlerLogger()
	studyService := service.NewStudyService(staticExtractor{}, staticAgent{}, service.NewMemorySessionStore(), logger, 1<<20, time.Hour)
	auth := NewAuthMiddleware(tokenAuthService{"alice-token": "alice", "bob-token": "bob"}, logger)
	router := NewRouter(NewStudyHandler(studyService, logger, 1<<20), auth.Middleware, nil)

	do := func(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, body)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	body, contentType := multipartUpload(t, "file", "notes.pdf", "%PDF")
	rr := do(http.MethodPost, "/api/v1/sessions", "alice-token", body, contentType)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	created := decodeBody(t, rr)
	id, _ := created["id"].(string)
	if id == "" || created["owner_id"] != "alice" {
		t.Fatalf("unexpected session: %v", created)
	}
	path := "/api/v1/sessions/" + id

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, path},
		{http.MethodPost, path + "/summary"},
		{http.MethodPost, path + "/quiz"},
		{http.MethodDelete, path},
	} {
		if rr := do(tc.method, tc.path, "bob-token", nil, ""); rr.Code != http.StatusNotFound {
			t.Fatalf("%s %s as another user: expected status %d, got %d", tc.method, tc.path, http.StatusNotFound, rr.Code)
		}
	}

	if rr := do(http.MethodGet, path, "alice-token", nil, ""); rr.Code != http.StatusOK {
		t.Fatalf("owner lost access: status %d", rr.Code)
	}
	if rr := do(http.MethodDelete, path, "alice-token", nil, ""); rr.Code != http.StatusOK {
		t.Fatalf("owner delete failed: status %d", rr.Code)
	}
	if rr := do(http.MethodGet, path, "alice-token", nil, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected deleted session to be gone, got %d", rr.Code)
	}
}
