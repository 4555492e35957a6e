package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"pdf-study-assistant/internal/domain"

	"github.com/google/uuid"
)

const defaultSessionTTL = time.Hour

// StudyService turns uploaded PDFs into study sessions and generates study
// material from them
type StudyService struct {
	extractor   domain.TextExtractor
	agent       domain.StudyAgent
	sessions    domain.SessionStore
	logger      domain.Logger
	maxFileSize int64
	sessionTTL  time.Duration
	now         func() time.Time
	newID       func() string
}

// NewStudyService creates a study service. agent may be nil, in which case
// Summarize and GenerateQuiz return domain.ErrAgentUnavailable.
func NewStudyService(
	extractor domain.TextExtractor,
	agent domain.StudyAgent,
	sessions domain.SessionStore,
	logger domain.Logger,
	maxFileSize int64,
	sessionTTL time.Duration,
) *StudyService {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &StudyService{
		extractor:   extractor,
		agent:       agent,
		sessions:    sessions,
		logger:      logger,
		maxFileSize: maxFileSize,
		sessionTTL:  sessionTTL,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Extract validates and extracts a PDF without creating a session
func (s *StudyService) Extract(ctx context.Context, originalName string, payload io.ReadSeeker, size int64) (*domain.ExtractionResult, error) {
	if err := s.validateUpload(originalName, size); err != nil {
		return nil, err
	}

	start := s.now()
	result, err := s.extractor.Extract(ctx, payload)
	if err != nil {
		s.logger.Error("Extraction failed", err, "file", originalName)
		return nil, err
	}

	s.logger.Info("Extraction complete",
		"file", originalName,
		"outcome", result.Outcome(),
		"tier", result.Tier,
		"pages", result.PageCount,
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	return result, nil
}

// Upload extracts a PDF and stores the text as a new study session owned by
// ownerID. Malformed documents do not create a session.
func (s *StudyService) Upload(ctx context.Context, ownerID, originalName string, payload io.ReadSeeker, size int64) (*domain.StudySession, error) {
	result, err := s.Extract(ctx, originalName, payload, size)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &domain.StudySession{
		ID:           s.newID(),
		OwnerID:      ownerID,
		OriginalName: cleanFileName(originalName),
		Text:         result.Text,
		Outcome:      result.Outcome(),
		Tier:         result.Tier,
		PageCount:    result.PageCount,
		OCRFailure:   result.OCRFailure,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

func (s *StudyService) GetSession(ownerID, id string) (*domain.StudySession, error) {
	return s.ownedSession(ownerID, id)
}

func (s *StudyService) DeleteSession(ownerID, id string) error {
	if _, err := s.ownedSession(ownerID, id); err != nil {
		return err
	}
	return s.sessions.Delete(id)
}

func (s *StudyService) RequireAgent() error {
	if s.agent == nil {
		return domain.ErrAgentUnavailable
	}
	return nil
}

// Summarize generates a summary for the session and stores it as the
// session's latest summary. A session deleted during generation stays deleted.
func (s *StudyService) Summarize(ctx context.Context, ownerID, id string) (*domain.StudySession, error) {
	session, err := s.studySession(ownerID, id)
	if err != nil {
		return nil, err
	}

	summary, err := s.agent.Summarize(ctx, session.Text)
	if err != nil {
		s.logger.Error("Summary generation failed", err, "session_id", id)
		return nil, err
	}

	updated, err := s.sessions.Update(id, func(stored *domain.StudySession) {
		stored.Summary = summary
	})
	if err != nil {
		s.logger.Warn("Session gone before summary was stored", "session_id", id)
		return nil, err
	}
	return updated, nil
}

// GenerateQuiz generates numQuestions questions for the session. Zero means
// the default count.
func (s *StudyService) GenerateQuiz(ctx context.Context, ownerID, id string, numQuestions int) (*domain.Quiz, error) {
	if numQuestions == 0 {
		numQuestions = domain.DefaultQuizQuestions
	}
	if numQuestions < domain.MinQuizQuestions || numQuestions > domain.MaxQuizQuestions {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidQuestionCount, numQuestions)
	}

	session, err := s.studySession(ownerID, id)
	if err != nil {
		return nil, err
	}

	questions, err := s.agent.GenerateQuiz(ctx, session.Text, numQuestions)
	if err != nil {
		s.logger.Error("Quiz generation failed", err, "session_id", id)
		return nil, err
	}
	if len(questions) == 0 {
		s.logger.Warn("Quiz generation returned no questions", "session_id", id, "requested", numQuestions)
	}

	quiz := &domain.Quiz{
		SessionID:   id,
		Questions:   questions,
		GeneratedAt: s.now(),
	}
	if _, err := s.sessions.Update(id, func(stored *domain.StudySession) {
		stored.Quiz = quiz
	}); err != nil {
		s.logger.Warn("Session gone before quiz was stored", "session_id", id)
		return nil, err
	}
	return quiz, nil
}

// ownedSession loads a session visible to ownerID. Sessions of other owners
// are reported as not found.
func (s *StudyService) ownedSession(ownerID, id string) (*domain.StudySession, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// studySession loads a session that can be sent to the agent
func (s *StudyService) studySession(ownerID, id string) (*domain.StudySession, error) {
	if err := s.RequireAgent(); err != nil {
		return nil, err
	}
	session, err := s.ownedSession(ownerID, id)
	if err != nil {
		return nil, err
	}
	if !session.HasText() {
		return nil, domain.ErrNoExtractableText
	}
	return session, nil
}

func (s *StudyService) validateUpload(originalName string, size int64) error {
	name := cleanFileName(originalName)
	if strings.ToLower(filepath.Ext(name)) != ".pdf" {
		return fmt.Errorf("%w: %q", domain.ErrInvalidFile, name)
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", domain.ErrFileTooLarge, size, s.maxFileSize)
	}
	return nil
}

// cleanFileName strips any path components from an uploaded file name
func cleanFileName(name string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		return "document.pdf"
	}
	return name
}
