package domain

import "time"

const (
	DefaultQuizQuestions = 5
	MinQuizQuestions     = 1
	MaxQuizQuestions     = 20
)

// QuizQuestion is a single multiple choice question
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Quiz is the latest quiz generated for a session
type Quiz struct {
	SessionID   string         `json:"session_id"`
	Questions   []QuizQuestion `json:"questions"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// StudySession holds the text extracted from one uploaded PDF and the
// study material generated from it
type StudySession struct {
	ID           string            `json:"id"`
	OwnerID      string            `json:"owner_id,omitempty"`
	OriginalName string            `json:"original_name"`
	Text         string            `json:"text"`
	Outcome      ExtractionOutcome `json:"outcome"`
	Tier         ExtractionTier    `json:"tier"`
	PageCount    int               `json:"page_count"`
	OCRFailure   string            `json:"ocr_failure,omitempty"`
	Summary      string            `json:"summary,omitempty"`
	Quiz         *Quiz             `json:"quiz,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	ExpiresAt    time.Time         `json:"expires_at"`
}

// HasText reports whether the session has anything to study
func (s *StudySession) HasText() bool {
	return s != nil && s.Outcome == OutcomeText
}
