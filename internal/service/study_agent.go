package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pdf-study-assistant/internal/domain"

	"cloud.google.com/go/vertexai/genai"
)

const studyAgentInstruction = "You are an Educational Assistant. Your goal is to help students learn from PDF documents."

// contentGenerator is the part of *genai.GenerativeModel the agent uses
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiStudyAgent produces summaries and quizzes with Gemini on Vertex AI
type GeminiStudyAgent struct {
	client       *genai.Client
	summaryModel contentGenerator
	quizModel    contentGenerator
	logger       domain.Logger
}

// NewGeminiStudyAgent connects to Vertex AI and configures one model for
// free-form summaries and one forced to JSON output for quizzes.
func NewGeminiStudyAgent(ctx context.Context, projectID, location, modelName string, logger domain.Logger) (*GeminiStudyAgent, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("NewGeminiStudyAgent: projectID and location cannot be empty")
	}

	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}

	instruction := &genai.Content{
		Parts: []genai.Part{genai.Text(studyAgentInstruction)},
	}

	summaryModel := client.GenerativeModel(modelName)
	summaryModel.SystemInstruction = instruction

	quizModel := client.GenerativeModel(modelName)
	quizModel.SystemInstruction = instruction
	quizModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	logger.Info("Study agent initialized", "project", projectID, "location", location, "model", modelName)

	return &GeminiStudyAgent{
		client:       client,
		summaryModel: summaryModel,
		quizModel:    quizModel,
		logger:       logger,
	}, nil
}

// Close releases the Vertex AI client
func (a *GeminiStudyAgent) Close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

// Summarize returns a bulleted summary of text
func (a *GeminiStudyAgent) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := a.summaryModel.GenerateContent(ctx, genai.Text(buildSummaryPrompt(text)))
	if err != nil {
		return "", fmt.Errorf("%w: summary: %w", domain.ErrAgentCall, err)
	}

	summary := responseText(resp)
	if summary == "" {
		return "", fmt.Errorf("%w: summary: empty response from model", domain.ErrAgentCall)
	}
	return summary, nil
}

// GenerateQuiz returns numQuestions multiple choice questions about text. A
// response that is not a JSON array yields an empty quiz, and array items
// that are not complete questions are dropped.
func (a *GeminiStudyAgent) GenerateQuiz(ctx context.Context, text string, numQuestions int) ([]domain.QuizQuestion, error) {
	resp, err := a.quizModel.GenerateContent(ctx, genai.Text(buildQuizPrompt(text, numQuestions)))
	if err != nil {
		return nil, fmt.Errorf("%w: quiz: %w", domain.ErrAgentCall, err)
	}

	questions, skipped, err := parseQuizResponse(responseText(resp))
	if err != nil {
		a.logger.Warn("Quiz response was not valid JSON; returning empty quiz", "error", err)
		return []domain.QuizQuestion{}, nil
	}
	if skipped > 0 {
		a.logger.Warn("Dropped invalid quiz questions", "skipped", skipped, "kept", len(questions))
	}
	return questions, nil
}

func buildSummaryPrompt(text string) string {
	return "Create a concise, easy-to-read, bulleted summary of the following text. " +
		"Focus on the key points and main ideas. Avoid jargon and unnecessary details.\n\n" +
		"Text:\n" + text
}

func buildQuizPrompt(text string, numQuestions int) string {
	return fmt.Sprintf("Generate %d Multiple Choice Questions based on the following text. ", numQuestions) +
		"For each question, provide 4 options (A, B, C, D) and specify the correct answer. " +
		"Return the output as a JSON array of objects, where each object has 'question', 'options' (an array of strings), and 'answer' fields. " +
		`Example: [{"question": "...", "options": ["A. ...", "B. ...", "C. ...", "D. ..."], "answer": "A"}, ...]` + "\n\n" +
		"Text:\n" + text
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return strings.TrimSpace(sb.String())
}

// parseQuizResponse decodes a JSON array of questions, tolerating a markdown
// code fence around it. Items missing a field or with the wrong field types
// are skipped and counted.
func parseQuizResponse(raw string) ([]domain.QuizQuestion, int, error) {
	raw = stripCodeFence(raw)
	if raw == "" {
		return nil, 0, fmt.Errorf("empty quiz response")
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, 0, fmt.Errorf("decode quiz: %w", err)
	}

	questions := make([]domain.QuizQuestion, 0, len(items))
	skipped := 0
	for _, item := range items {
		q, err := decodeQuestion(item)
		if err != nil {
			skipped++
			continue
		}
		questions = append(questions, q)
	}
	return questions, skipped, nil
}

func decodeQuestion(raw json.RawMessage) (domain.QuizQuestion, error) {
	var q domain.QuizQuestion
	var item map[string]json.RawMessage
	if err := json.Unmarshal(raw, &item); err != nil {
		return q, err
	}
	if err := decodeField(item, "question", &q.Question); err != nil {
		return q, err
	}
	if err := decodeField(item, "options", &q.Options); err != nil {
		return q, err
	}
	if err := decodeField(item, "answer", &q.Answer); err != nil {
		return q, err
	}
	return q, nil
}

func decodeField(item map[string]json.RawMessage, key string, dst interface{}) error {
	raw, ok := item[key]
	if !ok {
		return fmt.Errorf("missing %q", key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

func stripCodeFence(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```")
	if nl := strings.IndexByte(raw, '\n'); nl >= 0 {
		// drop the language tag line, e.g. ```json
		raw = raw[nl+1:]
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}
