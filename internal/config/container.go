package config

import (
	"context"

	"pdf-study-assistant/internal/domain"
	"pdf-study-assistant/internal/infra/supabase"
	"pdf-study-assistant/internal/service"
	"pdf-study-assistant/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config         domain.Config
	Logger         domain.Logger
	SupabaseClient domain.SupabaseClient
	AuthService    domain.AuthService
	TextExtractor  domain.TextExtractor
	StudyAgent     domain.StudyAgent
	SessionStore   domain.SessionStore
	StudyService   domain.StudyService

	agent *service.GeminiStudyAgent
}

// NewContainer creates a new dependency injection container from the
// environment
func NewContainer(ctx context.Context) *Container {
	config := NewConfig()
	return NewContainerWithConfig(ctx, config, logger.NewLogger(config.GetLogLevel()))
}

// NewContainerWithConfig wires the application from an explicit config.
// Optional integrations (Supabase auth, the Gemini study agent, OCR) are
// left nil when they are not configured or fail to start.
func NewContainerWithConfig(ctx context.Context, config domain.Config, appLogger domain.Logger) *Container {
	c := &Container{
		Config: config,
		Logger: appLogger,
	}

	c.TextExtractor = newTextExtractor(config, appLogger)

	// Study agent
	if config.GetGCPProjectID() != "" {
		agent, err := service.NewGeminiStudyAgent(ctx, config.GetGCPProjectID(), config.GetGCPLocation(), config.GetGeminiModel(), appLogger)
		if err != nil {
			appLogger.Error("Failed to initialize study agent", err)
		} else {
			c.agent = agent
			c.StudyAgent = agent
		}
	} else {
		appLogger.Warn("GCP_PROJECT_ID not set; summaries and quizzes are disabled")
	}

	// Initialize Supabase client
	supabaseClient := supabase.NewSupabaseClient(config, appLogger)
	if supabaseClient.IsConfigured() {
		if err := supabaseClient.Initialize(); err != nil {
			appLogger.Error("Failed to initialize Supabase client", err)
		} else {
			c.SupabaseClient = supabaseClient
			c.AuthService = service.NewAuthService(supabaseClient, appLogger)
		}
	} else {
		appLogger.Warn("Supabase not configured; API authentication is disabled")
	}

	sessions := service.NewMemorySessionStore()
	c.SessionStore = sessions
	c.StudyService = service.NewStudyService(
		c.TextExtractor,
		c.StudyAgent,
		sessions,
		appLogger,
		config.GetMaxFileSize(),
		config.GetSessionTTL(),
	)

	return c
}

func newTextExtractor(config domain.Config, appLogger domain.Logger) *service.TextExtractor {
	var parser domain.PDFParser
	switch config.GetPDFParser() {
	case "ledongthuc":
		parser = service.NewLedongthucParser()
	case "fitz", "":
		parser = service.NewFitzParser(config.GetPageTimeout(), appLogger)
	default:
		appLogger.Warn("Unknown PDF_PARSER, using fitz", "parser", config.GetPDFParser())
		parser = service.NewFitzParser(config.GetPageTimeout(), appLogger)
	}

	opts := service.ExtractorOptions{
		MinTextLength: config.GetOCRMinTextLength(),
		OCRWorkers:    config.GetOCRWorkers(),
	}

	if !config.GetOCREnabled() {
		appLogger.Info("OCR fallback disabled")
		return service.NewTextExtractor(parser, nil, nil, opts, appLogger)
	}

	rasterizer := service.NewFitzRasterizer(config.GetOCRDPI())
	engine := service.NewTesseractEngine(config.GetOCRLanguages(), int(config.GetOCRDPI()))
	appLogger.Info("Text extractor configured",
		"parser", parser.Name(),
		"ocr", engine.Name(),
		"min_text_length", opts.MinTextLength,
		"ocr_workers", opts.OCRWorkers,
	)
	return service.NewTextExtractor(parser, rasterizer, engine, opts, appLogger)
}

// Close releases clients held by the container
func (c *Container) Close() error {
	if c.agent != nil {
		return c.agent.Close()
	}
	return nil
}
