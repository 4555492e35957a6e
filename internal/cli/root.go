// Package cli implements the study command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pdf-study-assistant/internal/domain"
)

// Options are the global flags that affect how services are built
type Options struct {
	// MinTextLength overrides OCR_MIN_TEXT_LENGTH when non-negative
	MinTextLength int
	LogLevel      string
}

// localOwner owns every session the CLI creates
const localOwner = ""

// ServiceFactory builds the study service for one command run. The returned
// func releases whatever the service holds.
type ServiceFactory func(ctx context.Context, opts Options) (domain.StudyService, func(), error)

var (
	studyService   domain.StudyService
	serviceFactory ServiceFactory
	cleanup        func()

	minTextLength int
	logLevel      string
)

var rootCmd = &cobra.Command{
	Use:   "study",
	Short: "Extract text from PDFs and turn it into study material",
	Long: `Extracts the text of a PDF, falling back to OCR for scanned documents,
and generates summaries and multiple choice quizzes from it.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initServices,
	PersistentPostRunE: releaseServices,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&minTextLength, "min-text-length", -1,
		"direct text length below which OCR runs (0 disables OCR, -1 uses OCR_MIN_TEXT_LENGTH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr (debug|info|warn|error)")
}

// SetServiceFactory registers how commands obtain their study service
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// SetStudyService injects a ready service, bypassing the factory
func SetStudyService(s domain.StudyService) {
	studyService = s
}

// Execute runs the root command
func Execute() error {
	defer func() { _ = releaseServices(nil, nil) }()
	return rootCmd.Execute()
}

func initServices(cmd *cobra.Command, _ []string) error {
	if studyService != nil || serviceFactory == nil {
		return nil
	}
	svc, release, err := serviceFactory(cmd.Context(), Options{MinTextLength: minTextLength, LogLevel: logLevel})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	studyService = svc
	cleanup = release
	return nil
}

func releaseServices(_ *cobra.Command, _ []string) error {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
	return nil
}

func requireService() (domain.StudyService, error) {
	if studyService == nil {
		return nil, errors.New("study service not configured")
	}
	return studyService, nil
}

// requireAgent fails before any extraction work when summaries and quizzes
// cannot be generated
func requireAgent() error {
	svc, err := requireService()
	if err != nil {
		return err
	}
	if err := svc.RequireAgent(); err != nil {
		return describe(err)
	}
	return nil
}

// openPDF opens path for extraction and returns its base name and size
func openPDF(path string) (*os.File, string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, "", 0, err
	}
	if info.IsDir() {
		f.Close()
		return nil, "", 0, fmt.Errorf("%s is a directory", path)
	}
	return f, filepath.Base(path), info.Size(), nil
}

// uploadFile extracts path into a new study session
func uploadFile(cmd *cobra.Command, path string) (*domain.StudySession, error) {
	svc, err := requireService()
	if err != nil {
		return nil, err
	}
	f, name, size, err := openPDF(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	session, err := svc.Upload(commandContext(cmd), localOwner, name, f, size)
	if err != nil {
		return nil, describe(err)
	}
	if session.OCRFailure != "" {
		cmd.PrintErrf("warning: OCR failed, using the embedded text layer: %s\n", session.OCRFailure)
	}
	return session, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// describe turns domain errors into messages fit for a terminal
func describe(err error) error {
	switch {
	case errors.Is(err, domain.ErrMalformedDocument):
		return fmt.Errorf("not a readable PDF: %w", err)
	case errors.Is(err, domain.ErrInvalidFile):
		return fmt.Errorf("only .pdf files are supported: %w", err)
	case errors.Is(err, domain.ErrAgentUnavailable):
		return fmt.Errorf("set GCP_PROJECT_ID to enable summaries and quizzes: %w", err)
	default:
		return err
	}
}
