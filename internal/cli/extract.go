package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pdf-study-assistant/internal/domain"
)

var extractJSON bool

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Print the text of a PDF",
	Long: `Extracts the embedded text layer of a PDF. When it holds too little text
the pages are rendered and recognized with OCR instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output the extraction result as JSON")
	rootCmd.AddCommand(extractCmd)
}

type extractOutput struct {
	File    string                   `json:"file"`
	Outcome domain.ExtractionOutcome `json:"outcome"`
	*domain.ExtractionResult
}

func runExtract(cmd *cobra.Command, args []string) error {
	svc, err := requireService()
	if err != nil {
		return err
	}
	f, name, size, err := openPDF(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := svc.Extract(commandContext(cmd), name, f, size)
	if err != nil {
		return describe(err)
	}

	if extractJSON {
		data, err := json.MarshalIndent(extractOutput{File: name, Outcome: result.Outcome(), ExtractionResult: result}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if result.OCRFailure != "" {
		cmd.PrintErrf("warning: OCR failed, using the embedded text layer: %s\n", result.OCRFailure)
	}
	if result.Outcome() == domain.OutcomeEmpty {
		cmd.PrintErrln("no text found")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), result.Text)
	return nil
}
