package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pdf-study-assistant/internal/domain"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if err := requireAgent(); err != nil {
		return err
	}

	session, err := uploadFile(cmd, args[0])
	if err != nil {
		return err
	}

	session, err = studyService.Summarize(commandContext(cmd), localOwner, session.ID)
	if errors.Is(err, domain.ErrNoExtractableText) {
		cmd.PrintErrln("no text found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("summary failed: %w", describe(err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), session.Summary)
	return nil
}
