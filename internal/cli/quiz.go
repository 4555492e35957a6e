package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pdf-study-assistant/internal/domain"
)

var (
	quizQuestions int
	quizJSON      bool
)

var quizCmd = &cobra.Command{
	Use:   "quiz [file]",
	Short: "Generate a multiple choice quiz from a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuiz,
}

func init() {
	quizCmd.Flags().IntVarP(&quizQuestions, "questions", "n", domain.DefaultQuizQuestions, "number of questions")
	quizCmd.Flags().BoolVar(&quizJSON, "json", false, "output the quiz as JSON")
	rootCmd.AddCommand(quizCmd)
}

func runQuiz(cmd *cobra.Command, args []string) error {
	if quizQuestions < domain.MinQuizQuestions || quizQuestions > domain.MaxQuizQuestions {
		return fmt.Errorf("--questions must be between %d and %d", domain.MinQuizQuestions, domain.MaxQuizQuestions)
	}

	if err := requireAgent(); err != nil {
		return err
	}

	session, err := uploadFile(cmd, args[0])
	if err != nil {
		return err
	}

	quiz, err := studyService.GenerateQuiz(commandContext(cmd), localOwner, session.ID, quizQuestions)
	if errors.Is(err, domain.ErrNoExtractableText) {
		cmd.PrintErrln("no text found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("quiz failed: %w", describe(err))
	}

	if quizJSON {
		data, err := json.MarshalIndent(quiz.Questions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal quiz: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(quiz.Questions) == 0 {
		cmd.PrintErrln("The model returned no questions.")
		return nil
	}

	out := cmd.OutOrStdout()
	for i, q := range quiz.Questions {
		fmt.Fprintf(out, "%d. %s\n", i+1, q.Question)
		for _, opt := range q.Options {
			fmt.Fprintf(out, "   %s\n", opt)
		}
		fmt.Fprintf(out, "   Answer: %s\n\n", q.Answer)
	}
	return nil
}
