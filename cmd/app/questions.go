package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"antibias-assessment/internal/repository"
)

var (
	questionsFile  string
	questionsQuiet bool
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print and validate the question bank",
	Long:  "Print the question bank in canonical order. Loading fails with a description of the problem when the bank is invalid.",
	RunE:  runQuestions,
}

func init() {
	questionsCmd.Flags().StringVar(&questionsFile, "file", "", "Question bank to check instead of the configured one")
	questionsCmd.Flags().BoolVarP(&questionsQuiet, "quiet", "q", false, "Only print the summary")
}

func runQuestions(cmd *cobra.Command, args []string) error {
	var bank repository.QuestionRepository
	if questionsFile != "" {
		var err error
		if bank, err = repository.NewQuestionRepository(questionsFile); err != nil {
			return err
		}
	} else {
		a, err := loadApp()
		if err != nil {
			return err
		}
		bank = a.questions
	}

	out := cmd.OutOrStdout()
	if !questionsQuiet {
		printBank(out, bank)
	}
	fmt.Fprintf(out, "%d statements in %d categories\n", bank.Count(), len(bank.Categories()))
	return nil
}

func printBank(w io.Writer, bank repository.QuestionRepository) {
	fmt.Fprintln(w, bank.Title())
	fmt.Fprintln(w)

	category, subcategory := "", ""
	for _, q := range bank.GetAllQuestions() {
		if q.Category != category {
			category, subcategory = q.Category, ""
			fmt.Fprintf(w, "%s\n", category)
		}
		if q.Subcategory != subcategory {
			subcategory = q.Subcategory
			fmt.Fprintf(w, "  %s\n", subcategory)
		}
		fmt.Fprintf(w, "    %2d. %s\n", q.ID, q.Text)
	}
	fmt.Fprintln(w)
}
