package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"antibias-assessment/internal/report"
	"antibias-assessment/internal/repository"
	"antibias-assessment/internal/service"
	"antibias-assessment/internal/tui"
	"antibias-assessment/utilities"
)

var takePDF string

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Answer the questionnaire in the terminal",
	RunE:  runTake,
}

func init() {
	takeCmd.Flags().StringVar(&takePDF, "pdf", "", "Also write a PDF report to this path")
}

func runTake(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	if err := a.setupLogging(false); err != nil {
		return err
	}
	defer utilities.SyncLogging()

	sessions := repository.NewSessionRepository(0)
	defer sessions.Close()
	assessmentService := service.NewAssessmentService(a.questions, sessions, service.AssessmentOptions{
		Title:   a.cfg.Assessment.Title,
		Scale:   a.scale,
		Shuffle: a.cfg.Assessment.Shuffle,
	})
	session, err := assessmentService.StartSession()
	if err != nil {
		return err
	}

	m := tui.New(assessmentService.Title(), assessmentService.Scale(), assessmentService.OrderedQuestions(session))
	final, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return fmt.Errorf("run questionnaire: %w", err)
	}
	answered, ok := final.(tui.Model)
	if !ok || answered.Aborted() {
		fmt.Fprintln(cmd.OutOrStdout(), "Assessment cancelled.")
		return nil
	}

	result, err := assessmentService.Submit(session, answered.Answers())
	if err != nil {
		return err
	}
	doc := a.document()
	out := cmd.OutOrStdout()
	if err := report.WriteText(out, doc, result); err != nil {
		return err
	}
	if err := printGuidance(out, doc.Guidance); err != nil {
		return err
	}

	if takePDF != "" {
		if err := writeOutput(takePDF, nil, func(w io.Writer) error { return report.WritePDF(w, doc, result) }); err != nil {
			return err
		}
		fmt.Fprintf(out, "PDF report written to %s\n", takePDF)
	}
	return nil
}

func printGuidance(w io.Writer, g report.Guidance) error {
	width, color := 80, false
	if term.IsTerminal(int(os.Stdout.Fd())) {
		color = true
		if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 20 {
			width = cols
		}
	}
	text, err := g.Terminal(width, color)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}
