package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"antibias-assessment/internal/model"
	"antibias-assessment/internal/report"
	"antibias-assessment/internal/service"
	"antibias-assessment/utilities"
)

var (
	reportAnswers string
	reportFormat  string
	reportOut     string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a report from a saved answers file",
	Long: `Render a report from a YAML map of question id to score, for example:

  1: 5
  2: 3
  14: 4

Unanswered ids may be left out. Values off the scale are reported on stderr
and left out of the totals.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportAnswers, "answers", "", "YAML answers file (required)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "pdf", "Output format: pdf, html or text")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "Output path (default: stdout for html/text, assessment-report.pdf for pdf)")
	_ = reportCmd.MarkFlagRequired("answers")
}

func runReport(cmd *cobra.Command, args []string) error {
	var render func(io.Writer, report.Document, *model.Result) error
	out := reportOut
	switch reportFormat {
	case "pdf":
		render = report.WritePDF
		if out == "" {
			out = "assessment-report.pdf"
		}
	case "html":
		render = report.WriteHTML
	case "text":
		render = report.WriteText
	default:
		return fmt.Errorf("unknown format %q (want pdf, html or text)", reportFormat)
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	if err := a.setupLogging(false); err != nil {
		return err
	}
	defer utilities.SyncLogging()

	f, err := os.Open(reportAnswers)
	if err != nil {
		return fmt.Errorf("open answers: %w", err)
	}
	defer f.Close()
	raw, err := loadAnswers(f)
	if err != nil {
		return err
	}

	result := service.Score(a.questions, a.scale, raw)
	result.SubmittedAt = time.Now()
	for _, e := range result.Invalid {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %v (value %q)\n", e, e.Value)
	}
	utilities.Info("rendered %s report from %s: %d/%d (%d%%)", reportFormat, reportAnswers, result.Total, result.MaxTotal, result.Percentage)

	doc := a.document()
	return writeOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
		return render(w, doc, result)
	})
}

// loadAnswers decodes a YAML mapping of question id to score. Scores are kept
// as text so malformed values reach validation instead of failing the load.
func loadAnswers(r io.Reader) (map[int]string, error) {
	var doc map[int]yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return map[int]string{}, nil
		}
		return nil, fmt.Errorf("parse answers: %w", err)
	}
	raw := make(map[int]string, len(doc))
	for id, node := range doc {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("parse answers: question %d: expected a single value", id)
		}
		raw[id] = node.Value
	}
	return raw, nil
}
