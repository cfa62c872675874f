package main

import (
	"fmt"
	"io"
	"os"

	"antibias-assessment/internal/config"
	"antibias-assessment/internal/model"
	"antibias-assessment/internal/report"
	"antibias-assessment/internal/repository"
	"antibias-assessment/utilities"
)

// app is the configuration and question bank every command starts from.
type app struct {
	cfg       *config.APIConfig
	questions repository.QuestionRepository
	scale     model.Scale
}

func loadApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	questions, err := repository.NewQuestionRepository(cfg.Assessment.QuestionsFile)
	if err != nil {
		return nil, err
	}
	scale, err := model.ScaleFor(cfg.Assessment.Scale)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, questions: questions, scale: scale}, nil
}

// setupLogging starts file logging. Console output is left to the caller so
// terminal commands are not interleaved with log lines.
func (a *app) setupLogging(console bool) error {
	logging := a.cfg.Logging
	logging.Console = logging.Console && console
	return utilities.SetupLogging(logging)
}

func (a *app) title() string {
	if a.cfg.Assessment.Title != "" {
		return a.cfg.Assessment.Title
	}
	return a.questions.Title()
}

func (a *app) document() report.Document {
	return report.Document{
		Title:    a.title(),
		Author:   a.cfg.Report.Author,
		LogoPath: a.cfg.Report.LogoPath,
		Guidance: report.NewGuidance(a.questions.Categories()),
		Location: a.cfg.Location(),
	}
}

// writeOutput runs render against path, or against fallback when path is
// empty.
func writeOutput(path string, fallback io.Writer, render func(io.Writer) error) error {
	if path == "" {
		return render(fallback)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
