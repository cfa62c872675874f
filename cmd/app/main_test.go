package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with a missing config file so defaults
// apply, and keeps log files out of the working tree.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("ASSESS_LOG_DIR", t.TempDir())
	t.Setenv("ASSESS_LOG_CONSOLE", "false")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.xml")}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		reportAnswers, reportFormat, reportOut = "", "pdf", ""
		questionsFile, questionsQuiet = "", false
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeAnswers(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAnswers(t *testing.T) {
	raw, err := loadAnswers(strings.NewReader("1: 5\n2: '3'\n7: often\n"))
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "5", 2: "3", 7: "often"}, raw)

	raw, err = loadAnswers(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, raw)

	_, err = loadAnswers(strings.NewReader("1: [5, 4]\n"))
	assert.Error(t, err)

	_, err = loadAnswers(strings.NewReader("first: 5\n"))
	assert.Error(t, err)
}

func TestReportCommandText(t *testing.T) {
	answers := writeAnswers(t, "1: 5\n2: 4\n3: 9\n")

	stdout, stderr, err := execute(t, "report", "--answers", answers, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Overall: 9 out of 235 (3%)")
	assert.Contains(t, stderr, "question 3: selected value must be one of 1, 2, 3, 4, 5")
}

func TestReportCommandPDF(t *testing.T) {
	answers := writeAnswers(t, "1: 5\n")
	out := filepath.Join(t.TempDir(), "report.pdf")

	_, _, err := execute(t, "report", "--answers", answers, "--format", "pdf", "--out", out)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestReportCommandRejectsFormat(t *testing.T) {
	answers := writeAnswers(t, "1: 5\n")
	_, _, err := execute(t, "report", "--answers", answers, "--format", "docx")
	assert.ErrorContains(t, err, `unknown format "docx"`)
}

func TestQuestionsCommand(t *testing.T) {
	stdout, _, err := execute(t, "questions")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Recruiting & Hiring")
	assert.Contains(t, stdout, "47 statements in 6 categories")

	bad := filepath.Join(t.TempDir(), "bank.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("title: Empty\ncategories: []\n"), 0o644))
	_, _, err = execute(t, "questions", "--file", bad, "--quiet")
	assert.Error(t, err)
}
