package main

import (
	"context"
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const version = "1.0.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "assessment",
	Short:         "Anti-bias self assessment questionnaire",
	Long:          "Serve the anti-bias self assessment in a browser, take it in the terminal, or render reports from saved answers.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.xml", "Path to the XML configuration file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(questionsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// printStartUpBanner prints the banner only to an interactive terminal so
// piped or collected logs stay clean.
func printStartUpBanner() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	myFigure := figure.NewFigure("ASSESS", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("ANTI-BIAS SELF ASSESSMENT (v%s)\n\n", version)
}
