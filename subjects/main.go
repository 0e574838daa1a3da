package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bruinplan/scrape/catalog"
	"github.com/bruinplan/scrape/config"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var cfg = config.Load()

var (
	termCode   string
	outputPath string
)

var rootCmd = &cobra.Command{
	Use:          "subjects [--term <code>] [--output subjects.yaml]",
	Short:        "Refreshes the subject abbreviation table from the Schedule of Classes.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	cfg.BindFlags(rootCmd)
	rootCmd.Flags().StringVar(&termCode, "term", "", "Term code to list subjects for (default: the newest term offered).")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the merged subjects table here instead of stdout.")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := cfg.Logger()
	slog.SetDefault(logger)

	client := NewClient(cfg.NavigationTimeout())

	if termCode == "" {
		terms, err := ScrapeTerms(ctx, client)
		if err != nil {
			return fmt.Errorf("subjects: list terms: %w", err)
		}
		if len(terms) == 0 {
			return errors.New("subjects: no terms offered")
		}
		termCode = terms[0].Code
		logger.Info("subjects: using newest term", "term", terms[0].Name, "code", termCode)
	}

	subjectAreas, err := ScrapeSubjectAreas(ctx, client, termCode)
	if err != nil {
		return fmt.Errorf("subjects: list subject areas: %w", err)
	}
	if len(subjectAreas) == 0 {
		return errors.New("subjects: no subject areas found")
	}
	logger.Info("subjects: scraped subject areas", "count", len(subjectAreas))

	known := catalog.Subjects()
	printChanges(Compare(subjectAreas, known))

	var out io.Writer = os.Stdout
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("subjects: create output: %w", err)
		}
		defer file.Close()
		out = file
	}

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(map[string]map[string]string{"subjects": Merge(subjectAreas, known)}); err != nil {
		return fmt.Errorf("subjects: encode: %w", err)
	}
	return encoder.Close()
}

func printChanges(changes []Change) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stderr)
	t.AppendHeader(table.Row{"Subject", "Previous", "Current"})
	for _, change := range changes {
		t.AppendRow(table.Row{change.Name, change.Previous, change.Current})
	}
	t.AppendFooter(table.Row{"", "Changed", len(changes)})
	t.Render()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
