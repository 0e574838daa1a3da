package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bruinplan/scrape/browser"
	"github.com/bruinplan/scrape/config"
	"github.com/bruinplan/scrape/emit"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/spf13/cobra"
)

var cfg = config.Load()

var (
	inputPath  string
	outputPath string
	year       int
)

var rootCmd = &cobra.Command{
	Use:          "details [--input courses.txt] [--output ucla_catalog_selenium.csv]",
	Short:        "Scrapes units and requisites from the catalog page of each listed course.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	cfg.BindFlags(rootCmd)
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "courses.txt", "File with one course code per line.")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "ucla_catalog_selenium.csv", "Output CSV file.")
	rootCmd.Flags().IntVar(&year, "year", cfg.CatalogYear, "Catalog year.")
}

func newProgress(total int) (progress.Writer, *progress.Tracker) {
	pw := progress.NewWriter()
	pw.SetOutputWriter(os.Stderr)
	pw.SetTrackerLength(30)
	pw.SetStyle(progress.StyleDefault)
	pw.SetUpdateFrequency(200 * time.Millisecond)
	pw.Style().Visibility.ETA = true

	tracker := &progress.Tracker{Message: "Scraping catalog", Total: int64(total), Units: progress.UnitsDefault}
	pw.AppendTracker(tracker)
	return pw, tracker
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := cfg.Logger()
	slog.SetDefault(logger)

	input, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("details: open input: %w", err)
	}
	codes, err := ReadCodes(input)
	input.Close()
	if err != nil {
		return fmt.Errorf("details: %s: %w", inputPath, err)
	}
	logger.Info("details: loaded course codes", "count", len(codes), "path", inputPath)

	output, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("details: create output: %w", err)
	}
	defer output.Close()

	writer, err := emit.NewCSVWriter(output)
	if err != nil {
		return fmt.Errorf("details: write header: %w", err)
	}

	session, err := browser.Launch(ctx, browser.Config{
		RemoteURL:         cfg.Browser.RemoteURL,
		Headless:          cfg.Browser.Headless,
		NavigationTimeout: cfg.NavigationTimeout(),
		Logger:            logger,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	scraper := &CourseScraper{
		Session:     session,
		Logger:      logger,
		Year:        year,
		PageTimeout: 10 * time.Second,
	}

	pw, tracker := newProgress(len(codes))
	go pw.Render()

	loaded, err := scraper.ScrapeCourses(ctx, codes, writer, func() { tracker.Increment(1) })

	tracker.MarkAsDone()
	pw.Stop()
	for pw.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}

	if err != nil {
		return err
	}

	logger.Info("details: scrape finished", "codes", len(codes), "loaded", loaded, "path", outputPath)
	if loaded == 0 {
		return fmt.Errorf("details: no course page loaded")
	}
	return nil
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
