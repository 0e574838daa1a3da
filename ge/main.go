package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bruinplan/scrape/browser"
	"github.com/bruinplan/scrape/catalog"
	"github.com/bruinplan/scrape/config"
	"github.com/bruinplan/scrape/db"
	"github.com/bruinplan/scrape/emit"
	"github.com/bruinplan/scrape/soc"
	"github.com/spf13/cobra"
)

const (
	defaultFoundation = "Scientific Inquiry"
	singleOutput      = "ge_courses.sql"
	masterOutput      = "ge_courses_master.sql"
)

var cfg = config.Load()

var (
	allFoundations bool
	foundation     string
	outputPath     string
)

var rootCmd = &cobra.Command{
	Use:          "ge [--all | --foundation <name>] [--output <file.sql>]",
	Short:        "Scrapes the GE master list into a SQL insert script.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	cfg.BindFlags(rootCmd)
	rootCmd.Flags().BoolVar(&allFoundations, "all", false, "Scrape every foundation and merge the results.")
	rootCmd.Flags().StringVar(&foundation, "foundation", defaultFoundation, "Foundation to search when --all is not set.")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default "+singleOutput+", or "+masterOutput+" with --all).")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := cfg.Logger()
	slog.SetDefault(logger)

	foundations := []string{foundation}
	output := singleOutput
	if allFoundations {
		foundations = catalog.Foundations()
		output = masterOutput
	}
	if outputPath != "" {
		output = outputPath
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

	acc := catalog.NewAccumulator()
	scraper := soc.NewScraper(session, logger)

	succeeded, err := scraper.ScrapeFoundations(ctx, foundations, acc)
	if err != nil {
		return err
	}
	logger.Info("ge: scrape finished", "foundations", len(foundations), "succeeded", succeeded, "courses", acc.Len())

	if acc.Len() == 0 {
		return errors.New("ge: no courses were parsed; the page structure may have changed or the site is down")
	}

	courses := acc.Courses()
	if err := os.WriteFile(output, []byte(emit.GESQL(courses)), 0o644); err != nil {
		return fmt.Errorf("ge: write %s: %w", output, err)
	}
	logger.Info("ge: wrote SQL script", "path", output)

	if cfg.DatabaseConnection != "" {
		if err := load(ctx, courses); err != nil {
			return err
		}
		logger.Info("ge: loaded courses into database", "courses", len(courses))
	}

	return nil
}

func load(ctx context.Context, courses []*db.Course) error {
	database, err := db.Open(ctx, cfg.DatabaseConnection)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := database.InsertClasses(ctx, courses); err != nil {
		return err
	}
	return database.InsertRequirementClasses(ctx, emit.RequirementClasses(courses))
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
