package main

import (
	"context"
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

const defaultFoundation = "Foundations of Arts and Humanities"

var cfg = config.Load()

var (
	allFoundations bool
	foundation     string
	outputPath     string
)

var rootCmd = &cobra.Command{
	Use:          "units [--all | --foundation <name>] [--output <file.sql>]",
	Short:        "Writes an UPDATE script raising 5-unit GE courses from 4 to 5 units.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	cfg.BindFlags(rootCmd)
	rootCmd.Flags().BoolVar(&allFoundations, "all", false, "Scrape every foundation.")
	rootCmd.Flags().StringVar(&foundation, "foundation", defaultFoundation, "Foundation to search when --all is not set.")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "update_units.sql", "Output file.")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := cfg.Logger()
	slog.SetDefault(logger)

	foundations := []string{foundation}
	if allFoundations {
		foundations = catalog.Foundations()
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
	if _, err := soc.NewScraper(session, logger).ScrapeFoundations(ctx, foundations, acc); err != nil {
		return err
	}
	if acc.Len() == 0 {
		return fmt.Errorf("units: no courses were parsed")
	}

	fiveUnit := emit.FiveUnitCourses(acc.Courses())
	if len(fiveUnit) == 0 {
		logger.Info("units: no 5-unit courses found, no patch script needed", "courses", acc.Len())
		return nil
	}
	logger.Info("units: found 5-unit courses", "courses", len(fiveUnit))

	if err := os.WriteFile(outputPath, []byte(emit.UnitsSQL(fiveUnit)), 0o644); err != nil {
		return fmt.Errorf("units: write %s: %w", outputPath, err)
	}
	logger.Info("units: wrote patch script", "path", outputPath)

	if cfg.DatabaseConnection != "" {
		if err := patch(ctx, fiveUnit); err != nil {
			return err
		}
		logger.Info("units: patched database", "courses", len(fiveUnit))
	}

	return nil
}

func patch(ctx context.Context, courses []*db.Course) error {
	database, err := db.Open(ctx, cfg.DatabaseConnection)
	if err != nil {
		return err
	}
	defer database.Close()

	codes := make([]string, 0, len(courses))
	for _, course := range courses {
		codes = append(codes, course.Code())
	}
	return database.UpdateUnits(ctx, codes, catalog.FiveUnits)
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
