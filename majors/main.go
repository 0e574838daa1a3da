package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bruinplan/scrape/browser"
	"github.com/bruinplan/scrape/config"
	"github.com/bruinplan/scrape/db"
	"github.com/bruinplan/scrape/emit"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const defaultMajor = "African American Studies"

var cfg = config.Load()

var (
	savedPage string
	outputDir string
	year      int
)

var rootCmd = &cobra.Command{
	Use:          "majors [major name] [--html saved_page.html]",
	Short:        "Scrapes a major's requirements from the catalog into JSON.",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	cfg.BindFlags(rootCmd)
	rootCmd.Flags().StringVar(&savedPage, "html", "", "Parse a saved major page instead of opening the catalog.")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "output", "Directory for the JSON document.")
	rootCmd.Flags().IntVar(&year, "year", cfg.MajorCatalogYear, "Catalog year.")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := cfg.Logger()
	slog.SetDefault(logger)

	majorName := defaultMajor
	if len(args) == 1 {
		majorName = args[0]
	}

	var major db.Major
	var err error
	if savedPage != "" {
		major, err = parseSaved(savedPage)
	} else {
		major, err = scrape(ctx, logger, majorName)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("majors: create output dir: %w", err)
	}
	output := filepath.Join(outputDir, OutputName(majorName))
	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("majors: create output: %w", err)
	}
	defer file.Close()

	if err := emit.MajorJSON(file, major); err != nil {
		return fmt.Errorf("majors: write %s: %w", output, err)
	}
	logger.Info("majors: wrote requirements", "path", output)

	printSummary(major)

	if len(major.Requirements) == 0 && len(major.RequirementGroups) == 0 {
		return fmt.Errorf("majors: no requirements found for %s", majorName)
	}
	return nil
}

func parseSaved(path string) (db.Major, error) {
	markup, err := os.ReadFile(path)
	if err != nil {
		return db.Major{}, fmt.Errorf("majors: read saved page: %w", err)
	}
	return ParseSavedPage(string(markup))
}

func scrape(ctx context.Context, logger *slog.Logger, majorName string) (db.Major, error) {
	session, err := browser.Launch(ctx, browser.Config{
		RemoteURL:         cfg.Browser.RemoteURL,
		Headless:          cfg.Browser.Headless,
		NavigationTimeout: cfg.NavigationTimeout(),
		Logger:            logger,
	})
	if err != nil {
		return db.Major{}, err
	}
	defer session.Close()

	scraper := &MajorScraper{
		Session:      session,
		Logger:       logger.With("major", majorName),
		Year:         year,
		Settle:       5 * time.Second,
		ExpandSettle: 2 * time.Second,
	}
	return scraper.Scrape(ctx, majorName)
}

func printSummary(major db.Major) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(major.MajorName)
	t.AppendHeader(table.Row{"Section", "Kind", "Choose", "Courses"})

	for _, requirement := range major.Requirements {
		t.AppendRow(table.Row{requirement.Name, string(requirement.Type), requirement.CoursesToChoose, courseCodes(requirement.Classes)})
	}
	for _, group := range major.RequirementGroups {
		choose := fmt.Sprintf("%d total (%d in %d, %d in %d)", group.Total, group.HighNumberInReq, group.NumberOfHighReqs, group.LowNumberInReq, group.NumberOfLowReqs)
		t.AppendRow(table.Row{group.Name, "Group", choose, courseCodes(group.Classes)})
	}

	t.Render()
}

func courseCodes(courses []db.CourseRef) string {
	codes := make([]string, 0, len(courses))
	for _, course := range courses {
		codes = append(codes, course.Code)
	}
	return strings.Join(codes, ", ")
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
