package emit

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/bruinplan/scrape/db"
)

const FailedTitle = "PAGE FAILED TO LOAD"

var csvHeader = []string{"course_code", "title", "units", "prerequisite_text"}

// CSVWriter writes one course details row at a time, flushing after each so
// a long run leaves usable output if it is interrupted.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter writes the header row.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	c := &CSVWriter{w: csv.NewWriter(w)}
	if err := c.write(csvHeader); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CSVWriter) Write(entry db.CatalogEntry) error {
	if entry.Failed {
		return c.write([]string{entry.CourseCode, FailedTitle, "", ""})
	}
	return c.write([]string{entry.CourseCode, entry.Title, formatUnits(entry.Units), entry.PrerequisiteText})
}

func (c *CSVWriter) write(record []string) error {
	if err := c.w.Write(record); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

// formatUnits keeps one decimal for whole numbers ("4.0") and the shortest
// form otherwise ("2.5"). Unknown units are empty.
func formatUnits(units *float64) string {
	if units == nil {
		return ""
	}
	if *units == float64(int64(*units)) {
		return strconv.FormatFloat(*units, 'f', 1, 64)
	}
	return strconv.FormatFloat(*units, 'f', -1, 64)
}
