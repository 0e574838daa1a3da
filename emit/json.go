package emit

import (
	"encoding/json"
	"io"

	"github.com/bruinplan/scrape/db"
)

// MajorJSON writes the major document with two-space indentation.
func MajorJSON(w io.Writer, major db.Major) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(major)
}
