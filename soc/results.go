package soc

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bruinplan/scrape/catalog"
	"golang.org/x/net/html"
)

// Row is one qualifying line of the GE master list results table.
type Row struct {
	SubjectName   string
	CatalogNumber string
	Title         string
	Categories    []string
}

const resultColumns = 6

// ParseResults reads the inner markup of #divSearchResults. Each
// .ContainerWrapper holds either a subject heading or a table of courses for
// the most recent heading.
func ParseResults(markup string) ([]Row, error) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	var rows []Row
	var subjectName string

	document.Find(".ContainerWrapper").Each(func(_ int, wrapper *goquery.Selection) {
		if heading := wrapper.Find("h4").First(); heading.Length() > 0 {
			subjectName = strings.TrimSpace(heading.Text())
			return
		}

		if subjectName == "" {
			return
		}

		wrapper.Find("table.table-striped").First().Find("tbody tr").Each(func(_ int, tableRow *goquery.Selection) {
			cells := tableRow.Find("td")
			if cells.Length() != resultColumns {
				return
			}

			catalogNumber := strings.TrimSpace(cells.Eq(0).Text())
			title := strings.TrimSpace(cells.Eq(1).Text())
			categories := categoryLines(cells.Get(5))

			if catalogNumber == "" || title == "" || len(categories) == 0 {
				return
			}

			rows = append(rows, Row{
				SubjectName:   subjectName,
				CatalogNumber: catalogNumber,
				Title:         title,
				Categories:    categories,
			})
		})
	})

	return rows, nil
}

// categoryLines returns the text lines of a cell that name a known GE
// requirement, in document order.
func categoryLines(cell *html.Node) []string {
	var categories []string

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			for _, line := range strings.Split(node.Data, "\n") {
				line = strings.TrimSpace(line)
				if catalog.IsRequirement(line) {
					categories = append(categories, line)
				}
			}
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(cell)

	return categories
}
