package requirements

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bruinplan/scrape/db"
	"golang.org/x/net/html"
)

const defaultSchool = "College of Letters and Science"

var schoolRe = regexp.MustCompile(`(?i)College of Letters and Science|School`)

func MajorName(document *goquery.Document) string {
	for _, selector := range []string{"h1", "h2"} {
		if heading := document.Find(selector).First(); heading.Length() > 0 {
			return strings.TrimSpace(heading.Text())
		}
	}
	return ""
}

// School returns the text around the first mention of a school or college.
func School(document *goquery.Document) string {
	for _, root := range document.Nodes {
		if node := findText(root, schoolRe); node != nil {
			if node.Parent == nil {
				return defaultSchool
			}
			school := strings.TrimSpace(goquery.NewDocumentFromNode(node.Parent).Text())
			if school == "" {
				return defaultSchool
			}
			return school
		}
	}
	return ""
}

func findText(node *html.Node, re *regexp.Regexp) *html.Node {
	if node.Type == html.TextNode && re.MatchString(node.Data) {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findText(child, re); found != nil {
			return found
		}
	}
	return nil
}

// BuildMajor assembles the requirement document for a major page from its
// markup (for metadata) and its rendered text (for sections).
func BuildMajor(markup, pageText string) (db.Major, error) {
	major := db.Major{
		Requirements:      []db.Requirement{},
		RequirementGroups: []db.RequirementGroup{},
	}

	document, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return major, err
	}

	major.MajorName = MajorName(document)
	major.School = School(document)

	for _, section := range SplitSections(pageText) {
		group, requirement := ParseSection(section)
		switch {
		case group != nil:
			major.RequirementGroups = append(major.RequirementGroups, *group)
		case requirement != nil:
			major.Requirements = append(major.Requirements, *requirement)
		}
	}

	return major, nil
}
