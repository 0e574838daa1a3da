package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/bruinplan/scrape/db"
	"github.com/go-resty/resty/v2"
)

const socUrl = "https://sa.ucla.edu/ro/public/soc/"
const subjectSearchUrl = "https://sa.ucla.edu/ro/ClassSearch/Public/Search/GetSimpleSearchData"

var searchPanelRe = regexp.MustCompile(`SearchPanelSetup\('(\[\{.*\}\])'`)

var errNoSubjectData = errors.New("subjects: search panel data not found")

type SubjectAreaOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ParseTerms reads the term selector of the Schedule of Classes landing page.
func ParseTerms(r io.Reader) ([]db.Term, error) {
	document, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var terms []db.Term
	var parseErr error
	document.Find("select#optSelectTerm option").EachWithBreak(func(_ int, option *goquery.Selection) bool {
		code, exists := option.Attr("value")
		if !exists {
			parseErr = errors.New("subjects: unable to determine term code")
			return false
		}
		terms = append(terms, db.Term{Code: strings.TrimSpace(code), Name: strings.TrimSpace(option.Text())})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return terms, nil
}

// ParseSubjectAreas decodes the options embedded in the subject search
// response. Labels carry the code, e.g. "Computer Science (COM SCI)".
func ParseSubjectAreas(content []byte) ([]db.SubjectArea, error) {
	submatches := searchPanelRe.FindSubmatch(content)
	if submatches == nil {
		return nil, errNoSubjectData
	}
	encodedOptions := []byte(html.UnescapeString(string(submatches[1])))

	var subjectAreaOptions []SubjectAreaOption
	if err := json.Unmarshal(encodedOptions, &subjectAreaOptions); err != nil {
		return nil, err
	}

	var subjectAreas []db.SubjectArea
	for _, subjectAreaOption := range subjectAreaOptions {
		code := strings.TrimSpace(subjectAreaOption.Value)

		labelCode := "(" + code + ")"
		name := strings.TrimSpace(strings.ReplaceAll(subjectAreaOption.Label, labelCode, ""))

		subjectAreas = append(subjectAreas, db.SubjectArea{Code: code, Name: name})
	}

	return subjectAreas, nil
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

func NewClient(timeout time.Duration) *resty.Client {
	client := resty.New()
	client.SetHeader("user-agent", userAgent)
	// Required
	client.SetHeader("X-Requested-With", "XMLHttpRequest")
	client.SetTimeout(timeout)
	return client
}

func get(ctx context.Context, client *resty.Client, url string, query map[string]string) ([]byte, error) {
	res, err := client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(url)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("subjects: %s: unexpected status %s", url, res.Status())
	}
	return res.Body(), nil
}

func ScrapeTerms(ctx context.Context, client *resty.Client) ([]db.Term, error) {
	content, err := get(ctx, client, socUrl, nil)
	if err != nil {
		return nil, err
	}
	return ParseTerms(bytes.NewReader(content))
}

func ScrapeSubjectAreas(ctx context.Context, client *resty.Client, termCode string) ([]db.SubjectArea, error) {
	content, err := get(ctx, client, subjectSearchUrl, map[string]string{
		"term_cd":     termCode,
		"search_type": "subject",
	})
	if err != nil {
		return nil, err
	}
	return ParseSubjectAreas(content)
}

type Change struct {
	Name     string
	Previous string
	Current  string
}

// Compare lists subject areas whose abbreviation is missing from or differs
// from known, ordered by name.
func Compare(subjectAreas []db.SubjectArea, known map[string]string) []Change {
	var changes []Change
	for _, subjectArea := range subjectAreas {
		if previous, ok := known[subjectArea.Name]; !ok || previous != subjectArea.Code {
			changes = append(changes, Change{Name: subjectArea.Name, Previous: previous, Current: subjectArea.Code})
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Name < changes[j].Name
	})
	return changes
}

// Merge overlays the scraped abbreviations onto known. Entries only known
// locally are kept.
func Merge(subjectAreas []db.SubjectArea, known map[string]string) map[string]string {
	merged := make(map[string]string, len(known)+len(subjectAreas))
	for name, code := range known {
		merged[name] = code
	}
	for _, subjectArea := range subjectAreas {
		merged[subjectArea.Name] = subjectArea.Code
	}
	return merged
}
