package requirements

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

var markdownLinkRe = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)

// Keeps headings, paragraphs, lists and tables. The document title is dropped
// along with scripts and styles so it never reads as page text.
var pagePolicy = newPagePolicy()

func newPagePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.SkipElementsContent("head", "title")
	return p
}

// TextFromMarkup renders saved page markup as line-oriented text, standing in
// for the browser's rendered body text when a page is parsed offline.
func TextFromMarkup(markup string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	text, err := conv.ConvertString(pagePolicy.Sanitize(markup))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(markdownLinkRe.ReplaceAllString(text, "$1")), nil
}
