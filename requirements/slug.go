package requirements

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type slugAlias struct {
	name string
	slug string
}

// Checked in order against the lowercased major name.
var slugAliases = []slugAlias{
	{"african american studies", "AfricanAmericanStudiesBA"},
	{"african american", "AfricanAmericanStudiesBA"},
	{"af am", "AfricanAmericanStudiesBA"},
	{"computer science", "ComputerScienceBS"},
}

var slugStopWords = map[string]bool{
	"studies": true,
	"major":   true,
	"degree":  true,
	"program": true,
}

// CatalogSlug converts a major name into the catalog URL segment, e.g.
// "Political Science" -> "PoliticalScienceBA".
func CatalogSlug(majorName string) string {
	lower := strings.ToLower(strings.TrimSpace(majorName))
	for _, alias := range slugAliases {
		if strings.Contains(lower, alias.name) {
			return alias.slug
		}
	}

	var b strings.Builder
	for _, word := range strings.Fields(majorName) {
		if slugStopWords[strings.ToLower(word)] {
			continue
		}
		b.WriteString(capitalize(word))
	}
	b.WriteString("BA")
	return b.String()
}

func capitalize(word string) string {
	first, size := utf8.DecodeRuneInString(word)
	if first == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(first)) + strings.ToLower(word[size:])
}
