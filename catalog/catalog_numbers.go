package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var catalogNumberRe = regexp.MustCompile(`^([[:upper:]]*)([[:digit:]]*)([[:upper:]]*)`)

// FormatCatalogNumber returns a fixed-width sort key for a catalog number so
// that "M120A" orders after "19" and before "CM121". Numbers without digits
// sort as 0 with their letters as the suffix.
func FormatCatalogNumber(catalogNumber string) string {
	submatches := catalogNumberRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(catalogNumber)))
	prefix := submatches[1]
	suffix := submatches[3]
	number, err := strconv.Atoi(submatches[2])
	if err != nil {
		number = 0
		suffix = prefix
		prefix = ""
	}
	return fmt.Sprintf("%04d%-2s%-2s", number, suffix, prefix)
}

// CompareCodes orders course codes by subject, then catalog number key, then
// the raw code.
func CompareCodes(a, b string) int {
	aSubject, aNumber := SplitCode(a)
	bSubject, bNumber := SplitCode(b)
	if c := strings.Compare(aSubject, bSubject); c != 0 {
		return c
	}
	if c := strings.Compare(FormatCatalogNumber(aNumber), FormatCatalogNumber(bNumber)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SplitCode splits "POL SCI 10" into "POL SCI" and "10".
func SplitCode(code string) (string, string) {
	code = strings.TrimSpace(code)
	index := strings.LastIndex(code, " ")
	if index < 0 {
		return "", code
	}
	return strings.TrimSpace(code[:index]), code[index+1:]
}
