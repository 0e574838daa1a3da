package requirements

import (
	"regexp"
	"strconv"
)

const numberPattern = `(\d+|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)`

var spelledNumbers = map[string]int{
	"one":    1,
	"two":    2,
	"three":  3,
	"four":   4,
	"five":   5,
	"six":    6,
	"seven":  7,
	"eight":  8,
	"nine":   9,
	"ten":    10,
	"eleven": 11,
	"twelve": 12,
}

// parseNumber reads a digit string or a spelled number; anything else is 0.
func parseNumber(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return spelledNumbers[s]
}

// rule is one matcher in an ordered first-match-wins list.
type rule struct {
	name    string
	pattern *regexp.Regexp
}

func newRule(name, pattern string) rule {
	return rule{name: name, pattern: regexp.MustCompile(pattern)}
}

// firstMatch returns the submatches of the first rule that matches text.
func firstMatch(rules []rule, text string) (string, []string, bool) {
	for _, r := range rules {
		if submatches := r.pattern.FindStringSubmatch(text); submatches != nil {
			return r.name, submatches, true
		}
	}
	return "", nil, false
}

// Patterns run against lowercased text.
var (
	totalRules = []rule{
		newRule("courses total", `\b`+numberPattern+`\s+courses?\s+total`),
	}

	highRules = []rule{
		newRule("courses in one", `\b`+numberPattern+`\s+(?:courses?|classes?)\s+in\s+one\b`),
		newRule("in one", `\b`+numberPattern+`\s+in\s+one\b`),
	}

	lowRules = []rule{
		newRule("additional courses from each of the remaining", `\b`+numberPattern+`\s+additional\s+(?:courses?|classes?)\s+from\s+each\s+of\s+the\s+remaining\s+`+numberPattern+`\s+`),
		newRule("from each of the remaining", `\b`+numberPattern+`\s+from\s+each\s+of\s+the\s+remaining\s+`+numberPattern+`\b`),
	}

	chooseRules = []rule{
		newRule("courses total", `(\d+)\s+courses?\s+total`),
		newRule("select courses total", `select\s+(\d+)\s+courses?\s+total`),
		newRule("complete courses", `complete\s+(\d+)\s+courses?`),
		newRule("select courses", `select\s+(\d+)\s+courses?`),
		newRule("upper-division courses", `(\d+)\s+upper-division\s+courses?`),
	}
)
