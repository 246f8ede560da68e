package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	yearPattern  = regexp.MustCompile(`\b(\d{4})\b`)
	countPattern = regexp.MustCompile(`\d[\d,]*`)
)

// ParseYear extracts a four-digit year from a snippet such as "2023" or
// "2023/5/1". The second return reports whether a year was found.
func ParseYear(s string) (int, bool) {
	match := yearPattern.FindString(s)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}

// ParseCount extracts an integer from snippets such as "123", "1,234" or
// "Cited by 1234". Returns 0 when no digits are present.
func ParseCount(s string) int {
	match := countPattern.FindString(s)
	if match == "" {
		return 0
	}
	count, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return 0
	}
	return count
}

// SplitAuthors splits a Scholar author line into individual names.
func SplitAuthors(s string) []string {
	parts := strings.Split(s, ",")
	authors := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "and "))
		name = strings.TrimSuffix(name, "...")
		name = strings.TrimSpace(name)
		if name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}
