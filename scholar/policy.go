package scholar

import "github.com/aluiziolira/go-scrape-scholar/parser"

// Decision is the limit-policy verdict for one listing row.
type Decision int

const (
	// Continue keeps the row and scans on.
	Continue Decision = iota
	// StopBefore excludes the row and ends the scan.
	StopBefore
	// StopAfter includes the row and ends the scan.
	StopAfter
)

// Decide applies the scan limits to the next candidate row. The year cutoff
// is checked first: a row strictly older than yearLimit ends the scan without
// being included. Otherwise the row is included, and the scan ends once it
// fills maxPapers. yearLimit <= 0 disables the year check, as does a year
// snippet that does not parse.
func Decide(yearSnippet string, yearLimit, accumulated, maxPapers int) Decision {
	if yearLimit > 0 {
		if year, ok := parser.ParseYear(yearSnippet); ok && year < yearLimit {
			return StopBefore
		}
	}
	if accumulated+1 >= maxPapers {
		return StopAfter
	}
	return Continue
}
