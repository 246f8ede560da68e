// Package parser extracts publication data from Google Scholar markup.
//
// Each extraction function is bound to one page shape and returns a ParseError
// when the structure it expects is missing. Scholar's markup is an external
// contract and changes without notice; keeping the selectors here, one
// function per field group, limits the blast radius when it does.
package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-scrape-scholar/models"
)

// ProfileCandidates parses the "User profiles for ..." block of a search
// results page. A page without the block yields an empty slice, not an error:
// most searches simply have no profile matches.
func ProfileCandidates(sel *goquery.Selection, base *url.URL) []models.ProfileCandidate {
	var candidates []models.ProfileCandidate

	sel.Find("h3.gs_rt").EachWithBreak(func(_ int, header *goquery.Selection) bool {
		if !strings.Contains(header.Text(), "User profiles for") {
			return true
		}
		table := header.NextAllFiltered("table").First()
		if table.Length() == 0 {
			return false
		}
		table.Find("h4.gs_rt2").Each(func(_ int, h4 *goquery.Selection) {
			link := h4.Find("a").First()
			href, ok := link.Attr("href")
			if !ok || !strings.Contains(href, "citations?user=") {
				return
			}
			userID := userIDFromHref(href, base)
			if userID == "" {
				return
			}
			candidate := models.ProfileCandidate{
				Name:   strings.TrimSpace(link.Text()),
				UserID: userID,
			}
			if parent := h4.Parent(); parent.Length() > 0 {
				candidate.Snippet = collapseSpace(parent.Text())
			}
			candidates = append(candidates, candidate)
		})
		return false
	})

	return candidates
}

// ListingRows parses the publication rows of one listing page, in page order.
// Rows missing a title link are dropped; a malformed row should not sink the
// page around it. The raw row count is returned alongside the stubs: the
// site's pagination offsets count every row it served, parsable or not.
func ListingRows(sel *goquery.Selection, base *url.URL) ([]models.PublicationStub, int) {
	var stubs []models.PublicationStub
	rawCount := 0

	sel.Find("tr.gsc_a_tr").Each(func(_ int, row *goquery.Selection) {
		rawCount++
		stub, err := stubFromRow(row, base)
		if err != nil {
			return
		}
		stubs = append(stubs, stub)
	})

	return stubs, rawCount
}

func stubFromRow(row *goquery.Selection, base *url.URL) (models.PublicationStub, error) {
	var stub models.PublicationStub

	titleCell := row.Find("td.gsc_a_t").First()
	if titleCell.Length() == 0 {
		return stub, ParseError{Field: "listing row title cell"}
	}
	titleLink := titleCell.Find("a").First()
	title := strings.TrimSpace(titleLink.Text())
	href, ok := titleLink.Attr("href")
	if title == "" || !ok || href == "" {
		return stub, ParseError{Field: "listing row title link"}
	}

	stub.Title = title
	stub.DetailURL = absoluteURL(href, base)

	gray := titleCell.Find("div.gs_gray")
	if gray.Length() >= 1 {
		stub.Authors = strings.TrimSpace(gray.Eq(0).Text())
	}
	if gray.Length() >= 2 {
		stub.Venue = strings.TrimSpace(gray.Eq(1).Text())
	}

	citedCell := row.Find("td.gsc_a_c").First()
	if citedLink := citedCell.Find("a").First(); citedLink.Length() > 0 {
		stub.CitedBy = strings.TrimSpace(citedLink.Text())
	} else {
		stub.CitedBy = "0"
	}

	if yearSpan := row.Find("td.gsc_a_y span").First(); yearSpan.Length() > 0 {
		stub.Year = strings.TrimSpace(yearSpan.Text())
	}

	return stub, nil
}

// PaperDetail holds the fields parsed from a publication's detail page.
type PaperDetail struct {
	Authors       []string
	Year          int
	Venue         string
	Volume        string
	Pages         string
	Publisher     string
	Abstract      string
	CitationCount int
}

// DetailFields parses a publication detail page. The field table is required;
// every field inside it, and the abstract, is optional.
func DetailFields(sel *goquery.Selection) (PaperDetail, error) {
	var detail PaperDetail

	table := sel.Find("#gsc_oci_table").First()
	if table.Length() == 0 {
		return detail, ParseError{Field: "detail field table"}
	}

	fields := make(map[string]string)
	table.Find("div.gs_scl").Each(func(_ int, row *goquery.Selection) {
		name := strings.TrimSpace(row.Find("div.gsc_oci_field").First().Text())
		value := strings.TrimSpace(row.Find("div.gsc_oci_value").First().Text())
		if name != "" && value != "" {
			fields[name] = value
		}
	})

	if authors, ok := fields["Authors"]; ok {
		detail.Authors = SplitAuthors(authors)
	}
	if date, ok := fields["Publication date"]; ok {
		if year, ok := ParseYear(date); ok {
			detail.Year = year
		}
	}
	detail.Venue = firstField(fields, "Journal", "Conference", "Book", "Source")
	detail.Volume = fields["Volume"]
	detail.Pages = fields["Pages"]
	detail.Publisher = fields["Publisher"]
	if cited, ok := fields["Total citations"]; ok {
		detail.CitationCount = ParseCount(cited)
	}

	if descr := sel.Find("#gsc_oci_descr").First(); descr.Length() > 0 {
		detail.Abstract = collapseSpace(descr.Text())
	}

	return detail, nil
}

func firstField(fields map[string]string, names ...string) string {
	for _, name := range names {
		if value, ok := fields[name]; ok {
			return value
		}
	}
	return ""
}

func userIDFromHref(href string, base *url.URL) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		parsed = base.ResolveReference(parsed)
	}
	return parsed.Query().Get("user")
}

func absoluteURL(href string, base *url.URL) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base != nil {
		parsed = base.ResolveReference(parsed)
	}
	return parsed.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
