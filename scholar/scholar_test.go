package scholar

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/aluiziolira/go-scrape-scholar/config"
)

const testBaseURL = "http://scholar.test"

func newTestClient(t *testing.T, mutate func(*config.Config)) (*Client, *httpmock.MockTransport) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.BaseURL = testBaseURL
	cfg.Delay = 0
	cfg.DetailDelay = 0
	cfg.RandomDelay = 0
	cfg.MaxRetries = 0
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	transport := httpmock.NewMockTransport()
	client.WithTransport(transport)
	return client, transport
}

func searchPage(names ...string) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><h3 class="gs_rt">User profiles for query</h3><table>`)
	for i, name := range names {
		fmt.Fprintf(&sb, `<tr><td><h4 class="gs_rt2"><a href="/citations?user=user%d&amp;hl=en">%s</a></h4>Verified email at example.edu</td></tr>`, i, name)
	}
	sb.WriteString(`</table></body></html>`)
	return sb.String()
}

type listingRow struct {
	title string
	id    string
	year  string
	cited string
}

func listingPage(rows ...listingRow) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><table id="gsc_a_t"><tbody>`)
	for _, row := range rows {
		fmt.Fprintf(&sb, `<tr class="gsc_a_tr"><td class="gsc_a_t">`)
		fmt.Fprintf(&sb, `<a href="/citations?view_op=view_citation&amp;citation_for_view=%s">%s</a>`, row.id, row.title)
		fmt.Fprintf(&sb, `<div class="gs_gray">J Doe, A Author</div><div class="gs_gray">Journal of Things</div></td>`)
		fmt.Fprintf(&sb, `<td class="gsc_a_c"><a href="#">%s</a></td>`, row.cited)
		fmt.Fprintf(&sb, `<td class="gsc_a_y"><span>%s</span></td></tr>`, row.year)
	}
	sb.WriteString(`</tbody></table></body></html>`)
	return sb.String()
}

func detailPage(abstract string) string {
	return `<html><body><div id="gsc_oci_table">
	  <div class="gs_scl"><div class="gsc_oci_field">Authors</div><div class="gsc_oci_value">Jane Doe, John Smith</div></div>
	  <div class="gs_scl"><div class="gsc_oci_field">Publication date</div><div class="gsc_oci_value">2023/5/1</div></div>
	  <div class="gs_scl"><div class="gsc_oci_field">Journal</div><div class="gsc_oci_value">Journal of Things</div></div>
	  <div class="gs_scl"><div class="gsc_oci_field">Total citations</div><div class="gsc_oci_value">Cited by 42</div></div>
	</div>
	<div id="gsc_oci_descr">` + abstract + `</div></body></html>`
}

func detailURL(id string) string {
	return testBaseURL + "/citations?view_op=view_citation&citation_for_view=" + id
}
