/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const entriesHTML = `<html><body>
<table id="entries"><thead><tr><th>Car</th></tr></thead><tbody>
<tr><td>101</td><td>1</td><td>Photon</td><td>yes</td><td>yes</td><td>yes</td></tr>
<tr><td>102</td><td>2</td><td>Helios</td><td>yes</td><td>yes</td><td>no</td></tr>
</tbody></table>
</body></html>`

const standingsHTML = `<html><body>
<table id="standings"><tbody>
<tr><td>101</td><td>Photon</td><td>12</td></tr>
<tr><td>102</td><td>Helios</td><td>7</td></tr>
</tbody></table>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unable to parse test document: %v", err)
	}
	return doc
}

func TestParseEntries(t *testing.T) {
	cars, err := parseEntries(mustDoc(t, entriesHTML))
	if err != nil {
		t.Fatalf("parseEntries returned error: %v", err)
	}
	if len(cars) != 2 {
		t.Fatalf("parseEntries returned %d cars, want 2", len(cars))
	}
	if cars[0].ID != 101 || cars[0].Name != "Photon" ||
		!cars[0].PresentKnockout {
		t.Errorf("first car = %+v", cars[0])
	}
	if cars[1].PresentKnockout {
		t.Error("car 102 should not be present for knockout")
	}
}

func TestParseEntriesEmpty(t *testing.T) {
	_, err := parseEntries(mustDoc(t, "<html><body></body></html>"))
	if err == nil {
		t.Fatal("expected error for page without entries")
	}
}

func TestParseStandings(t *testing.T) {
	points, err := parseStandings(mustDoc(t, standingsHTML))
	if err != nil {
		t.Fatalf("parseStandings returned error: %v", err)
	}
	if points[101] != 12 || points[102] != 7 {
		t.Errorf("points = %v, want 101:12 102:7", points)
	}
}

func TestParseStandingsBadRow(t *testing.T) {
	html := strings.Replace(standingsHTML, "<td>12</td>", "<td>abc</td>", 1)
	if _, err := parseStandings(mustDoc(t, html)); err == nil {
		t.Fatal("expected error for non-numeric points")
	}
}
