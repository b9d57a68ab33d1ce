package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestFlattenText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<div id="panel">
			<span>Software  Index</span>
			<span>Approved	81%</span>
		</div>`))
	require.NoError(t, err)

	require.Equal(t, "Software Index Approved 81%", FlattenText(doc.Find("#panel")))
}

func TestFlattenTextKeepsWordBoundaries(t *testing.T) {
	// pretty-printed markup puts newlines and tab indentation between
	// elements, those must survive as single spaces
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		"<div id=\"panel\">\n\t<span>SMA / Criticality</span>\n\t<span>1</span>\n\t<span>Index</span>\n\t<span>Not approved 31%</span>\n</div>"))
	require.NoError(t, err)

	require.Equal(t, "SMA / Criticality 1 Index Not approved 31%", FlattenText(doc.Find("#panel")))
}

func TestFindLabelRow(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<table>
			<tr><td><strong>Quality Certification:</strong></td>
				<td><div class="SSColorRating">IATF 16949</div></td></tr>
			<tr><td><strong>Logistic Audit:</strong></td>
				<td><div class="SSColorRating">B 85%</div></td></tr>
		</table>`))
	require.NoError(t, err)

	row := FindLabelRow(doc, "Logistic Audit:")
	require.Equal(t, 1, row.Length())
	require.Equal(t, "B 85%", strings.TrimSpace(row.Find("div.SSColorRating").Text()))

	missing := FindLabelRow(doc, "No Such Label:")
	require.Equal(t, 0, missing.Length())
}
