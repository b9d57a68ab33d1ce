package extractor

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func docFromString(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractIdentity(t *testing.T) {
	doc := docFromString(t, `
		<body>
			<a href="/vsib/Content/sus/SupplierInformation.aspx?SupplierId=1">12345, ACME Industries AB</a>
		</body>`)
	rec := Extract(doc, testNow)

	require.Equal(t, "12345", rec.ID)
	require.Equal(t, "12345", rec.ParmaID)
	require.Equal(t, "ACME Industries AB", rec.Name)
	require.Equal(t, "AC", rec.Logo)
}

func TestExtractIdentityWithoutComma(t *testing.T) {
	doc := docFromString(t, `
		<body>
			<a href="/vsib/SupplierInformation.aspx">Unknown Supplier</a>
		</body>`)
	rec := Extract(doc, testNow)

	require.Equal(t, Placeholder, rec.ID)
	require.Equal(t, "Unknown", rec.Name)
	require.Equal(t, "??", rec.Logo)
}

func TestExtractQualityIndices(t *testing.T) {
	doc := docFromString(t, `
		<div id="IndexAuditPanel"><table>
			<tr><td>SMA / Criticality 1 Index Approved 74% Normal (Toshiaki Hatakeyama , 2017-03-17)</td></tr>
			<tr><td>Software Index Approved 81% Normal (Yuji Miura , 2016-12-01)</td></tr>
			<tr><td>EE Index Approved with conditions 69% Restriction Normal (Toshiaki Hatakeyama , 2017-03-29)</td></tr>
		</table></div>`)
	rec := Extract(doc, testNow)

	m := rec.Metrics
	require.Equal(t, "74%", m.Sma)
	require.Equal(t, "Approved", m.SmaStatus)
	require.Equal(t, "2017-03-17", m.SmaDate)

	require.Equal(t, "81%", m.SwIndex)
	require.Equal(t, "Approved", m.SwStatus)
	require.Equal(t, "2016-12-01", m.SwDate)

	require.Equal(t, "69%", m.EeIndex)
	require.Equal(t, "Approved with conditions (Restriction)", m.EeStatus)
	require.Equal(t, "2017-03-29", m.EeDate)

	// legacy key is emitted but never populated
	require.Equal(t, Placeholder, m.LegacySwDate)
}

func TestExtractQualityIndicesSegmentLengthIndependent(t *testing.T) {
	filler := strings.Repeat("lorem ipsum assessor notes ", 40)
	doc := docFromString(t, `
		<div id="IndexAuditPanel">
			SMA / Criticality 1 Index Not approved `+filler+` 31% (2019-08-08)
			Software Index `+filler+` Approved 92% (2020-02-02)
			EE Index Not approved `+filler+` 12% (2021-11-11)
		</div>`)
	rec := Extract(doc, testNow)

	m := rec.Metrics
	require.Equal(t, "31%", m.Sma)
	require.Equal(t, "Not Approved", m.SmaStatus)
	require.Equal(t, "2019-08-08", m.SmaDate)
	require.Equal(t, "92%", m.SwIndex)
	require.Equal(t, "Approved", m.SwStatus)
	require.Equal(t, "12%", m.EeIndex)
	require.Equal(t, "Not Approved", m.EeStatus)
	require.Equal(t, "2021-11-11", m.EeDate)
}

func TestMissingIndexAuditPanel(t *testing.T) {
	doc := docFromString(t, `<body><p>nothing to see</p></body>`)

	var rec SupplierRecord
	require.NotPanics(t, func() {
		rec = Extract(doc, testNow)
	})

	m := rec.Metrics
	for _, field := range []string{
		m.SwIndex, m.SwStatus, m.SwDate,
		m.EeIndex, m.EeStatus, m.EeDate,
		m.Sma, m.SmaStatus, m.SmaDate,
	} {
		require.Equal(t, Placeholder, field)
	}
}

func TestCertificationExpiryOverridesApproval(t *testing.T) {
	doc := docFromString(t, `
		<table><tr>
			<td><strong>Quality Certification:</strong></td>
			<td><div class="SSColorRating">IATF 16949 Approved Registrated: 2017-01-05 Expire: 2020-01-01</div></td>
		</tr></table>`)
	rec := Extract(doc, testNow)

	require.Equal(t, "Quality Cert", rec.Audits[0].Title)
	require.Equal(t, "Expired", rec.Audits[0].Status)
	require.Equal(t, StatusClassExpired, rec.Audits[0].StatusClass)
	require.Equal(t, "Exp: 2020-01-01", rec.Audits[0].Date)
}

func TestCertificationStillValid(t *testing.T) {
	doc := docFromString(t, `
		<table><tr>
			<td><strong>Environmental Certification:</strong></td>
			<td><div class="SSColorRating">ISO 14001 Registrated: 2022-01-05 Expire: 2030-01-01</div></td>
		</tr></table>`)
	rec := Extract(doc, testNow)

	require.Equal(t, "ISO 14001", rec.Audits[0].Title)
	require.Equal(t, "Approved", rec.Audits[0].Status)
	require.Equal(t, StatusClassApproved, rec.Audits[0].StatusClass)
}

func TestLogisticAuditGrades(t *testing.T) {
	testCases := []struct {
		cell   string
		status string
		class  string
	}{
		{"A 95% (2023-02-01)", "A 95%", StatusClassExcellent},
		{"B 85% (2023-05-10)", "B 85%", StatusClassApproved},
		{"C 40% (2023-09-30)", "C 40%", StatusClassNotApproved},
	}

	for _, test := range testCases {
		doc := docFromString(t, `
			<table><tr>
				<td><strong>Logistic Audit:</strong></td>
				<td><div class="SSColorRating">`+test.cell+`</div></td>
			</tr></table>`)
		rec := Extract(doc, testNow)

		require.Equal(t, "Logistic", rec.Audits[0].Title)
		require.Equal(t, test.status, rec.Audits[0].Status)
		require.Equal(t, test.class, rec.Audits[0].StatusClass)
	}
}

func TestCSRThresholds(t *testing.T) {
	testCases := []struct {
		pct    string
		status string
		class  string
	}{
		{"85", "Approved", StatusClassApproved},
		{"75", "Pending", StatusClassPending},
		{"40", "Not Approved", StatusClassNotApproved},
	}

	for _, test := range testCases {
		doc := docFromString(t, `
			<table><tr>
				<td><strong>Sustainability Self-Assessment:</strong></td>
				<td><div class="SSColorRating">`+test.pct+`% Evaluated: 2023-01-15</div></td>
			</tr></table>`)
		rec := Extract(doc, testNow)

		require.Equal(t, "CSR", rec.Audits[0].Title)
		require.Equal(t, test.pct+"%", rec.Audits[0].Status)
		require.Equal(t, test.class, rec.Audits[0].StatusClass)
		require.Equal(t, "Eval: 2023-01-15", rec.Audits[0].Date)

		require.Equal(t, test.pct+"%", rec.Metrics.Csr)
		require.Equal(t, test.status, rec.Metrics.CsrStatus)
		require.Equal(t, "2023-01-15", rec.Metrics.CsrDate)
	}
}

func TestREACHCompliance(t *testing.T) {
	doc := docFromString(t, `
		<table><tr>
			<td><strong>REACH EU Compliance:</strong></td>
			<td><div class="SSColorRating">Compliant Evaluated: 2022-03-01</div></td>
		</tr></table>`)
	rec := Extract(doc, testNow)

	expected := AuditEntry{
		Title:       "REACH",
		Status:      "Compliant",
		StatusClass: StatusClassApproved,
		Date:        "Eval: 2022-03-01",
	}
	if diff := cmp.Diff(expected, rec.Audits[0]); diff != "" {
		t.Fatalf("unexpected audit entry (-want +got):\n%s", diff)
	}
}

func TestSEMStoppingParameter(t *testing.T) {
	doc := docFromString(t, `
		<div id="SEMPanelFollowup">Not approved 45% StoppingParameter (2021-06-01)</div>`)
	rec := Extract(doc, testNow)

	require.Equal(t, "SEM", rec.Audits[0].Title)
	require.Equal(t, "Not Approved (Stopping) 45%", rec.Audits[0].Status)
	require.Equal(t, StatusClassNotApproved, rec.Audits[0].StatusClass)
	require.Equal(t, "2021-06-01", rec.Audits[0].Date)
}

func TestAuditPaddingToSix(t *testing.T) {
	doc := docFromString(t, `
		<div id="SEMPanelFollowup">Approved 80% (2022-01-01)</div>`)
	rec := Extract(doc, testNow)

	require.Len(t, rec.Audits, 6)
	require.Equal(t, "SEM", rec.Audits[0].Title)
	for _, audit := range rec.Audits[1:] {
		expected := AuditEntry{
			Title:       Placeholder,
			Status:      Placeholder,
			StatusClass: StatusClassNA,
			Date:        Placeholder,
		}
		require.Equal(t, expected, audit)
	}
}

func performanceTable(brand, rowID string) string {
	cells := []string{
		brand, "", "3.2", "5", "", "", "10", "12",
		"", "", "", "", "", "", "",
	}
	var sb strings.Builder
	sb.WriteString(`<table id="tblSales2"><tr id="` + rowID + `">`)
	for _, c := range cells {
		sb.WriteString("<td>" + c + "</td>")
	}
	sb.WriteString(`</tr></table>`)
	return sb.String()
}

func TestExtractPerformanceSupplierTotal(t *testing.T) {
	doc := docFromString(t, performanceTable("Supplier Total", "tr1"))
	rec := Extract(doc, testNow)

	require.Len(t, rec.Qpm.Values, 12)
	require.Len(t, rec.Ppm.Values, 12)
	require.Equal(t, monthLabels, rec.Qpm.Months)
	// the final point is the measured actual, everything before it is
	// synthetic filler
	require.Equal(t, 12.0, rec.Qpm.Values[11])
	require.Equal(t, 5.0, rec.Ppm.Values[11])
}

func TestExtractPerformanceShowHeadingRow(t *testing.T) {
	doc := docFromString(t, performanceTable("Some Brand", "trShowHeading2"))
	rec := Extract(doc, testNow)

	require.Len(t, rec.Qpm.Values, 12)
	require.Equal(t, 12.0, rec.Qpm.Values[11])
}

func TestExtractPerformanceIgnoresOrdinaryRows(t *testing.T) {
	doc := docFromString(t, performanceTable("Some Brand", "tr7"))
	rec := Extract(doc, testNow)

	require.Empty(t, rec.Qpm.Values)
	require.Empty(t, rec.Ppm.Values)
}
