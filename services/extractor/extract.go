package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"vsib-scorecard/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("vsib-scorecard.services.extractor")

var (
	percentRe   = regexp.MustCompile(`(\d+)%`)
	isoDateRe   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	expireRe    = regexp.MustCompile(`Expire:\s*(\d{4}-\d{2}-\d{2})`)
	evaluatedRe = regexp.MustCompile(`Evaluated:\s*(\d{4}-\d{2}-\d{2})`)
	gradeRe     = regexp.MustCompile(`([ABC])\s+(\d+)%`)
	parenDateRe = regexp.MustCompile(`\((\d{4}-\d{2}-\d{2})\)`)

	// the three quality indices appear concatenated in reading order with
	// no structural separator, each segment is delimited by the heading of
	// the next one. the pass order matters.
	smaSegmentRe = regexp.MustCompile(`(?i)SMA\s*/\s*Criticality\s+1\s+Index(.+?)(?:Software Index|EE Index|$)`)
	swSegmentRe  = regexp.MustCompile(`(?i)Software\s+Index(.+?)(?:EE Index|$)`)
	eeSegmentRe  = regexp.MustCompile(`(?i)EE\s+Index(.+)$`)
)

// Extract builds one SupplierRecord from a parsed scorecard page. it never
// fails: every lookup that misses leaves its field at the placeholder value.
// `now` drives certification-expiry comparisons.
func Extract(doc *goquery.Document, now time.Time) SupplierRecord {
	rec := newRecord()

	extractIdentity(doc, &rec)
	extractQualityIndices(doc, &rec.Metrics)

	if sem, ok := extractSEM(doc); ok {
		rec.Audits = append(rec.Audits, sem)
	}
	for _, rule := range certRules {
		row := htmlutil.FindLabelRow(doc, rule.label)
		row.Find("div.SSColorRating").Each(func(_ int, cell *goquery.Selection) {
			text := htmlutil.FlattenText(cell)
			if !rule.match(text) {
				return
			}
			rec.Audits = append(rec.Audits, rule.build(text, now, &rec.Metrics))
		})
	}
	rec.Audits = padAudits(rec.Audits)

	extractPerformance(doc, &rec)

	return rec
}

// identity comes from the supplier-information anchor, "<id>, <name>".
// without a comma both parts stay at their placeholders.
func extractIdentity(doc *goquery.Document, rec *SupplierRecord) {
	link := doc.Find(`a[href*='SupplierInformation.aspx']`).First()
	if link.Length() == 0 {
		return
	}
	info := htmlutil.FlattenText(link)
	id, name, found := strings.Cut(info, ",")
	if !found {
		return
	}
	rec.ID = strings.TrimSpace(id)
	rec.ParmaID = rec.ID
	rec.Name = strings.TrimSpace(name)
	rec.Logo = logoFromName(rec.Name)
}

func segmentPercent(segment string) (string, bool) {
	m := percentRe.FindStringSubmatch(segment)
	if m == nil {
		return "", false
	}
	return m[1] + "%", true
}

// approval keyword for the SMA and Software segments. "Approved" is checked
// first, the page's negative form is "Not approved" (lowercase a) so the
// positive check cannot shadow it.
func segmentStatus(segment string) (string, bool) {
	if strings.Contains(segment, "Approved") {
		return "Approved", true
	}
	if strings.Contains(segment, "Not approved") || strings.Contains(segment, "Not Approved") {
		return "Not Approved", true
	}
	return "", false
}

// the EE segment has two extra forms: "Approved with conditions" and a
// trailing "Restriction" flag.
func eeStatus(segment string) (string, bool) {
	var status string
	switch {
	case strings.Contains(segment, "Approved with conditions"):
		status = "Approved with conditions"
	case strings.Contains(segment, "Approved"):
		status = "Approved"
	case strings.Contains(segment, "Not approved"), strings.Contains(segment, "Not Approved"):
		status = "Not Approved"
	default:
		return "", false
	}
	if strings.Contains(segment, "Restriction") {
		status += " (Restriction)"
	}
	return status, true
}

func extractQualityIndices(doc *goquery.Document, m *Metrics) {
	panel := doc.Find("#IndexAuditPanel")
	if panel.Length() == 0 {
		return
	}
	text := htmlutil.FlattenText(panel)

	if match := smaSegmentRe.FindStringSubmatch(text); match != nil {
		segment := match[1]
		if pct, ok := segmentPercent(segment); ok {
			m.Sma = pct
		}
		if status, ok := segmentStatus(segment); ok {
			m.SmaStatus = status
		}
		if date := isoDateRe.FindString(segment); date != "" {
			m.SmaDate = date
		}
	}

	if match := swSegmentRe.FindStringSubmatch(text); match != nil {
		segment := match[1]
		if pct, ok := segmentPercent(segment); ok {
			m.SwIndex = pct
		}
		if status, ok := segmentStatus(segment); ok {
			m.SwStatus = status
		}
		if date := isoDateRe.FindString(segment); date != "" {
			m.SwDate = date
		}
	}

	if match := eeSegmentRe.FindStringSubmatch(text); match != nil {
		segment := match[1]
		if pct, ok := segmentPercent(segment); ok {
			m.EeIndex = pct
		}
		if status, ok := eeStatus(segment); ok {
			m.EeStatus = status
		}
		if date := isoDateRe.FindString(segment); date != "" {
			m.EeDate = date
		}
	}
}

// the SEM followup panel spells its negative as "Not approved"/"Not
// Approved" which contains the positive keyword, so the negative check runs
// first here.
func extractSEM(doc *goquery.Document) (AuditEntry, bool) {
	panel := doc.Find("#SEMPanelFollowup")
	if panel.Length() == 0 {
		return AuditEntry{}, false
	}
	text := htmlutil.FlattenText(panel)

	status := "Unknown"
	class := StatusClassNA
	switch {
	case strings.Contains(text, "Not approved"), strings.Contains(text, "Not Approved"):
		status = "Not Approved"
		class = StatusClassNotApproved
	case strings.Contains(text, "Approved"):
		status = "Approved"
		class = StatusClassApproved
	}
	if strings.Contains(text, "StoppingParameter") {
		status += " (Stopping)"
	}

	pct := Placeholder
	if p, ok := segmentPercent(text); ok {
		pct = p
	}
	date := Placeholder
	if d := isoDateRe.FindString(text); d != "" {
		date = d
	}

	return AuditEntry{
		Title:       "SEM",
		Status:      fmt.Sprintf("%s %s", status, pct),
		StatusClass: class,
		Date:        date,
	}, true
}

// each certification section is one declarative rule: a bold label anchors
// the containing row, rating cells are scanned, and build turns a matching
// cell into an audit entry. layout drift is patched by editing this table.
type certRule struct {
	label string
	match func(cellText string) bool
	build func(cellText string, now time.Time, m *Metrics) AuditEntry
}

var certRules = []certRule{
	{
		label: "Quality Certification:",
		match: func(s string) bool {
			return strings.Contains(s, "IATF") || strings.Contains(s, "ISO")
		},
		build: func(s string, now time.Time, _ *Metrics) AuditEntry {
			return expiringCert("Quality Cert", s, now)
		},
	},
	{
		label: "Environmental Certification:",
		match: func(s string) bool { return strings.Contains(s, "ISO 14001") },
		build: func(s string, now time.Time, _ *Metrics) AuditEntry {
			return expiringCert("ISO 14001", s, now)
		},
	},
	{
		label: "Logistic Audit:",
		match: func(s string) bool {
			return s != "" && s != Placeholder && gradeRe.MatchString(s)
		},
		build: func(s string, _ time.Time, _ *Metrics) AuditEntry {
			grade := gradeRe.FindStringSubmatch(s)
			class := StatusClassNotApproved
			switch grade[1] {
			case "A":
				class = StatusClassExcellent
			case "B":
				class = StatusClassApproved
			}
			date := Placeholder
			if m := parenDateRe.FindStringSubmatch(s); m != nil {
				date = m[1]
			}
			return AuditEntry{
				Title:       "Logistic",
				Status:      fmt.Sprintf("%s %s%%", grade[1], grade[2]),
				StatusClass: class,
				Date:        date,
			}
		},
	},
	{
		label: "REACH EU Compliance:",
		match: func(s string) bool { return strings.Contains(s, "Compliant") },
		build: func(s string, _ time.Time, _ *Metrics) AuditEntry {
			return AuditEntry{
				Title:       "REACH",
				Status:      "Compliant",
				StatusClass: StatusClassApproved,
				Date:        "Eval: " + evaluatedDate(s),
			}
		},
	},
	{
		label: "Sustainability Self-Assessment:",
		match: func(s string) bool { return percentRe.MatchString(s) },
		build: buildCSR,
	},
}

// certification status degrades to Expired when the recorded expiry date is
// in the past, regardless of any approval keyword in the cell.
func expiringCert(title, cellText string, now time.Time) AuditEntry {
	status := "Approved"
	class := StatusClassApproved
	date := Placeholder

	if m := expireRe.FindStringSubmatch(cellText); m != nil {
		date = m[1]
		expiry, err := time.Parse("2006-01-02", date)
		if err == nil && expiry.Before(now) {
			status = "Expired"
			class = StatusClassExpired
		}
	}

	return AuditEntry{
		Title:       title,
		Status:      status,
		StatusClass: class,
		Date:        "Exp: " + date,
	}
}

func evaluatedDate(cellText string) string {
	if m := evaluatedRe.FindStringSubmatch(cellText); m != nil {
		return m[1]
	}
	return Placeholder
}

// CSR classification tiers: >= 80% approved, >= 60% pending, below that not
// approved. this rule is the one source of the csr metrics trio.
func buildCSR(cellText string, _ time.Time, m *Metrics) AuditEntry {
	pctMatch := percentRe.FindStringSubmatch(cellText)
	pct, _ := strconv.Atoi(pctMatch[1])

	status := "Not Approved"
	class := StatusClassNotApproved
	switch {
	case pct >= 80:
		status = "Approved"
		class = StatusClassApproved
	case pct >= 60:
		status = "Pending"
		class = StatusClassPending
	}

	date := evaluatedDate(cellText)

	m.Csr = fmt.Sprintf("%d%%", pct)
	m.CsrStatus = status
	m.CsrDate = date

	return AuditEntry{
		Title:       "CSR",
		Status:      fmt.Sprintf("%d%%", pct),
		StatusClass: class,
		Date:        "Eval: " + date,
	}
}

// mirrors the historic exporter's numeric filter: anything that does not
// read as a plain non-negative decimal counts as zero.
func parseActual(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// the sales table carries one row per brand/consignee plus an aggregate
// supplier-total row, identified by its label or its ShowHeading row id.
// columns 3 and 7 hold the actual PPM and QPM values.
func extractPerformance(doc *goquery.Document, rec *SupplierRecord) {
	table := doc.Find("table#tblSales2")
	if table.Length() == 0 {
		return
	}

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 15 {
			return
		}
		brand := htmlutil.CleanText(cells.Eq(0).Text())
		if brand == "" || strings.Contains(brand, "Brand/Consignee") {
			return
		}

		rowID := row.AttrOr("id", "")
		if !strings.Contains(brand, "Supplier Total") && !strings.Contains(rowID, "ShowHeading") {
			return
		}

		ppmActual := parseActual(htmlutil.CleanText(cells.Eq(3).Text()))
		qpmActual := parseActual(htmlutil.CleanText(cells.Eq(7).Text()))

		rec.Qpm, rec.Ppm = GenerateSeries(qpmActual, ppmActual)
	})
}
