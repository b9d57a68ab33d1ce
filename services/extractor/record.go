// Package extractor converts saved VSIB scorecard pages into structured
// supplier records. every lookup degrades to "N/A" on a miss, a record is
// always produced for every parseable input file.
package extractor

import "strings"

const Placeholder = "N/A"

// status classification tags consumed by the dashboard grid
const (
	StatusClassApproved    = "status-approved"
	StatusClassNotApproved = "status-not-approved"
	StatusClassExpired     = "status-expired"
	StatusClassExcellent   = "status-excellent"
	StatusClassPending     = "status-pending"
	StatusClassNA          = "status-na"
)

// the dashboard renders a fixed-width grid of six audit tiles, shorter
// lists are padded with placeholder entries
const auditGridSize = 6

type AuditEntry struct {
	Title       string `json:"title"`
	Status      string `json:"status"`
	StatusClass string `json:"statusClass"`
	Date        string `json:"date"`
}

func placeholderAudit() AuditEntry {
	return AuditEntry{
		Title:       Placeholder,
		Status:      Placeholder,
		StatusClass: StatusClassNA,
		Date:        Placeholder,
	}
}

// Metrics holds the named scorecard indices. LegacySwDate reproduces a
// stray "sw Date" key the historic exporter always emitted alongside
// swDate, kept for byte-compatibility with existing dashboard consumers.
type Metrics struct {
	SwIndex      string `json:"swIndex"`
	SwStatus     string `json:"swStatus"`
	SwDate       string `json:"swDate"`
	LegacySwDate string `json:"sw Date"`
	EeIndex      string `json:"eeIndex"`
	EeStatus     string `json:"eeStatus"`
	EeDate       string `json:"eeDate"`
	Sma          string `json:"sma"`
	SmaStatus    string `json:"smaStatus"`
	SmaDate      string `json:"smaDate"`
	Csr          string `json:"csr"`
	CsrStatus    string `json:"csrStatus"`
	CsrDate      string `json:"csrDate"`
	Saq          string `json:"saq"`
	SaqStatus    string `json:"saqStatus"`
}

func emptyMetrics() Metrics {
	return Metrics{
		SwIndex:      Placeholder,
		SwStatus:     Placeholder,
		SwDate:       Placeholder,
		LegacySwDate: Placeholder,
		EeIndex:      Placeholder,
		EeStatus:     Placeholder,
		EeDate:       Placeholder,
		Sma:          Placeholder,
		SmaStatus:    Placeholder,
		SmaDate:      Placeholder,
		Csr:          Placeholder,
		CsrStatus:    Placeholder,
		CsrDate:      Placeholder,
		Saq:          Placeholder,
		SaqStatus:    Placeholder,
	}
}

// MetricSeries is a synthetic 12-month display series, see GenerateSeries.
// it is extrapolated filler around a single measured value, not history.
type MetricSeries struct {
	Months []string  `json:"months"`
	Values []float64 `json:"values"`
}

type SupplierRecord struct {
	ID           string       `json:"id"`
	ParmaID      string       `json:"parmaId"`
	Name         string       `json:"name"`
	Logo         string       `json:"logo"`
	Address      string       `json:"address"`
	ProjectLink  string       `json:"projectLink"`
	TimeplanLink string       `json:"timeplanLink"`
	Apqp         string       `json:"apqp"`
	Ppap         string       `json:"ppap"`
	Audits       []AuditEntry `json:"audits"`
	Metrics      Metrics      `json:"metrics"`
	Qpm          MetricSeries `json:"qpm"`
	Ppm          MetricSeries `json:"ppm"`
}

// SupplierSummary is one entry of suppliers_index.json.
type SupplierSummary struct {
	ID      string `json:"id"`
	ParmaID string `json:"parmaId"`
	Name    string `json:"name"`
}

func newRecord() SupplierRecord {
	return SupplierRecord{
		ID:           Placeholder,
		ParmaID:      Placeholder,
		Name:         "Unknown",
		Logo:         "??",
		Address:      Placeholder,
		ProjectLink:  "#",
		TimeplanLink: "#",
		Apqp:         Placeholder,
		Ppap:         Placeholder,
		Metrics:      emptyMetrics(),
		Qpm:          MetricSeries{Months: []string{}, Values: []float64{}},
		Ppm:          MetricSeries{Months: []string{}, Values: []float64{}},
	}
}

func logoFromName(name string) string {
	if name == "Unknown" || name == "" {
		return "??"
	}
	runes := []rune(name)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

func padAudits(audits []AuditEntry) []AuditEntry {
	for len(audits) < auditGridSize {
		audits = append(audits, placeholderAudit())
	}
	return audits
}
