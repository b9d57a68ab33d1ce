package vsib

import "strings"

// Outcome classifies what actually came back for a scorecard fetch.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeLoginRequired
	OutcomeAccessDenied
	OutcomeNotFound
	OutcomeIncomplete
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeLoginRequired:
		return "login_required"
	case OutcomeAccessDenied:
		return "access_denied"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "incomplete"
	}
}

// Err reports the outcomes that abort a supplier. an incomplete page is
// not one of them: the fetch worked, the content is just thin, so it gets
// saved like a success and the extractor degrades field by field.
func (o Outcome) Err(supplierID string) error {
	switch o {
	case OutcomeLoginRequired:
		return &OutcomeError{o, "login page detected for supplier " + supplierID + " - authentication required"}
	case OutcomeAccessDenied:
		return &OutcomeError{o, "access denied for supplier " + supplierID}
	case OutcomeNotFound:
		return &OutcomeError{o, "supplier " + supplierID + " not found"}
	default:
		return nil
	}
}

type OutcomeError struct {
	Outcome Outcome
	Message string
}

func (e *OutcomeError) Error() string { return e.Message }

var loginMarkers = []string{"login", "sign in", "authenticate", "logon"}

var accessDeniedMarkers = []string{
	"access denied", "permission denied", "not authorized", "forbidden",
}

var notFoundMarkers = []string{"supplier not found", "no supplier"}

// the scorecard widgets the collector expects to see on a good page
var keyElements = []string{
	"supplier spend", "dependency", "ppm", "qpm", "dispatch precision",
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// Classify applies the marker checks in precedence order, page text may
// contain overlapping substrings so the first match wins: login before
// access-denied before not-found before success validation.
func Classify(title, html string) Outcome {
	lowerTitle := strings.ToLower(title)
	lowerBody := strings.ToLower(html)

	if containsAny(lowerTitle, loginMarkers) || containsAny(lowerBody, loginMarkers) {
		return OutcomeLoginRequired
	}
	if containsAny(lowerBody, accessDeniedMarkers) {
		return OutcomeAccessDenied
	}
	if containsAny(lowerBody, notFoundMarkers) {
		return OutcomeNotFound
	}
	if strings.Contains(lowerBody, "supplier scorecard") && strings.Contains(lowerBody, "__viewstate") {
		return OutcomeSuccess
	}
	return OutcomeIncomplete
}

// KeyElementCount reports how many of the expected scorecard widgets appear
// in the page text, recorded in the batch metadata as a coarse quality
// signal.
func KeyElementCount(html string) int {
	lower := strings.ToLower(html)
	count := 0
	for _, elem := range keyElements {
		if strings.Contains(lower, elem) {
			count++
		}
	}
	return count
}
